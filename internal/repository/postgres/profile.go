package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/models"
)

type ProfileRepo struct {
	DB DBTX
}

const createProfile = `-- name: CreateProfile
INSERT INTO profiles (id, user_id, credits)
VALUES ($1, $2, $3)
RETURNING id, user_id, credits, created_at, updated_at
`

func (r *ProfileRepo) CreateProfile(ctx context.Context, userID uuid.UUID, credits int) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, createProfile, uuid.New(), userID, credits)
	profile, err := pgx.CollectOneRow(rows, rowToProfile)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return profile, fmt.Errorf("user profile already exists: %w", err)
		}

		return profile, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

const getProfile = `-- name: GetProfile
SELECT id, user_id, credits, created_at, updated_at FROM profiles
WHERE user_id = $1
`

func (r *ProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, getProfile, userID)
	profile, err := pgx.CollectOneRow(rows, rowToProfile)

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		return profile, apperrors.ErrProfileNotFound
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

const addCredits = `-- name: AddCredits
UPDATE profiles
SET credits = credits + $2, updated_at = now()
WHERE user_id = $1
RETURNING id, user_id, credits, created_at, updated_at
`

func (r *ProfileRepo) AddCredits(ctx context.Context, userID uuid.UUID, amount int) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, addCredits, userID, amount)
	profile, err := pgx.CollectOneRow(rows, rowToProfile)

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		return profile, apperrors.ErrProfileNotFound
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

// The WHERE clause carries the balance check, so the decrement is atomic:
// there is no window between reading the balance and writing it back.
const spendCredits = `-- name: SpendCredits
UPDATE profiles
SET credits = credits - $2, updated_at = now()
WHERE user_id = $1 AND credits >= $2
RETURNING id, user_id, credits, created_at, updated_at
`

func (r *ProfileRepo) SpendCredits(ctx context.Context, userID uuid.UUID, amount int) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, spendCredits, userID, amount)
	profile, err := pgx.CollectOneRow(rows, rowToProfile)

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		// No row matched: the profile is missing or the balance is too low.
		// Look the profile up to tell the two apart.
		if _, getErr := r.GetProfile(ctx, userID); getErr != nil {
			return profile, getErr
		}
		return profile, apperrors.ErrInsufficientCredits
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

func rowToProfile(row pgx.CollectableRow) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Credits, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
