package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pcarvalho/editassist/internal/models"
)

// Storage aggregates all repositories over a single database handle.
// InTx runs fn with a Storage bound to one database transaction: everything
// fn does either commits together or not at all. The ledger relies on this
// to pair every balance update with its transaction row.
type Storage interface {
	User() UserRepo
	Profile() ProfileRepo
	Transaction() TransactionRepo
	Refresh() RefreshTokenRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, email string, hashedPassword string) (models.User, error)

	// Get user by its id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Profile repository interface
type ProfileRepo interface {
	// Create profile with the given starting credits
	CreateProfile(ctx context.Context, userID uuid.UUID, credits int) (models.Profile, error)

	// Get profile by owning user
	// If profile not found must return apperrors.ErrProfileNotFound
	GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error)

	// AddCredits unconditionally increments the balance and returns the updated profile
	AddCredits(ctx context.Context, userID uuid.UUID, amount int) (models.Profile, error)

	// SpendCredits decrements the balance only if at least amount credits remain.
	// The decrement is a single conditional UPDATE so two concurrent spends can
	// never both succeed on the last credit.
	// Must return apperrors.ErrInsufficientCredits when the balance is too low.
	SpendCredits(ctx context.Context, userID uuid.UUID, amount int) (models.Profile, error)
}

// Transaction log repository interface
// The log is append-only: no update or delete operations exist.
type TransactionRepo interface {
	Append(ctx context.Context, userID uuid.UUID, amount int, kind string, description string) (models.Transaction, error)

	// List user transactions in reverse insertion order (newest first).
	// The order must stay stable for entries written in the same database
	// transaction, where created_at ties.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	Save(ctx context.Context, token models.RefreshToken) error

	// Get token even if it is expired or used already
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Atomically mark the token used and return it
	// If the token is already used must return apperrors.ErrRefreshTokenIsUsed
	// and must not overwrite the existing used_at
	GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error)
}
