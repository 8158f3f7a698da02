package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pcarvalho/editassist/internal/models"
)

type TransactionRepo struct {
	DB DBTX
}

const appendTransaction = `-- name: AppendTransaction
INSERT INTO transactions (id, user_id, amount, kind, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, amount, kind, description, created_at
`

func (r *TransactionRepo) Append(ctx context.Context, userID uuid.UUID, amount int, kind string, description string) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, appendTransaction, uuid.New(), userID, amount, kind, description)
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return tr, fmt.Errorf("unknown transaction kind %q: %w", kind, err)
		}

		return tr, fmt.Errorf("db error: %w", err)
	}

	return tr, nil
}

// seq orders the rows, not created_at: now() is frozen for the whole
// database transaction, so entries written together would tie on it
const listTransactionsByUser = `-- name: ListTransactionsByUser
SELECT id, user_id, amount, kind, description, created_at FROM transactions
WHERE user_id = $1
ORDER BY seq DESC
`

func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listTransactionsByUser, userID)
	trs, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return trs, nil
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Kind, &t.Description, &t.CreatedAt)
	return t, err
}
