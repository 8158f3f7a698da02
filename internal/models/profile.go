package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionKindPurchase = "purchase"
	TransactionKindUsage    = "usage"
	TransactionKindRefund   = "refund"
)

// Profile holds the credit balance for a single user.
// The credits column is the authoritative balance; every change to it is
// paired with a Transaction row in the same database transaction.
type Profile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Credits   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is an append-only record of a single balance change.
// Positive amounts are grants (purchases, welcome bonus, refunds),
// negative amounts are usage debits.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      int
	Kind        string
	Description string
	CreatedAt   time.Time
}
