// Package ledger is the usage gate: it decides whether a credit-costing
// action may proceed and records every balance change as an append-only
// transaction. All mutations pair the profile update with the transaction
// insert in one database transaction, so the balance always equals the sum
// of the recorded amounts.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/metrics"
	"github.com/pcarvalho/editassist/internal/models"
	"github.com/pcarvalho/editassist/internal/repository"
	"github.com/pcarvalho/editassist/internal/service/payment"
)

// Every assistant interaction costs exactly one credit.
const (
	EditCost          = 1
	usageDescription  = "Media edit"
	refundDescription = "Media edit refund"
)

type LedgerService struct {
	storage   repository.Storage
	processor payment.Processor
}

func NewService(storage repository.Storage, processor payment.Processor) *LedgerService {
	if processor == nil {
		processor = payment.Simulated{}
	}

	return &LedgerService{
		storage:   storage,
		processor: processor,
	}
}

// GetProfile returns the authoritative balance for the user.
func (s *LedgerService) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	return s.storage.Profile().GetProfile(ctx, userID)
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.storage.Transaction().ListByUser(ctx, userID)
}

// SpendCredit debits one credit for an assistant interaction. The debit is a
// conditional decrement, so concurrent spends can not take the balance below
// zero; apperrors.ErrInsufficientCredits is returned when nothing is left.
func (s *LedgerService) SpendCredit(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	var profile models.Profile

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		var err error
		profile, err = storage.Profile().SpendCredits(ctx, userID, EditCost)
		if err != nil {
			return err
		}

		_, err = storage.Transaction().Append(ctx, userID, -EditCost, models.TransactionKindUsage, usageDescription)
		return err
	})
	if err != nil {
		return profile, err
	}

	return profile, nil
}

// RefundCredit compensates a debit whose action never completed (the relay
// call failed after the reservation). The refund entry keeps the ledger
// history honest instead of deleting the usage row.
func (s *LedgerService) RefundCredit(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	var profile models.Profile

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		var err error
		profile, err = storage.Profile().AddCredits(ctx, userID, EditCost)
		if err != nil {
			return err
		}

		_, err = storage.Transaction().Append(ctx, userID, EditCost, models.TransactionKindRefund, refundDescription)
		return err
	})
	if err != nil {
		return profile, err
	}

	metrics.CreditsGranted.WithLabelValues("refund").Add(EditCost)
	return profile, nil
}

// Purchase grants the package credits after the payment processor authorizes
// and captures the (simulated) charge.
func (s *LedgerService) Purchase(ctx context.Context, userID uuid.UUID, packageID string) (models.Profile, error) {
	var profile models.Profile

	pkg, ok := models.FindPackage(packageID)
	if !ok {
		return profile, apperrors.ErrPackageNotFound
	}

	authID, err := s.processor.Authorize(ctx, userID, pkg.Price)
	if err != nil {
		return profile, fmt.Errorf("payment authorization failed. Err: %w", err)
	}
	if err := s.processor.Capture(ctx, authID); err != nil {
		return profile, fmt.Errorf("payment capture failed. Err: %w", err)
	}

	total := pkg.Total()
	description := fmt.Sprintf("%s package - %d credits", pkg.Name, total)

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		var err error
		profile, err = storage.Profile().AddCredits(ctx, userID, total)
		if err != nil {
			return err
		}

		_, err = storage.Transaction().Append(ctx, userID, total, models.TransactionKindPurchase, description)
		return err
	})
	if err != nil {
		return profile, err
	}

	metrics.CreditsGranted.WithLabelValues("purchase").Add(float64(total))
	return profile, nil
}

// Packages returns the storefront catalog.
func (s *LedgerService) Packages() []models.CreditPackage {
	return models.CreditPackages
}
