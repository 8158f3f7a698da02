package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/models"
	"github.com/pcarvalho/editassist/internal/repository"
	"github.com/pcarvalho/editassist/internal/repository/postgres"
	"github.com/pcarvalho/editassist/internal/testutil"
)

func TestLedgerService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Create ledger service within a rolled back transaction together with a
	// user holding the given starting balance
	inTx := func(t *testing.T, credits int, fn func(s *LedgerService, storage repository.Storage, userID uuid.UUID)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			user, err := storage.User().CreateUser(t.Context(), "ana@example.com", "hash")
			require.NoError(t, err)
			_, err = storage.Profile().CreateProfile(t.Context(), user.ID, credits)
			require.NoError(t, err)

			fn(NewService(storage, nil), storage, user.ID)
		})
	}

	t.Run("SpendCredit", func(t *testing.T) {
		t.Run("debit and ledger entry", func(t *testing.T) {
			inTx(t, 10, func(s *LedgerService, storage repository.Storage, userID uuid.UUID) {
				profile, err := s.SpendCredit(t.Context(), userID)

				require.NoError(t, err)
				require.Equal(t, 9, profile.Credits)

				trs, err := storage.Transaction().ListByUser(t.Context(), userID)
				require.NoError(t, err)
				require.Len(t, trs, 1, "exactly one usage transaction should be appended")
				require.Equal(t, -1, trs[0].Amount)
				require.Equal(t, models.TransactionKindUsage, trs[0].Kind)
			})
		})

		t.Run("zero balance rejected with no side effects", func(t *testing.T) {
			inTx(t, 0, func(s *LedgerService, storage repository.Storage, userID uuid.UUID) {
				_, err := s.SpendCredit(t.Context(), userID)

				require.ErrorIs(t, err, apperrors.ErrInsufficientCredits)

				profile, err := s.GetProfile(t.Context(), userID)
				require.NoError(t, err)
				require.Equal(t, 0, profile.Credits, "rejected spend must not touch the balance")

				trs, err := storage.Transaction().ListByUser(t.Context(), userID)
				require.NoError(t, err)
				require.Empty(t, trs, "rejected spend must not append transactions")
			})
		})

		t.Run("spend until empty", func(t *testing.T) {
			inTx(t, 10, func(s *LedgerService, storage repository.Storage, userID uuid.UUID) {
				for i := range 10 {
					profile, err := s.SpendCredit(t.Context(), userID)
					require.NoError(t, err)
					require.Equal(t, 9-i, profile.Credits)
				}

				_, err := s.SpendCredit(t.Context(), userID)
				require.ErrorIs(t, err, apperrors.ErrInsufficientCredits, "11th spend from 10 credits should be rejected")
			})
		})
	})

	t.Run("RefundCredit", func(t *testing.T) {
		inTx(t, 10, func(s *LedgerService, storage repository.Storage, userID uuid.UUID) {
			_, err := s.SpendCredit(t.Context(), userID)
			require.NoError(t, err)

			profile, err := s.RefundCredit(t.Context(), userID)

			require.NoError(t, err)
			require.Equal(t, 10, profile.Credits, "refund should restore the reserved credit")

			trs, err := storage.Transaction().ListByUser(t.Context(), userID)
			require.NoError(t, err)
			require.Len(t, trs, 2, "usage and refund entries should both stay in the ledger")

			sum := 0
			for _, tr := range trs {
				sum += tr.Amount
			}
			require.Zero(t, sum, "usage and refund should net to zero")
		})
	})

	t.Run("Purchase", func(t *testing.T) {
		t.Run("pro package from balance 3", func(t *testing.T) {
			inTx(t, 3, func(s *LedgerService, storage repository.Storage, userID uuid.UUID) {
				profile, err := s.Purchase(t.Context(), userID, "pro")

				require.NoError(t, err)
				require.Equal(t, 173, profile.Credits, "pro grants 150 credits + 20 bonus")

				trs, err := storage.Transaction().ListByUser(t.Context(), userID)
				require.NoError(t, err)
				require.Len(t, trs, 1)
				require.Equal(t, 170, trs[0].Amount)
				require.Equal(t, models.TransactionKindPurchase, trs[0].Kind)
				require.Contains(t, trs[0].Description, "Pro")
			})
		})

		t.Run("unknown package fail", func(t *testing.T) {
			inTx(t, 3, func(s *LedgerService, storage repository.Storage, userID uuid.UUID) {
				_, err := s.Purchase(t.Context(), userID, "mega")

				require.ErrorIs(t, err, apperrors.ErrPackageNotFound)

				profile, err := s.GetProfile(t.Context(), userID)
				require.NoError(t, err)
				require.Equal(t, 3, profile.Credits)
			})
		})

		t.Run("declined payment grants nothing", func(t *testing.T) {
			inTx(t, 3, func(s *LedgerService, storage repository.Storage, userID uuid.UUID) {
				declined := NewService(storage, decliningProcessor{})

				_, err := declined.Purchase(t.Context(), userID, "starter")

				require.ErrorIs(t, err, apperrors.ErrPaymentDeclined)

				trs, err := storage.Transaction().ListByUser(t.Context(), userID)
				require.NoError(t, err)
				require.Empty(t, trs)
			})
		})
	})

	t.Run("Packages", func(t *testing.T) {
		s := NewService(nil, nil)

		pkgs := s.Packages()

		require.Len(t, pkgs, 3)
		require.Equal(t, "starter", pkgs[0].ID)
		require.Equal(t, 170, pkgs[1].Total(), "pro total should include the bonus")
	})
}

// Spends run on the pool directly (not inside a rolled back transaction) so
// that goroutines race on separate connections the way real requests do.
func TestLedgerServiceConcurrentSpend(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	storage := postgres.NewStorage(pg.Pool)

	user, err := storage.User().CreateUser(context.Background(), "racer@example.com", "hash")
	require.NoError(t, err)
	_, err = storage.Profile().CreateProfile(context.Background(), user.ID, 10)
	require.NoError(t, err)

	s := NewService(storage, nil)

	const attempts = 25
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.SpendCredit(context.Background(), user.ID)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, apperrors.ErrInsufficientCredits)
		}
	}
	require.Equal(t, 10, succeeded, "exactly as many spends as credits should succeed")

	profile, err := s.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, profile.Credits, "balance must never go below zero")
}

type decliningProcessor struct{}

func (decliningProcessor) Authorize(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (string, error) {
	return "", apperrors.ErrPaymentDeclined
}

func (decliningProcessor) Capture(ctx context.Context, authorizationID string) error {
	return errors.New("nothing to capture")
}
