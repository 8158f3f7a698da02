package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/handlers/userctx"
	"github.com/pcarvalho/editassist/internal/logger"
	"github.com/pcarvalho/editassist/internal/models"
)

type fakeLedgerService struct {
	profile      models.Profile
	transactions []models.Transaction
	purchaseErr  error
}

func (f *fakeLedgerService) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	return f.profile, nil
}

func (f *fakeLedgerService) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeLedgerService) Purchase(ctx context.Context, userID uuid.UUID, packageID string) (models.Profile, error) {
	if f.purchaseErr != nil {
		return models.Profile{}, f.purchaseErr
	}
	return f.profile, nil
}

func (f *fakeLedgerService) Packages() []models.CreditPackage {
	return models.CreditPackages
}

func TestCreditsHandlers(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "ana@example.com"}

	withUser := func(r *http.Request) *http.Request {
		return r.WithContext(userctx.New(r.Context(), user))
	}

	t.Run("credits", func(t *testing.T) {
		service := &fakeLedgerService{profile: models.Profile{UserID: user.ID, Credits: 7}}

		req := withUser(httptest.NewRequest(http.MethodGet, "/credits", nil))
		rec := httptest.NewRecorder()
		handleCredits(service, logger.NewNoOp()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"credits": 7}`, rec.Body.String())
	})

	t.Run("transactions", func(t *testing.T) {
		createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		service := &fakeLedgerService{
			transactions: []models.Transaction{
				{Amount: -1, Kind: models.TransactionKindUsage, Description: "Media edit", CreatedAt: createdAt},
				{Amount: 10, Kind: models.TransactionKindPurchase, Description: "Welcome bonus", CreatedAt: createdAt},
			},
		}

		req := withUser(httptest.NewRequest(http.MethodGet, "/transactions", nil))
		rec := httptest.NewRecorder()
		handleListTransactions(service, logger.NewNoOp()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[
			{"amount": -1, "type": "usage", "description": "Media edit", "created_at": "2026-08-01T12:00:00Z"},
			{"amount": 10, "type": "purchase", "description": "Welcome bonus", "created_at": "2026-08-01T12:00:00Z"}
		]`, rec.Body.String())
	})

	t.Run("packages", func(t *testing.T) {
		service := &fakeLedgerService{}

		req := httptest.NewRequest(http.MethodGet, "/packages", nil)
		rec := httptest.NewRecorder()
		handlePackages(service).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[
			{"id": "starter", "name": "Starter", "credits": 50, "price": "9.90"},
			{"id": "pro", "name": "Pro", "credits": 150, "bonus": 20, "price": "24.90", "popular": true},
			{"id": "ultimate", "name": "Ultimate", "credits": 500, "bonus": 100, "price": "69.90"}
		]`, rec.Body.String())
	})

	t.Run("purchase ok", func(t *testing.T) {
		service := &fakeLedgerService{profile: models.Profile{UserID: user.ID, Credits: 173}}

		req := withUser(httptest.NewRequest(http.MethodPost, "/credits/purchase", strings.NewReader(`{"package": "pro"}`)))
		rec := httptest.NewRecorder()
		handlePurchase(service, logger.NewNoOp()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `
			{
				"message": "Purchase completed successfully",
				"credits": 173
			}`, rec.Body.String())
	})

	t.Run("purchase unknown package", func(t *testing.T) {
		service := &fakeLedgerService{purchaseErr: apperrors.ErrPackageNotFound}

		req := withUser(httptest.NewRequest(http.MethodPost, "/credits/purchase", strings.NewReader(`{"package": "mega"}`)))
		rec := httptest.NewRecorder()
		handlePurchase(service, logger.NewNoOp()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `
			{
				"error": "service_error",
				"message": "Unknown package"
			}`, rec.Body.String())
	})
}
