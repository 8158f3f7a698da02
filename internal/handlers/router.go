package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pcarvalho/editassist/internal/handlers/middleware"
	"github.com/pcarvalho/editassist/internal/logger"
	"github.com/pcarvalho/editassist/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	chatService chatService,
	ledgerService ledgerService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	apiuser := http.NewServeMux()

	apiuser.Handle("POST /register", handleRegister(authService, logger))
	apiuser.Handle("POST /login", handleLogin(authService, logger))
	apiuser.Handle("POST /refresh", handleTokenRefresh(authService, logger))

	apiuser.Handle("GET /me", withAuth(handleUserMe()))
	apiuser.Handle("GET /credits", withAuth(handleCredits(ledgerService, logger)))
	apiuser.Handle("GET /transactions", withAuth(handleListTransactions(ledgerService, logger)))
	apiuser.Handle("POST /credits/purchase", withAuth(handlePurchase(ledgerService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/user/", http.StripPrefix("/api/user", apiuser))
	root.Handle("GET /api/packages", handlePackages(ledgerService))
	root.Handle("POST /api/chat", withAuth(handleChat(chatService, logger)))
	root.Handle("GET /metrics", promhttp.Handler())

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
		middleware.MetricsMiddleware(root),
	)

	return handler
}

type authService interface {
	// Register user with email and password
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	Register(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound if user not found
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Refresh tokens using refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token not found: has to return apperrors.ErrRefreshTokenNotFound
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)

	// Set auth tokens (access, refresh) to response
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)

	// Get refresh token from request
	GetRefreshString(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

type chatService interface {
	// Run one gated assistant interaction
	// Has to return apperrors.ErrInsufficientCredits when the balance is empty
	// and apperrors.ErrAssistantNotConfigured when no upstream credential is set
	Edit(ctx context.Context, userID uuid.UUID, req models.EditRequest) (models.EditResult, error)
}

type ledgerService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	Purchase(ctx context.Context, userID uuid.UUID, packageID string) (models.Profile, error)
	Packages() []models.CreditPackage
}
