package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/metrics"
	"github.com/pcarvalho/editassist/internal/models"
	"github.com/pcarvalho/editassist/internal/repository"
	"github.com/pcarvalho/editassist/internal/service/auth"
)

// Every new account starts with free credits so the assistant can be tried
// without a purchase.
const (
	WelcomeCredits     = 10
	welcomeDescription = "Welcome bonus"
)

type UserService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}
}

// CreateUser registers the user and creates the credit profile with the
// welcome grant. The user row, the profile and the grant's ledger entry are
// written in one database transaction, so a half-registered account can not
// exist.
func (s *UserService) CreateUser(ctx context.Context, email string, password string) (models.User, error) {
	var user models.User

	if password == "" {
		return user, fmt.Errorf("password must not be empty")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		user, err = storage.User().CreateUser(ctx, email, hash)
		if err != nil {
			return err
		}

		if _, err := storage.Profile().CreateProfile(ctx, user.ID, WelcomeCredits); err != nil {
			return err
		}

		_, err = storage.Transaction().Append(ctx, user.ID, WelcomeCredits, models.TransactionKindPurchase, welcomeDescription)
		return err
	})
	if err != nil {
		return user, fmt.Errorf("can't create user. Err: %w", err)
	}

	metrics.CreditsGranted.WithLabelValues("welcome").Add(WelcomeCredits)
	return user, nil
}

// Login checks the credentials and returns the user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)
	if err != nil {
		// Compare against an empty hash anyway to keep timing comparable
		_ = s.hasher.Compare("", password)
		return models.User{}, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, apperrors.ErrUserNotFound
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetUserByID(ctx, userID)
}
