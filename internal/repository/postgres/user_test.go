package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/testutil"
)

func TestUserRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(repo *UserRepo)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(&UserRepo{DB: tx})
		})
	}

	t.Run("create ok", func(t *testing.T) {
		inTx(t, func(repo *UserRepo) {
			user, err := repo.CreateUser(t.Context(), "ana@example.com", "hashed-password")

			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, user.ID, "user ID should be assigned")
			require.Equal(t, "ana@example.com", user.Email)
			require.Equal(t, "hashed-password", user.HashedPassword)
			require.NotZero(t, user.CreatedAt)
		})
	})

	t.Run("create duplicate email fail", func(t *testing.T) {
		inTx(t, func(repo *UserRepo) {
			_, err := repo.CreateUser(t.Context(), "ana@example.com", "hash")
			require.NoError(t, err)

			_, err = repo.CreateUser(t.Context(), "ana@example.com", "other-hash")

			require.Error(t, err)
			require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("get by id", func(t *testing.T) {
		inTx(t, func(repo *UserRepo) {
			created, err := repo.CreateUser(t.Context(), "ana@example.com", "hash")
			require.NoError(t, err)

			user, err := repo.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			require.Equal(t, created.ID, user.ID)
			require.Equal(t, created.Email, user.Email)
		})
	})

	t.Run("get by id not found", func(t *testing.T) {
		inTx(t, func(repo *UserRepo) {
			_, err := repo.GetUserByID(t.Context(), uuid.New())

			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("get by email", func(t *testing.T) {
		inTx(t, func(repo *UserRepo) {
			created, err := repo.CreateUser(t.Context(), "ana@example.com", "hash")
			require.NoError(t, err)

			user, err := repo.GetUserByEmail(t.Context(), "ana@example.com")

			require.NoError(t, err)
			require.Equal(t, created.ID, user.ID)
		})
	})

	t.Run("get by email not found", func(t *testing.T) {
		inTx(t, func(repo *UserRepo) {
			_, err := repo.GetUserByEmail(t.Context(), "nobody@example.com")

			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
