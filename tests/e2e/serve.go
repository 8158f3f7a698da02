package e2e

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/pcarvalho/editassist/internal/handlers"
	"github.com/pcarvalho/editassist/internal/logger"
	"github.com/pcarvalho/editassist/internal/models"
	"github.com/pcarvalho/editassist/internal/repository"
	"github.com/pcarvalho/editassist/internal/repository/postgres"
	"github.com/pcarvalho/editassist/internal/service/auth"
	"github.com/pcarvalho/editassist/internal/service/auth/tokenmanager"
	"github.com/pcarvalho/editassist/internal/service/chat"
	"github.com/pcarvalho/editassist/internal/service/ledger"
	"github.com/pcarvalho/editassist/internal/service/user"
	"github.com/pcarvalho/editassist/internal/testutil"
)

type Services struct {
	Storage       repository.Storage
	AuthService   *auth.AuthService
	UserService   *user.UserService
	LedgerService *ledger.LedgerService
}

// Relay stub for end to end tests. Counts calls so scenarios can assert the
// upstream was (not) reached.
type CountingCompleter struct {
	Reply      string
	Err        error
	Unset      bool
	CallsCount atomic.Int64
}

func (c *CountingCompleter) Complete(ctx context.Context, req models.EditRequest) (string, error) {
	c.CallsCount.Add(1)
	return c.Reply, c.Err
}

func (c *CountingCompleter) Configured() bool { return !c.Unset }

// Create db transaction and run server in with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.InTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, completer chat.Completer, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		// Initialize services
		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Refresh())
		require.NoError(t, err, "token manager should be created without errors")

		us := user.NewService(auth.DefaultHasher, storage)
		as, err := auth.NewService(auth.Config{}, tokenManager, us)
		require.NoError(t, err, "auth service starting error", err)

		ls := ledger.NewService(storage, nil)
		if completer == nil {
			completer = &CountingCompleter{Reply: "ok"}
		}
		cs := chat.NewService(logger.NewNoOp(), ls, completer)

		// Complete all together as router
		router := handlers.NewRouter(as, cs, ls, logger.NewNoOp())

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			Storage:       storage,
			AuthService:   as,
			UserService:   us,
			LedgerService: ls,
		})
	})
}
