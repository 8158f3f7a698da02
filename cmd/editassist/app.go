package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pcarvalho/editassist/internal/db"
	"github.com/pcarvalho/editassist/internal/handlers"
	"github.com/pcarvalho/editassist/internal/logger"
	"github.com/pcarvalho/editassist/internal/repository/postgres"
	"github.com/pcarvalho/editassist/internal/service/assistant"
	"github.com/pcarvalho/editassist/internal/service/auth"
	"github.com/pcarvalho/editassist/internal/service/auth/tokenmanager"
	"github.com/pcarvalho/editassist/internal/service/chat"
	"github.com/pcarvalho/editassist/internal/service/ledger"
	"github.com/pcarvalho/editassist/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	log     logger.Logger
	cleanup func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	userService := user.NewService(auth.DefaultHasher, storage)
	authService, err := auth.NewService(auth.Config{}, tokenManager, userService)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	ledgerService := ledger.NewService(storage, nil)

	assistantClient := assistant.New(assistant.Config{APIKey: c.OpenAIKey})
	if !assistantClient.Configured() {
		log.Warn("OpenAI API key is not set, chat requests will be rejected")
	}
	chatService := chat.NewService(log, ledgerService, assistantClient)

	mux := handlers.NewRouter(
		authService,
		chatService,
		ledgerService,
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		log:        log,
		cleanup:    pool.Close,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.cleanup()

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.log.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.log.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.log.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
