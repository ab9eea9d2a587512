// Package server initializes and runs the authentication server. It opens
// the database, applies migrations, wires the service layer and serves the
// HTTP API with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/arcadia-platform/arcadia-auth/internal/dbx"
	"github.com/arcadia-platform/arcadia-auth/internal/logging"
	"github.com/arcadia-platform/arcadia-auth/internal/server/audit"
	"github.com/arcadia-platform/arcadia-auth/internal/server/auth"
	"github.com/arcadia-platform/arcadia-auth/internal/server/config"
	"github.com/arcadia-platform/arcadia-auth/internal/server/httpapi"
	"github.com/arcadia-platform/arcadia-auth/internal/server/ratelimit"
	auditrepo "github.com/arcadia-platform/arcadia-auth/internal/server/repositories/audit"
	"github.com/arcadia-platform/arcadia-auth/internal/server/repositories/repomanager"
	"github.com/arcadia-platform/arcadia-auth/internal/server/security"
	"github.com/arcadia-platform/arcadia-auth/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService *services.AuthService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	tokens, err := auth.NewManager(cfg.SecretKey, cfg.JWTAlgorithm, cfg.TokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("token manager init error: %w", err)
	}

	recorder := audit.NewRecorder(func(db dbx.DBTX) auditrepo.Repository { return rm.Audit(db) }, logger)

	authService := services.NewAuthService(db, rm,
		security.NewHasher(cfg.BcryptCost),
		ratelimit.New(cfg.MaxFailedAttempts, cfg.LockoutDuration),
		tokens, recorder, logger, cfg.DefaultTokenBalance)

	return &App{config: cfg, logger: logger, authService: authService}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.authService, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
