// Package server initializes and runs the intake application: it opens the
// database and runs migrations, builds the object-storage client once, wires
// the services and HTTP handlers, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/logging"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/config"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/httpapi"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/repositories/repomanager"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/services"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, cfg.Environment)

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// The store is built once at startup. A missing bucket is fatal unless
	// uploads are disabled; degraded mode still registers users and lets
	// storage calls fail with a configuration error.
	var store storage.ObjectStore
	if cfg.S3Bucket == "" && cfg.UploadsDisabled {
		logger.Warn(ctx, "no storage bucket configured, uploads disabled")
		store = storage.NewDisabledStore()
	} else {
		s3store, err := storage.NewS3Store(ctx, storage.Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("storage init error: %w", err)
		}
		store = s3store
	}

	uploads := services.NewUploadService(store, cfg, logger)
	registration := services.NewRegistrationService(db, repos, store, cfg, logger)
	handlers := httpapi.NewHandlers(uploads, registration, logger, cfg.Environment, cfg.S3Bucket)

	server := &http.Server{
		Addr:    cfg.EndpointAddr,
		Handler: httpapi.NewRouter(handlers),
	}

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
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

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddr)

	if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
