// Package server initializes and runs the SleeveKeeper application server:
// it opens the database, runs migrations, wires repositories, services, and
// the image store, and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/skvault/sleevekeeper/internal/logging"
	"github.com/skvault/sleevekeeper/internal/server/config"
	"github.com/skvault/sleevekeeper/internal/server/httpapi"
	"github.com/skvault/sleevekeeper/internal/server/images"
	"github.com/skvault/sleevekeeper/internal/server/repositories/repomanager"
	"github.com/skvault/sleevekeeper/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	imageStore, err := newImageStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	ss := services.NewStockService(db, rm, cfg)
	ds := services.NewDeckService(db, rm)

	api := httpapi.NewServer(cfg, logger, us, ss, ds, imageStore)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

// newImageStore selects the image backend: S3 when an endpoint is
// configured, the local upload directory otherwise.
func newImageStore(cfg *config.Config) (images.Store, error) {
	if cfg.S3BaseEndpoint != "" {
		return images.NewS3Store(images.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}), nil
	}
	return images.NewLocalStore(cfg.UploadDir)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.api.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
