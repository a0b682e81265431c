// Command server runs the City Info API.
//
//	@title						City Info API
//	@version					2.0
//	@description				Cities, their points of interest and a few downloadable files.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/cityinfo-api/internal/config"
	httpapi "github.com/tbourn/cityinfo-api/internal/http"
	"github.com/tbourn/cityinfo-api/internal/notify"
	"github.com/tbourn/cityinfo-api/internal/observability"
	"github.com/tbourn/cityinfo-api/internal/repo"
	"github.com/tbourn/cityinfo-api/internal/services"
	"github.com/tbourn/cityinfo-api/internal/storage"
	"github.com/tbourn/cityinfo-api/internal/sysutil"
	"github.com/tbourn/cityinfo-api/internal/validation"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	log.Logger = sysutil.NewLogger(os.Stdout, cfg.LogPretty, cfg.OTEL.ServiceName)
	zerolog.DefaultContextLogger = &log.Logger

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version))
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(c); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	if err := validation.RegisterGin(); err != nil {
		return fmt.Errorf("validation: %w", err)
	}

	repos, closeDB, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	notifier, err := notify.New(cfg.Mail, log.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Warn().Err(err).Msg("notifier close")
		}
	}()

	files, err := storage.New(ctx, cfg.Files)
	if err != nil {
		return err
	}

	r := gin.New()
	if err := httpapi.RegisterRoutes(r, httpapi.Deps{Repos: repos, Notifier: notifier, Files: files}, cfg); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", cfg.DB.Driver).Str("base_path", cfg.APIBasePath).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	c, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(c); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// openRepositories returns the unit-of-work factory for the configured store
// and a func releasing it.
func openRepositories(ctx context.Context, cfg config.Config) (services.RepositoryFactory, func(), error) {
	if cfg.DB.Driver == repo.DriverMemory {
		log.Info().Msg("using in-memory store")
		return services.MemoryRepositories(repo.NewMemoryStore(repo.SeedCities())), func() {}, nil
	}

	db, err := repo.Open(cfg.DB.Driver, cfg.DB.DSN, cfg.OTEL.Enabled)
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("db migrate: %w", err)
	}
	if cfg.DB.Seed {
		if err := repo.Seed(ctx, db); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("db seed: %w", err)
		}
	}
	return services.GormRepositories(db), closeDB, nil
}
