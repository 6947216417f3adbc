package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/olustayhired/postflow/internal/config"
	"github.com/olustayhired/postflow/internal/generation"
	"github.com/olustayhired/postflow/internal/platform/gemini"
	"github.com/olustayhired/postflow/internal/platform/llmproxy"
	"github.com/olustayhired/postflow/internal/platform/logger"
	"github.com/olustayhired/postflow/internal/platform/postgres"
	"github.com/olustayhired/postflow/internal/service"
	"github.com/olustayhired/postflow/internal/service/auth"
	"github.com/olustayhired/postflow/internal/store"
)

// application holds the wired dependencies for the server process.
type application struct {
	config     *config.Config
	logger     *slog.Logger
	db         *sql.DB
	jwtService auth.JWTService
	genService *service.GenerationService
}

// newApplication loads configuration and wires every component. The
// database is optional: without DATABASE_URL the server runs with the
// audit log disabled.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"generation_backend", cfg.Generation.Backend,
		"audit_log_enabled", cfg.Database.URL != "")

	app := &application{config: cfg, logger: log}

	var logStore store.GenerationLogStore
	if cfg.Database.URL != "" {
		db, err := openDatabase(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		app.db = db

		if err := runMigrations(db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		logStore = postgres.NewPostgresGenerationLogStore(db, log)
	}

	transport, err := newTransport(ctx, cfg.Generation, log)
	if err != nil {
		return nil, err
	}

	client, err := generation.NewClient(transport, clientConfig(cfg.Generation), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	genService, err := service.NewGenerationService(client, logStore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}
	app.genService = genService

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService

	return app, nil
}

// newTransport selects the generation backend named in configuration.
func newTransport(
	ctx context.Context,
	cfg config.GenerationConfig,
	log *slog.Logger,
) (generation.Transport, error) {
	switch cfg.Backend {
	case "proxy":
		return llmproxy.NewTransport(cfg, log)
	case "gemini":
		return gemini.NewTransport(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Backend)
	}
}

// clientConfig converts the flat config values into client parameters.
func clientConfig(cfg config.GenerationConfig) generation.ClientConfig {
	return generation.ClientConfig{
		MaxRetries:      cfg.MaxRetries,
		InitialBackoff:  time.Duration(cfg.InitialBackoffMs) * time.Millisecond,
		BackoffCeiling:  time.Duration(cfg.BackoffCeilingMs) * time.Millisecond,
		MinCallInterval: time.Duration(cfg.MinCallIntervalMs) * time.Millisecond,
		CacheTTL:        time.Duration(cfg.CacheTTLMinutes) * time.Minute,
		CacheMaxEntries: cfg.CacheMaxEntries,
	}
}

// openDatabase connects to PostgreSQL and verifies the connection.
func openDatabase(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
