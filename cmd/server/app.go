package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/joho/godotenv"
	"github.com/parlo-app/parlo-api/internal/config"
	"github.com/parlo-app/parlo-api/internal/platform/logger"
	"github.com/parlo-app/parlo-api/internal/platform/postgres"
	"github.com/parlo-app/parlo-api/internal/service/auth"
	"github.com/parlo-app/parlo-api/internal/store"
)

// application carries the server's wired dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	db         *sql.DB
	userStore  store.UserStore
	cardStore  store.CardStore
	tallyStore store.TallyStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
}

// initializeApp loads configuration, sets up logging, connects to the
// database, runs migrations, and wires the stores and services.
func initializeApp() (*application, error) {
	// A missing .env file is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.Config{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database URL is empty: set PARLO_DATABASE_URL")
	}

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        postgres.NewPostgresUserStore(db, log),
		cardStore:        postgres.NewPostgresCardStore(db, log),
		tallyStore:       postgres.NewPostgresTallyStore(db, log),
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(cfg.Auth.BcryptCost),
	}, nil
}

// openDatabase opens and verifies the connection pool.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// cleanup releases long-lived resources on shutdown.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
	}
}
