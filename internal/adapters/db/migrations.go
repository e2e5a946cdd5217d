// internal/adapters/db/migrations.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigrationConfig holds migration configuration
type MigrationConfig struct {
	DatabaseURL      string
	Source           fs.FS
	TableName        string
	SchemaName       string
	ForceDirty       bool
	StatementTimeout time.Duration
}

// Migrator applies the embedded schema with golang-migrate
type Migrator struct {
	migrate *migrate.Migrate
	config  *MigrationConfig
	logger  *slog.Logger
	db      *sql.DB
}

// NewMigrator opens a dedicated connection and prepares the migration source
func NewMigrator(config *MigrationConfig, logger *slog.Logger) (*Migrator, error) {
	if config == nil || config.Source == nil {
		return nil, fmt.Errorf("migration config with a source is required")
	}
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}
	if config.SchemaName == "" {
		config.SchemaName = "public"
	}
	if config.StatementTimeout == 0 {
		config.StatementTimeout = 5 * time.Minute
	}

	db, err := sql.Open("pgx", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable:  config.TableName,
		SchemaName:       config.SchemaName,
		StatementTimeout: config.StatementTimeout,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	src, err := iofs.New(config.Source, ".")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return &Migrator{migrate: m, config: config, logger: logger, db: db}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	version, dirty, err := m.migrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if dirty {
		if !m.config.ForceDirty {
			return fmt.Errorf("database is in dirty state at version %d", version)
		}
		m.logger.WarnContext(ctx, "forcing dirty migration", slog.Uint64("version", uint64(version)))
		if err := m.migrate.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.InfoContext(ctx, "no migrations to run")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if v, _, err := m.migrate.Version(); err == nil {
		m.logger.InfoContext(ctx, "migrations completed", slog.Uint64("version", uint64(v)))
	}
	return nil
}

// Down rolls back the last migration
func (m *Migrator) Down(ctx context.Context) error {
	if err := m.migrate.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	m.logger.InfoContext(ctx, "migration rolled back")
	return nil
}

// Close releases the source and the dedicated connection
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil || dbErr != nil {
		return fmt.Errorf("failed to close migrator - source: %v, db: %v", sourceErr, dbErr)
	}
	return nil
}

// RunMigrationsWithRetry retries the whole migration while the database comes up
func RunMigrationsWithRetry(ctx context.Context, config *MigrationConfig, logger *slog.Logger, maxRetries int) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * 2 * time.Second
			logger.InfoContext(ctx, "retrying migration",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		migrator, err := NewMigrator(config, logger)
		if err != nil {
			lastErr = err
			logger.ErrorContext(ctx, "failed to create migrator",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt))
			continue
		}

		err = migrator.Up(ctx)
		if closeErr := migrator.Close(); closeErr != nil {
			logger.WarnContext(ctx, "failed to close migrator", slog.String("error", closeErr.Error()))
		}
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("migrations failed after %d attempts: %w", maxRetries, lastErr)
}
