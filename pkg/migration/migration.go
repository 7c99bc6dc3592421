package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const migrationsTable = "schema_migrations"

// Config points at the embedded migration files for one database flavour.
type Config struct {
	MigrationsPath string
	MigrationsFS   fs.FS
}

type driverFactory func() (database.Driver, string, error)

// Migrator applies schema migrations to Postgres or SQLite.
type Migrator struct {
	config Config
	driver driverFactory
}

// NewPostgresMigrator runs migrations through a pgx pool.
func NewPostgresMigrator(config Config, pool *pgxpool.Pool) *Migrator {
	return &Migrator{
		config: config,
		driver: func() (database.Driver, string, error) {
			db := stdlib.OpenDBFromPool(pool)
			drv, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
			if err != nil {
				return nil, "", fmt.Errorf("failed to create postgres driver: %w", err)
			}
			return drv, "postgres", nil
		},
	}
}

// NewSQLiteMigrator runs migrations against an open SQLite handle.
func NewSQLiteMigrator(config Config, db *sql.DB) *Migrator {
	return &Migrator{
		config: config,
		driver: func() (database.Driver, string, error) {
			drv, err := sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
			if err != nil {
				return nil, "", fmt.Errorf("failed to create sqlite driver: %w", err)
			}
			return drv, "sqlite", nil
		},
	}
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "up", func(mg *migrate.Migrate) error { return mg.Up() })
}

// Down rolls back every migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "down", func(mg *migrate.Migrate) error { return mg.Down() })
}

// ForceVersion marks the schema as being at version and clears the dirty flag.
func (m *Migrator) ForceVersion(ctx context.Context, version uint) error {
	return m.run(ctx, "force", func(mg *migrate.Migrate) error { return mg.Force(int(version)) })
}

// Version reports the current schema version. A fresh database reports 0.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	mg, _, err := m.createMigrator(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}

	version, dirty, err := mg.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return uint(version), dirty, nil
}

func (m *Migrator) run(ctx context.Context, action string, fn func(*migrate.Migrate) error) error {
	mg, driver, err := m.createMigrator(ctx)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := fn(mg); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s on %s: %w", action, driver, err)
	}
	log.Info().Str("driver", driver).Str("action", action).Msg("schema migration finished")
	return nil
}

// The migrate instance is not closed: closing it would close the caller's
// database handle, which the repositories keep using.
func (m *Migrator) createMigrator(ctx context.Context) (*migrate.Migrate, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	drv, name, err := m.driver()
	if err != nil {
		return nil, "", err
	}

	source, err := iofs.New(m.config.MigrationsFS, m.config.MigrationsPath)
	if err != nil {
		return nil, "", fmt.Errorf("embedded migrations at %s: %w", m.config.MigrationsPath, err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, name, drv)
	if err != nil {
		return nil, "", err
	}
	mg.LockTimeout = 30 * time.Second
	return mg, name, nil
}
