// Package app assembles the storage and services shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"cyoa-server/internal/config"
	pkgdb "cyoa-server/pkg/database"
	"cyoa-server/pkg/migration"
	"cyoa-server/shared/database"
	"cyoa-server/shared/interfaces"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Storage holds the repositories for the configured driver.
type Storage struct {
	Driver     string
	Screens    interfaces.ScreenRepository
	Templates  interfaces.TemplateRepository
	Parameters interfaces.ParameterRepository
	// Migrator is nil for the in-memory driver.
	Migrator *migration.Migrator

	closers []func()
}

// OpenStorage connects to the configured backend. With migrate set, pending
// schema migrations are applied before the repositories are returned.
func OpenStorage(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger) (*Storage, error) {
	s := &Storage{Driver: cfg.Storage.Driver}

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		s.Screens = database.NewMemoryScreenRepository()
		s.Templates = database.NewMemoryTemplateRepository()
		s.Parameters = database.NewMemoryParameterRepository()
		logger.Warn("Using in-memory storage; screens are lost on restart")

	case config.StorageSQLite:
		db, err := database.OpenSQLite(cfg.Storage.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		s.Migrator = migration.NewSQLiteMigrator(migration.Config{
			MigrationsPath: database.SQLiteMigrationsPath,
			MigrationsFS:   database.MigrationsFS,
		}, db.DB)
		s.Screens = database.NewSQLiteScreenRepository(db, logger)
		s.Templates = database.NewSQLiteTemplateRepository(db, logger)
		s.Parameters = database.NewSQLiteParameterRepository(db, logger)

	case config.StoragePostgres:
		pool, err := pkgdb.NewPool(ctx, pkgdb.Config{
			DSN:            cfg.Storage.DatabaseURL,
			MaxConns:       cfg.Storage.DBMaxConns,
			ConnectTimeout: cfg.Storage.DBConnectTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.Migrator = migration.NewPostgresMigrator(migration.Config{
			MigrationsPath: database.PostgresMigrationsPath,
			MigrationsFS:   database.MigrationsFS,
		}, pool)
		s.Screens = database.NewPgScreenRepository(pool, logger)
		s.Templates = database.NewPgTemplateRepository(pool, logger)
		s.Parameters = database.NewPgParameterRepository(pool, logger)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if migrate && s.Migrator != nil {
		if err := s.Migrator.Up(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}

	logger.Info("Storage ready", zap.String("driver", s.Driver))
	return s, nil
}

// WithScreenCache puts a Redis read-through cache in front of the screen store.
func (s *Storage) WithScreenCache(client *redis.Client, cfg config.RedisConfig, logger *zap.Logger) {
	s.Screens = database.NewRedisScreenCache(s.Screens, client, cfg.ScreenCacheTTL, logger)
}

// Close releases connections in reverse order of opening.
func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// ConnectRedis returns nil without error when no address is configured.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.Addr))
	return client, nil
}
