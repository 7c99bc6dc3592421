package database

import (
	"context"
	"fmt"
	"sort"

	pkgdb "cyoa-server/pkg/database"
	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ interfaces.ParameterRepository = (*pgParameterRepository)(nil)

const (
	getAllParametersQuery = `SELECT key, value, updated_at FROM generation_parameters ORDER BY key`
	upsertParameterQuery  = `
        INSERT INTO generation_parameters (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET
            value = EXCLUDED.value,
            updated_at = NOW()
    `
	createParameterQuery = `
        INSERT INTO generation_parameters (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO NOTHING
    `
)

// PgPool is what the parameter repository needs from a pool: plain queries and transactions.
type PgPool interface {
	interfaces.DBTX
	pkgdb.TxStarter
}

type pgParameterRepository struct {
	pool   PgPool
	logger *zap.Logger
}

// NewPgParameterRepository creates a PostgreSQL-backed parameter store.
func NewPgParameterRepository(pool PgPool, logger *zap.Logger) interfaces.ParameterRepository {
	return &pgParameterRepository{
		pool:   pool,
		logger: logger.Named("PgParameterRepo"),
	}
}

func (r *pgParameterRepository) GetAll(ctx context.Context) ([]*models.Parameter, error) {
	params := make([]*models.Parameter, 0)
	if err := pgxscan.Select(ctx, r.pool, &params, getAllParametersQuery); err != nil {
		r.logger.Error("Error getting parameters", zap.Error(err))
		return nil, fmt.Errorf("failed to get parameters: %w", err)
	}
	return params, nil
}

func (r *pgParameterRepository) UpsertMany(ctx context.Context, values map[string]string) error {
	return r.writeAll(ctx, upsertParameterQuery, values)
}

func (r *pgParameterRepository) CreateMissing(ctx context.Context, values map[string]string) error {
	return r.writeAll(ctx, createParameterQuery, values)
}

func (r *pgParameterRepository) writeAll(ctx context.Context, query string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	err := pkgdb.ExecuteInTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, key := range sortedKeys(values) {
			if _, err := tx.Exec(ctx, query, key, values[key]); err != nil {
				return fmt.Errorf("failed to write parameter %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Error writing parameters", zap.Int("count", len(values)), zap.Error(err))
		return err
	}
	r.logger.Info("Parameters written", zap.Strings("keys", sortedKeys(values)))
	return nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
