package database

import (
	"context"
	"errors"
	"fmt"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ interfaces.TemplateRepository = (*pgTemplateRepository)(nil)

const (
	getTemplateQuery   = `SELECT key, name, kind, body, updated_at FROM prompt_templates WHERE key = $1`
	listTemplatesQuery = `SELECT key, name, kind, body, updated_at FROM prompt_templates ORDER BY key`
	upsertTemplateQuery = `
        INSERT INTO prompt_templates (key, name, kind, body, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (key) DO UPDATE SET
            name = EXCLUDED.name,
            kind = EXCLUDED.kind,
            body = EXCLUDED.body,
            updated_at = NOW()
        RETURNING updated_at
    `
	createTemplateIfAbsentQuery = `
        INSERT INTO prompt_templates (key, name, kind, body, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (key) DO NOTHING
    `
	deleteTemplateQuery = `DELETE FROM prompt_templates WHERE key = $1`
)

type pgTemplateRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgTemplateRepository creates a PostgreSQL-backed template store.
func NewPgTemplateRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.TemplateRepository {
	return &pgTemplateRepository{
		db:     db,
		logger: logger.Named("PgTemplateRepo"),
	}
}

func (r *pgTemplateRepository) Get(ctx context.Context, key string) (*models.Template, error) {
	var tpl models.Template
	if err := pgxscan.Get(ctx, r.db, &tpl, getTemplateQuery, key); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Error getting template", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get template %s: %w", key, err)
	}
	return &tpl, nil
}

func (r *pgTemplateRepository) List(ctx context.Context) ([]*models.Template, error) {
	templates := make([]*models.Template, 0)
	if err := pgxscan.Select(ctx, r.db, &templates, listTemplatesQuery); err != nil {
		r.logger.Error("Error listing templates", zap.Error(err))
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (r *pgTemplateRepository) Upsert(ctx context.Context, tpl *models.Template) error {
	err := r.db.QueryRow(ctx, upsertTemplateQuery, tpl.Key, tpl.Name, tpl.Kind, tpl.Body).Scan(&tpl.UpdatedAt)
	if err != nil {
		r.logger.Error("Error upserting template", zap.String("key", tpl.Key), zap.Error(err))
		return fmt.Errorf("failed to upsert template %s: %w", tpl.Key, err)
	}
	r.logger.Info("Template upserted", zap.String("key", tpl.Key))
	return nil
}

func (r *pgTemplateRepository) CreateIfAbsent(ctx context.Context, tpl *models.Template) (bool, error) {
	tag, err := r.db.Exec(ctx, createTemplateIfAbsentQuery, tpl.Key, tpl.Name, tpl.Kind, tpl.Body)
	if err != nil {
		return false, fmt.Errorf("failed to create template %s: %w", tpl.Key, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgTemplateRepository) Delete(ctx context.Context, key string) error {
	tag, err := r.db.Exec(ctx, deleteTemplateQuery, key)
	if err != nil {
		r.logger.Error("Error deleting template", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete template %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
