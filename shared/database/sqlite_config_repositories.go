package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"go.uber.org/zap"
)

var (
	_ interfaces.TemplateRepository  = (*sqliteTemplateRepository)(nil)
	_ interfaces.ParameterRepository = (*sqliteParameterRepository)(nil)
)

type sqliteTemplateRepository struct {
	db     *SQLiteDB
	logger *zap.Logger
}

// NewSQLiteTemplateRepository stores prompt templates in the shared SQLite file.
func NewSQLiteTemplateRepository(db *SQLiteDB, logger *zap.Logger) interfaces.TemplateRepository {
	return &sqliteTemplateRepository{db: db, logger: logger.Named("SQLiteTemplateRepo")}
}

func (r *sqliteTemplateRepository) Get(ctx context.Context, key string) (*models.Template, error) {
	row := r.db.DB.QueryRowContext(ctx, `SELECT key, name, kind, body, updated_at FROM prompt_templates WHERE key = ?`, key)
	tpl, err := scanSQLiteTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template %s: %w", key, err)
	}
	return tpl, nil
}

func (r *sqliteTemplateRepository) List(ctx context.Context) ([]*models.Template, error) {
	rows, err := r.db.DB.QueryContext(ctx, `SELECT key, name, kind, body, updated_at FROM prompt_templates ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*models.Template, 0)
	for rows.Next() {
		tpl, err := scanSQLiteTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (r *sqliteTemplateRepository) Upsert(ctx context.Context, tpl *models.Template) error {
	now := time.Now().UTC()

	r.db.writeMu.Lock()
	defer r.db.writeMu.Unlock()

	_, err := r.db.DB.ExecContext(ctx, `
		INSERT INTO prompt_templates (key, name, kind, body, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET name = excluded.name, kind = excluded.kind, body = excluded.body, updated_at = excluded.updated_at`,
		tpl.Key, tpl.Name, tpl.Kind, tpl.Body, now.Format(sqliteTimeLayout))
	if err != nil {
		r.logger.Error("Error upserting template", zap.String("key", tpl.Key), zap.Error(err))
		return fmt.Errorf("failed to upsert template %s: %w", tpl.Key, err)
	}
	tpl.UpdatedAt = now
	return nil
}

func (r *sqliteTemplateRepository) CreateIfAbsent(ctx context.Context, tpl *models.Template) (bool, error) {
	now := time.Now().UTC()

	r.db.writeMu.Lock()
	defer r.db.writeMu.Unlock()

	res, err := r.db.DB.ExecContext(ctx, `
		INSERT INTO prompt_templates (key, name, kind, body, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO NOTHING`,
		tpl.Key, tpl.Name, tpl.Kind, tpl.Body, now.Format(sqliteTimeLayout))
	if err != nil {
		return false, fmt.Errorf("failed to create template %s: %w", tpl.Key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *sqliteTemplateRepository) Delete(ctx context.Context, key string) error {
	r.db.writeMu.Lock()
	defer r.db.writeMu.Unlock()

	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM prompt_templates WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanSQLiteTemplate(row rowScanner) (*models.Template, error) {
	var (
		tpl       models.Template
		updatedAt string
	)
	if err := row.Scan(&tpl.Key, &tpl.Name, &tpl.Kind, &tpl.Body, &updatedAt); err != nil {
		return nil, err
	}
	if ts, err := time.Parse(sqliteTimeLayout, updatedAt); err == nil {
		tpl.UpdatedAt = ts
	}
	return &tpl, nil
}

type sqliteParameterRepository struct {
	db     *SQLiteDB
	logger *zap.Logger
}

// NewSQLiteParameterRepository stores generation parameters in the shared SQLite file.
func NewSQLiteParameterRepository(db *SQLiteDB, logger *zap.Logger) interfaces.ParameterRepository {
	return &sqliteParameterRepository{db: db, logger: logger.Named("SQLiteParameterRepo")}
}

func (r *sqliteParameterRepository) GetAll(ctx context.Context) ([]*models.Parameter, error) {
	rows, err := r.db.DB.QueryContext(ctx, `SELECT key, value, updated_at FROM generation_parameters ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to get parameters: %w", err)
	}
	defer rows.Close()

	params := make([]*models.Parameter, 0)
	for rows.Next() {
		var (
			p         models.Parameter
			updatedAt string
		)
		if err := rows.Scan(&p.Key, &p.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		if ts, err := time.Parse(sqliteTimeLayout, updatedAt); err == nil {
			p.UpdatedAt = ts
		}
		params = append(params, &p)
	}
	return params, rows.Err()
}

func (r *sqliteParameterRepository) UpsertMany(ctx context.Context, values map[string]string) error {
	return r.writeAll(ctx, `
		INSERT INTO generation_parameters (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, values)
}

func (r *sqliteParameterRepository) CreateMissing(ctx context.Context, values map[string]string) error {
	return r.writeAll(ctx, `
		INSERT INTO generation_parameters (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO NOTHING`, values)
}

func (r *sqliteParameterRepository) writeAll(ctx context.Context, query string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(sqliteTimeLayout)

	r.db.writeMu.Lock()
	defer r.db.writeMu.Unlock()

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, key := range sortedKeys(values) {
		if _, err := tx.ExecContext(ctx, query, key, values[key], now); err != nil {
			_ = tx.Rollback()
			r.logger.Error("Error writing parameter", zap.String("key", key), zap.Error(err))
			return fmt.Errorf("failed to write parameter %s: %w", key, err)
		}
	}
	return tx.Commit()
}
