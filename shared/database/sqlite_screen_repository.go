package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"go.uber.org/zap"
)

var _ interfaces.ScreenRepository = (*sqliteScreenRepository)(nil)

const (
	sqliteInsertScreen = `
INSERT INTO screens (screen_id, parent_id, genre, story_text, user_choices, landscape_url, portrait_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	sqliteScreenColumns = `screen_id, parent_id, genre, story_text, user_choices, landscape_url, portrait_url, created_at`
	sqliteScreenExists  = `SELECT 1 FROM screens WHERE screen_id = ?`

	// Fixed width so that text ordering matches time ordering.
	sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type sqliteScreenRepository struct {
	db     *SQLiteDB
	logger *zap.Logger
}

// NewSQLiteScreenRepository stores screens in the shared SQLite file.
func NewSQLiteScreenRepository(db *SQLiteDB, logger *zap.Logger) interfaces.ScreenRepository {
	return &sqliteScreenRepository{db: db, logger: logger.Named("SQLiteScreenRepo")}
}

func (r *sqliteScreenRepository) Create(ctx context.Context, screen *models.Screen) error {
	choices, err := json.Marshal(nonNilChoices(screen.Choices))
	if err != nil {
		return fmt.Errorf("%w: marshal choices: %v", models.ErrStoreWrite, err)
	}

	var parent sql.NullString
	if screen.ParentID != nil {
		parent = sql.NullString{String: *screen.ParentID, Valid: true}
	}

	r.db.writeMu.Lock()
	defer r.db.writeMu.Unlock()

	var one int
	err = r.db.DB.QueryRowContext(ctx, sqliteScreenExists, screen.ScreenID).Scan(&one)
	switch {
	case err == nil:
		r.logger.Warn("Duplicate screen id rejected", zap.String("screenID", screen.ScreenID))
		return models.ErrDuplicateScreen
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}

	_, err = r.db.DB.ExecContext(ctx, sqliteInsertScreen,
		screen.ScreenID,
		parent,
		screen.Genre,
		screen.StoryText,
		string(choices),
		screen.LandscapeURL,
		screen.PortraitURL,
		screen.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		r.logger.Error("Failed to insert screen", zap.String("screenID", screen.ScreenID), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}
	return nil
}

func (r *sqliteScreenRepository) GetByID(ctx context.Context, screenID string) (*models.Screen, error) {
	row := r.db.DB.QueryRowContext(ctx, `SELECT `+sqliteScreenColumns+` FROM screens WHERE screen_id = ?`, screenID)
	screen, err := scanSQLiteScreen(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get screen %s: %w", screenID, err)
	}
	return screen, nil
}

func (r *sqliteScreenRepository) ListChildren(ctx context.Context, parentID string) ([]*models.Screen, error) {
	rows, err := r.db.DB.QueryContext(ctx,
		`SELECT `+sqliteScreenColumns+` FROM screens WHERE parent_id = ? ORDER BY created_at, screen_id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", parentID, err)
	}
	defer rows.Close()

	screens := make([]*models.Screen, 0)
	for rows.Next() {
		screen, err := scanSQLiteScreen(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child screen: %w", err)
		}
		screens = append(screens, screen)
	}
	return screens, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteScreen(row rowScanner) (*models.Screen, error) {
	var (
		screen    models.Screen
		parent    sql.NullString
		choices   string
		createdAt string
	)
	if err := row.Scan(&screen.ScreenID, &parent, &screen.Genre, &screen.StoryText, &choices,
		&screen.LandscapeURL, &screen.PortraitURL, &createdAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		p := parent.String
		screen.ParentID = &p
	}
	if err := json.Unmarshal([]byte(choices), &screen.Choices); err != nil {
		return nil, fmt.Errorf("invalid stored choices: %w", err)
	}
	ts, err := time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid stored timestamp %q: %w", createdAt, err)
	}
	screen.CreatedAt = ts
	return &screen, nil
}
