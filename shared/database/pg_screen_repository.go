package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cyoa-server/shared/interfaces"
	"cyoa-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ScreenRepository = (*pgScreenRepository)(nil)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const insertScreenQuery = `
INSERT INTO screens (screen_id, parent_id, genre, story_text, user_choices, landscape_url, portrait_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const getScreenByIDQuery = `
SELECT screen_id, parent_id, genre, story_text, user_choices, landscape_url, portrait_url, created_at
FROM screens
WHERE screen_id = $1`

const listChildScreensQuery = `
SELECT screen_id, parent_id, genre, story_text, user_choices, landscape_url, portrait_url, created_at
FROM screens
WHERE parent_id = $1
ORDER BY created_at, screen_id`

type pgScreenRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

func NewPgScreenRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ScreenRepository {
	return &pgScreenRepository{
		db:     db,
		logger: logger.Named("PgScreenRepo"),
	}
}

// Create inserts a new screen. The primary key rejects reused ids.
func (r *pgScreenRepository) Create(ctx context.Context, screen *models.Screen) error {
	log := r.logger.With(zap.String("screenID", screen.ScreenID))

	choices, err := json.Marshal(nonNilChoices(screen.Choices))
	if err != nil {
		return fmt.Errorf("%w: marshal choices: %v", models.ErrStoreWrite, err)
	}

	_, err = r.db.Exec(ctx, insertScreenQuery,
		screen.ScreenID,
		screen.ParentID,
		screen.Genre,
		screen.StoryText,
		string(choices),
		screen.LandscapeURL,
		screen.PortraitURL,
		screen.CreatedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				log.Warn("Duplicate screen id rejected")
				return models.ErrDuplicateScreen
			case pgForeignKeyViolation:
				log.Warn("Screen references a missing parent")
				return fmt.Errorf("%w: %w", models.ErrStoreWrite, models.ErrParentNotFound)
			}
		}
		log.Error("Failed to insert screen", zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrStoreWrite, err)
	}

	log.Debug("Screen stored")
	return nil
}

func (r *pgScreenRepository) GetByID(ctx context.Context, screenID string) (*models.Screen, error) {
	var screen models.Screen
	if err := pgxscan.Get(ctx, r.db, &screen, getScreenByIDQuery, screenID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get screen", zap.String("screenID", screenID), zap.Error(err))
		return nil, fmt.Errorf("failed to get screen %s: %w", screenID, err)
	}
	screen.CreatedAt = screen.CreatedAt.UTC()
	return &screen, nil
}

func (r *pgScreenRepository) ListChildren(ctx context.Context, parentID string) ([]*models.Screen, error) {
	screens := make([]*models.Screen, 0)
	if err := pgxscan.Select(ctx, r.db, &screens, listChildScreensQuery, parentID); err != nil {
		r.logger.Error("Failed to list child screens", zap.String("parentID", parentID), zap.Error(err))
		return nil, fmt.Errorf("failed to list children of %s: %w", parentID, err)
	}
	// timestamptz scans in the session zone.
	for _, s := range screens {
		s.CreatedAt = s.CreatedAt.UTC()
	}
	return screens, nil
}

func nonNilChoices(choices []string) []string {
	if choices == nil {
		return []string{}
	}
	return choices
}
