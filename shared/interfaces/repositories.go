package interfaces

import (
	"context"

	"cyoa-server/shared/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx so repositories work inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ScreenRepository persists story screens. It never allocates ids and never updates a screen.
type ScreenRepository interface {
	// Create stores a new screen. A reused id yields models.ErrDuplicateScreen,
	// any other failure wraps models.ErrStoreWrite. CreatedAt is stored and
	// read back in UTC whatever location the caller used.
	Create(ctx context.Context, screen *models.Screen) error
	// GetByID returns models.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, screenID string) (*models.Screen, error)
	// ListChildren returns direct continuations of a screen, oldest first.
	ListChildren(ctx context.Context, parentID string) ([]*models.Screen, error)
}

// TemplateRepository stores prompt templates keyed by semantic name.
type TemplateRepository interface {
	Get(ctx context.Context, key string) (*models.Template, error)
	List(ctx context.Context) ([]*models.Template, error)
	Upsert(ctx context.Context, tpl *models.Template) error
	// CreateIfAbsent inserts the template unless the key exists and reports whether it was inserted.
	CreateIfAbsent(ctx context.Context, tpl *models.Template) (bool, error)
	Delete(ctx context.Context, key string) error
}

// ParameterRepository stores generation parameters as string key/value pairs.
type ParameterRepository interface {
	GetAll(ctx context.Context) ([]*models.Parameter, error)
	// UpsertMany writes every pair; existing keys are overwritten (last write wins).
	UpsertMany(ctx context.Context, values map[string]string) error
	// CreateMissing inserts only keys that are not stored yet.
	CreateMissing(ctx context.Context, values map[string]string) error
}
