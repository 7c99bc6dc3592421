package database

import "embed"

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var MigrationsFS embed.FS

const (
	PostgresMigrationsPath = "migrations/postgres"
	SQLiteMigrationsPath   = "migrations/sqlite"
)
