package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteDB wraps a single-file database shared by the sqlite repositories.
// SQLite allows one writer at a time, so every write goes through writeMu.
type SQLiteDB struct {
	DB      *sql.DB
	writeMu sync.Mutex
	logger  *zap.Logger
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteDB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	logger.Named("SQLite").Info("SQLite database opened", zap.String("path", path))
	return &SQLiteDB{DB: db, logger: logger.Named("SQLite")}, nil
}

// Close closes the underlying database.
func (s *SQLiteDB) Close() error {
	return s.DB.Close()
}
