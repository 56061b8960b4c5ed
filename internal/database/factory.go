package database

import (
	"fmt"
	"os"
	"path/filepath"

	"idx-go/internal/config"
)

// DatabaseFileName is the SQLite file created inside data_dir.
const DatabaseFileName = "idx.db"

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
// In-memory databases are migrated immediately since nothing else could have done it.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data_dir: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, DatabaseFileName))
	case "memory":
		db, err := NewSQLiteDatabase(":memory:")
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating in-memory database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
