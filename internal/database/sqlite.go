package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "modernc.org/sqlite"
)

var sqliteWithInstanceFn = sqlite.WithInstance

// OpenSQLite opens (or creates) the sqlite database at path, creating parent directories.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sqlOpenDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// one connection serialises writers; sqlite would otherwise return SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return db, nil
}

// RunSQLiteMigrations applies the embedded sqlite migrations to the database file at path.
func RunSQLiteMigrations(path string) error {
	db, err := OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("RunSQLiteMigrations: %w", err)
	}
	defer db.Close()

	driver, err := sqliteWithInstanceFn(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("RunSQLiteMigrations: %w", err)
	}
	return migrateUp(driver, "sqlite", "migrations/sqlite")
}
