package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // register sqlite3 as database/sql driver
)

// OpenSQLite opens or creates a SQLite database at path and migrates it.
// Parent directories are created if they do not exist.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	database, err := openDB("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; WAL lets readers proceed.
	database.SetMaxOpenConns(1)

	if _, err := database.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := RunMigrations(context.Background(), database, DialectSQLite); err != nil {
		_ = database.Close()
		return nil, err
	}
	registerPoolGauges(database)
	return database, nil
}
