package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB opens (creating if necessary) the local analytics
// database. This is the default store for single-node deployments.
func NewSQLiteDB(path string) (*DBClient, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}

	// SQLite allows a single writer; one connection keeps writes from
	// tripping over SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error opening sqlite database (ping failed): %w", err)
	}

	log.Printf("Successfully opened SQLite database at %s", path)
	return &DBClient{DB: db}, nil
}
