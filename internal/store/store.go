package store

import (
	"database/sql"
	"fmt"

	"github.com/ademuri/setlist-tools/internal/migration"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	if _, err := db.Exec(migration.Create); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

// Exists reports whether the database has been populated by an update.
func (s *Store) Exists() (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM Year").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking db existence: %w", err)
	}
	return count > 0, nil
}
