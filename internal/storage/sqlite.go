package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSlot stores the snapshot as one row of a key/value table.
type SQLiteSlot struct {
	db   *sql.DB
	path string
	key  string
}

// OpenSQLiteSlot opens (creating if needed) the database at path.
func OpenSQLiteSlot(ctx context.Context, path, key string) (*SQLiteSlot, error) {
	if path == "" {
		return nil, fmt.Errorf("database file path is empty")
	}
	if key == "" {
		return nil, fmt.Errorf("sqlite slot key is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps :memory: databases consistent across calls.
	db.SetMaxOpenConns(1)

	slot := &SQLiteSlot{db: db, path: path, key: key}
	if err := slot.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return slot, nil
}

func (s *SQLiteSlot) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load slot %s: %w", s.key, err)
	}
	return data, nil
}

func (s *SQLiteSlot) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save slot %s: %w", s.key, err)
	}
	return nil
}

func (s *SQLiteSlot) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("delete slot %s: %w", s.key, err)
	}
	return nil
}

func (s *SQLiteSlot) Describe() string {
	return fmt.Sprintf("sqlite://%s#%s", s.path, s.key)
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
