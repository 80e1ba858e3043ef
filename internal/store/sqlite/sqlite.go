// Package sqlite provides the durable KV backend: one row per collection
// key in a local SQLite file, each holding the full JSON blob. The file
// plays the role browser local storage played for the original app.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// KV is the SQLite-backed blob store.
type KV struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed, runs
// migrations, and returns a ready backend.
func Open(dbPath string) (*KV, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &KV{db: db}, nil
}

// Close releases the underlying database handle.
func (k *KV) Close() error {
	if k.db != nil {
		return k.db.Close()
	}
	return nil
}

// Get returns the blob stored under key, ok=false when absent.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT data FROM collections WHERE key = ?`

	var blob string
	err := k.db.QueryRowContext(ctx, q, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get collection %s: %w", key, err)
	}
	return blob, true, nil
}

// Put rewrites the full blob for key. Last write wins at collection
// granularity; there is deliberately no merge.
func (k *KV) Put(ctx context.Context, key string, blob string) error {
	const q = `
		INSERT INTO collections (key, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := k.db.ExecContext(ctx, q, key, blob); err != nil {
		return fmt.Errorf("put collection %s: %w", key, err)
	}
	return nil
}
