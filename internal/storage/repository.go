// Package storage persists the ledger as a single JSON document in a
// key-value snapshots table. Any durable key-value store would do; SQLite
// keeps it a local file.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"carteira/internal/core"
	"carteira/internal/ledger"

	_ "modernc.org/sqlite"
)

// SnapshotKey is the fixed key the ledger document lives under.
const SnapshotKey = "ledger"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save writes the full ledger document, replacing the previous snapshot.
func (r *SQLiteRepository) Save(ctx context.Context, state *core.LedgerState) error {
	body, err := core.EncodeState(state)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		SnapshotKey, body)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Ledger snapshot saved",
		"key", SnapshotKey,
		"bytes", len(body),
		"transactions", len(state.Transactions))
	return nil
}

// Load reads the ledger document, reporting ledger.ErrNoSnapshot on first run.
func (r *SQLiteRepository) Load(ctx context.Context) (*core.LedgerState, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM snapshots WHERE key = ?`, SnapshotKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return core.DecodeState(body)
}
