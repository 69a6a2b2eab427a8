package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// FileName is the database file created in Config.Dir.
const FileName = "ledger.db"

const schema = `
CREATE TABLE IF NOT EXISTS ledger_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	blob       BLOB    NOT NULL,
	updated_at INTEGER NOT NULL
)`

const upsert = `
INSERT INTO ledger_state (id, blob, updated_at) VALUES (1, ?, ?)
ON CONFLICT (id) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`

// Config configures the SQLite backend.
type Config struct {
	// Dir holds the database file.
	Dir string `koanf:"-"`

	// BusyTimeout is how long a write waits for a lock.
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{BusyTimeout: 5 * time.Second}
}

// Backend stores the ledger blob in SQLite.
type Backend struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the database and its schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Backend, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("sqlite: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("sqlite: create dir: %w", err)
	}

	path := filepath.Join(cfg.Dir, FileName)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)",
		path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	logger.Info("sqlite backend opened", "component", "sqlite", "path", path)
	return &Backend{db: db, path: path, logger: logger.With("component", "sqlite")}, nil
}

// Name returns the backend name.
func (b *Backend) Name() string { return "sqlite" }

// Path returns the database file path.
func (b *Backend) Path() string { return b.path }

// Read returns the stored blob.
func (b *Backend) Read(ctx context.Context) ([]byte, bool, error) {
	var blob []byte
	err := b.db.QueryRowContext(ctx, `SELECT blob FROM ledger_state WHERE id = 1`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: read: %w", err)
	}
	return blob, true, nil
}

// Write replaces the stored blob.
func (b *Backend) Write(ctx context.Context, blob []byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, blob, time.Now().UnixMilli()); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: write: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("sqlite: close: %w", err)
	}
	return nil
}
