// Package sqlite implements the relational storage backend on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/poiesic/modelstore/storage"
	_ "modernc.org/sqlite"
)

const (
	driverName   = "sqlite"
	databaseFile = "modelstore.db"
)

// Backend wraps a SQLite database and provides relational transactions.
// Write transactions run on their own single-connection pool and begin
// IMMEDIATE, so a writer takes the write lock before it reads and never
// fails with SQLITE_BUSY_SNAPSHOT on upgrade.
type Backend struct {
	db     *sql.DB
	writer *sql.DB
	logger *slog.Logger
	closed atomic.Bool
}

// Option configures a Backend.
type Option func(*Backend) error

// WithLogger sets the logger for the backend.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		b.logger = logger
		return nil
	}
}

// OpenBackend opens the SQLite database kept in the directory dirPath,
// creating the directory if it doesn't exist. An in-memory database lives on
// a single connection for as long as the backend is open.
func OpenBackend(dirPath string, inMemory bool, opts ...Option) (*Backend, error) {
	b := &Backend{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if inMemory {
		db, err := openPool(":memory:")
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		b.db, b.writer = db, db
	} else {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return nil, err
		}
		dsn := "file:" + filepath.Join(dirPath, databaseFile) +
			"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		writer, err := openPool(dsn + "&_txlock=immediate")
		if err != nil {
			return nil, err
		}
		writer.SetMaxOpenConns(1)
		db, err := openPool(dsn)
		if err != nil {
			_ = writer.Close()
			return nil, err
		}
		b.db, b.writer = db, writer
	}

	b.logger.Debug("opened sqlite database", "in_memory", inMemory, "path", dirPath)
	return b, nil
}

func openPool(dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables of the given families if they are missing.
func (b *Backend) EnsureSchema(ctx context.Context, schemas ...storage.TableSchema) error {
	tx, err := b.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: ensure schema: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, schema := range schemas {
		for _, stmt := range schema.CreateStatements() {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: create %s: %w", schema.Table, err)
			}
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (b *Backend) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	if b.writer == b.db {
		return b.db.Close()
	}
	return errors.Join(b.writer.Close(), b.db.Close())
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.closed.Load()
}

// Kind returns storage.RelationalBackend.
func (b *Backend) Kind() storage.BackendKind {
	return storage.RelationalBackend
}

// WithTx executes fn within a SQL transaction. A write transaction is
// committed when fn returns nil; every other outcome rolls back.
func (b *Backend) WithTx(ctx context.Context, isWrite bool, fn func(tx *storage.Tx) error) error {
	if b.closed.Load() {
		return storage.ErrStorageClosed
	}
	pool := b.db
	if isWrite {
		pool = b.writer
	}
	sqlTx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer sqlTx.Rollback() //nolint:errcheck

	if err := fn(storage.NewRelationalTx(ctx, sqlTx, isWrite)); err != nil {
		return err
	}
	if !isWrite {
		return nil
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// View executes fn within a read-only transaction.
func (b *Backend) View(ctx context.Context, fn func(tx *storage.Tx) error) error {
	return b.WithTx(ctx, false, fn)
}

// Update executes fn within a read-write transaction and commits it if fn succeeds.
func (b *Backend) Update(ctx context.Context, fn func(tx *storage.Tx) error) error {
	return b.WithTx(ctx, true, fn)
}
