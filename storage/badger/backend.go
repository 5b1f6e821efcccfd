package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/modelstore/storage"
)

// Backend wraps a BadgerDB instance and provides keyed-collection transactions.
type Backend struct {
	db           *badger.DB
	logger       *slog.Logger
	memTableSize int64
}

// Option configures a Backend.
type Option func(*Backend) error

// WithLogger sets the logger for the backend and for BadgerDB's own messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		b.logger = logger
		return nil
	}
}

// WithMemTableSize sets BadgerDB's memtable size. A transaction may stage
// writes up to 15% of it.
func WithMemTableSize(size int64) Option {
	return func(b *Backend) error {
		if size <= 0 {
			return fmt.Errorf("memtable size must be positive, got %d", size)
		}
		b.memTableSize = size
		return nil
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool, opts ...Option) (*Backend, error) {
	b := &Backend{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	var dbOpts badger.Options
	if inMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(filePath); err != nil {
			return nil, err
		}
		dbOpts = badger.DefaultOptions(filePath)
	}

	dbOpts.Logger = &badgerLoggerAdapter{logger: b.logger.With("component", "badger")}
	dbOpts.Compression = options.None
	if b.memTableSize > 0 {
		dbOpts = dbOpts.WithMemTableSize(b.memTableSize)
		if limit := b.memTableSize * 15 / 100; dbOpts.ValueThreshold > limit {
			dbOpts = dbOpts.WithValueThreshold(limit / 2)
		}
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	b.db = db
	return b, nil
}

func ensureDir(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(filePath, 0755); err != nil {
			return err
		}
		info, err = os.Stat(filePath)
		if err != nil {
			return err
		}
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filePath)
	}
	return nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// Kind returns storage.KeyedBackend.
func (b *Backend) Kind() storage.BackendKind {
	return storage.KeyedBackend
}

// WithTx executes fn within a BadgerDB transaction. A write transaction is
// committed when fn returns nil. The transaction is always discarded afterwards.
func (b *Backend) WithTx(ctx context.Context, isWrite bool, fn func(tx *storage.Tx) error) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	txn := b.db.NewTransaction(isWrite)
	defer txn.Discard()

	if err := fn(storage.NewKeyedTx(ctx, &Txn{txn: txn}, isWrite)); err != nil {
		return err
	}
	if !isWrite {
		return nil
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
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
