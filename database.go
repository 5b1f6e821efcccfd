// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package modelstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/modelstore/core"
	"github.com/poiesic/modelstore/profile"
	"github.com/poiesic/modelstore/search"
	"github.com/poiesic/modelstore/storage"
	"github.com/poiesic/modelstore/storage/badger"
	"github.com/poiesic/modelstore/storage/sqlite"
)

// backend is implemented by both storage backends.
type backend interface {
	Kind() storage.BackendKind
	View(ctx context.Context, fn func(tx *storage.Tx) error) error
	Update(ctx context.Context, fn func(tx *storage.Tx) error) error
	Close() error
}

// Database opens one storage backend and owns the stores, search index and
// display filter built on top of it.
type Database struct {
	backend    backend
	threads    *storage.Store[*core.Thread]
	jobRecords *storage.Store[*core.JobRecord]
	index      *search.Index
	notifier   *search.Notifier
	display    *profile.DisplayFilter
	batchSize  int
	logger     *slog.Logger
}

// NewDatabase opens the database described by the options.
func NewDatabase(opts ...ConfigOption) (*Database, error) {
	cfg := NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger

	b, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	index := search.NewIndex()
	notifier, err := search.NewNotifier(index,
		search.WithPoolSize(cfg.SearchPoolSize),
		search.WithLogger(logger))
	if err != nil {
		b.Close()
		return nil, err
	}

	display, err := profile.NewDisplayFilter(
		profile.WithCacheSize(cfg.BioCacheSize),
		profile.WithLogger(logger))
	if err != nil {
		notifier.Release()
		b.Close()
		return nil, err
	}

	db := &Database{
		backend:   b,
		index:     index,
		notifier:  notifier,
		display:   display,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}

	db.jobRecords, err = storage.NewStore(storage.JobRecordFamily(),
		storage.WithLogger[*core.JobRecord](logger))
	if err != nil {
		db.Close()
		return nil, err
	}
	db.threads, err = storage.NewStore(storage.ThreadFamily(),
		storage.WithSearchIndexer[*core.Thread](notifier),
		storage.WithRemoveHook(db.removeThreadJobs),
		storage.WithLogger[*core.Thread](logger))
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func openBackend(cfg *Config) (backend, error) {
	switch cfg.Backend {
	case storage.KeyedBackend:
		b, err := badger.OpenBackend(cfg.Path, cfg.InMemory, badger.WithLogger(cfg.Logger))
		if err != nil {
			return nil, err
		}
		return b, nil
	case storage.RelationalBackend:
		b, err := sqlite.OpenBackend(cfg.Path, cfg.InMemory, sqlite.WithLogger(cfg.Logger))
		if err != nil {
			return nil, err
		}
		err = b.EnsureSchema(context.Background(),
			storage.ThreadFamily().Schema(),
			storage.JobRecordFamily().Schema())
		if err != nil {
			b.Close()
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported backend %v", cfg.Backend)
	}
}

// removeThreadJobs removes the job records that refer to a removed thread.
// Only the matching job records are loaded.
func (db *Database) removeThreadJobs(tx *storage.Tx, thread *core.Thread) error {
	var jobs []*core.JobRecord
	matching := db.jobRecords.Matching(tx, db.batchSize,
		storage.Match{Column: storage.JobRecordColumnThreadID, Value: thread.UniqueID},
		storage.Match{Column: storage.JobRecordColumnContactThreadID, Value: thread.UniqueID})
	for job, err := range matching {
		if err != nil {
			var rowErr *storage.RowError
			if errors.As(err, &rowErr) {
				db.logger.Warn("skipping unreadable job record of removed thread",
					"thread_id", thread.UniqueID, "job_id", rowErr.UniqueID, "err", err)
				continue
			}
			return err
		}
		jobs = append(jobs, job)
	}

	for _, job := range jobs {
		if err := db.jobRecords.Remove(tx, job); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		db.logger.Debug("removed job record of removed thread",
			"thread_id", thread.UniqueID, "job_id", job.UniqueID, "kind", job.Kind)
	}
	return nil
}

// Close releases the search workers, the display filter and the backend.
func (db *Database) Close() error {
	db.notifier.Release()
	db.display.Close()

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Backend returns the kind of the open backend.
func (db *Database) Backend() storage.BackendKind {
	return db.backend.Kind()
}

// BatchSize returns the configured enumeration batch size.
func (db *Database) BatchSize() int {
	return db.batchSize
}

// Read runs fn in a read-only transaction.
func (db *Database) Read(ctx context.Context, fn func(tx *storage.Tx) error) error {
	return db.backend.View(ctx, fn)
}

// Write runs fn in a read-write transaction. The transaction commits when fn
// returns nil and is rolled back otherwise.
func (db *Database) Write(ctx context.Context, fn func(tx *storage.Tx) error) error {
	return db.backend.Update(ctx, fn)
}

// Threads returns the thread store.
func (db *Database) Threads() *storage.Store[*core.Thread] {
	return db.threads
}

// JobRecords returns the job record store.
func (db *Database) JobRecords() *storage.Store[*core.JobRecord] {
	return db.jobRecords
}

// DisplayFilter returns the profile display filter.
func (db *Database) DisplayFilter() *profile.DisplayFilter {
	return db.display
}

// SearchThreads returns the unique IDs of threads matching every word of
// query, after applying all pending index changes.
func (db *Database) SearchThreads(query string) []string {
	db.notifier.Flush()
	return db.index.Search(storage.ThreadCollection, query)
}

// RebuildSearchIndex discards the thread index and rebuilds it from storage.
// Unreadable rows are left out and reported with a *storage.SkippedRowsError
// once the rest of the index is rebuilt.
func (db *Database) RebuildSearchIndex(ctx context.Context) error {
	db.notifier.Flush()
	db.index.AllModelsWereRemoved(storage.ThreadCollection)

	indexed := 0
	err := db.Read(ctx, func(tx *storage.Tx) error {
		return db.threads.Enumerate(tx, db.batchSize, func(t *core.Thread) error {
			db.index.ModelWasInserted(storage.ThreadCollection, t.UniqueID, t.SearchText())
			indexed++
			return nil
		})
	})
	db.logger.Info("rebuilt search index", "collection", storage.ThreadCollection, "indexed", indexed)
	return err
}
