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

package storage

import (
	"context"
	"database/sql"
)

// Model is implemented by every persisted model.
type Model interface {
	// ModelUniqueID returns the model's stable unique ID.
	ModelUniqueID() string

	// ModelRowID returns the relational row ID, or 0 if none was assigned.
	ModelRowID() int64

	// UpdateRowID is called exactly once, after a relational insert assigned a row ID.
	UpdateRowID(rowID int64)
}

// Indexable is implemented by models whose text is kept in the full-text index.
type Indexable interface {
	SearchText() string
}

// Normalizer is implemented by models that reduce their values to what storage
// keeps, so that a fetched copy equals the written one. Stores call Normalize
// before every write.
type Normalizer interface {
	Normalize()
}

// SearchIndexer is notified of changes to search-indexed families.
// Notifications are fire-and-forget and must not block the caller for long.
type SearchIndexer interface {
	// ModelWasInserted is called after a model was inserted.
	ModelWasInserted(collection, uniqueID, text string)

	// ModelWasUpdated is called after a model was updated.
	ModelWasUpdated(collection, uniqueID, text string)

	// ModelWasRemoved is called after a model was removed.
	ModelWasRemoved(collection, uniqueID string)

	// AllModelsWereRemoved is called after a whole collection was cleared.
	AllModelsWereRemoved(collection string)
}

// Cursor is a single-pass, forward-only iterator. Next returns false once
// the cursor is exhausted. Close releases the cursor and is safe to call twice.
//
// Record cursors report a row that could not be read as a *RowError with
// ok set to true; the cursor remains usable. Any other error ends the cursor.
type Cursor[T any] interface {
	Next() (T, bool, error)
	Close() error
}

// KeyedTxn is the transaction API of a keyed-collection backend.
// Keys are scoped to a collection.
type KeyedTxn interface {
	// Get returns the value stored under key, and false if there is none.
	Get(collection, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(collection, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(collection, key string) error

	// DeleteAll removes every key of the collection within the transaction.
	// It fails with ErrTransactionTooLarge when the backend cannot stage that
	// many deletions at once.
	DeleteAll(collection string) error

	// Keys returns a cursor over the collection's keys in native key order.
	Keys(collection string) Cursor[string]

	// Entries returns a cursor over the collection's keys and values in native key order.
	Entries(collection string) Cursor[Entry]

	// Count returns the number of keys in the collection.
	Count(collection string) (uint64, error)
}

// Entry is one key and value of a keyed collection.
type Entry struct {
	Key   string
	Value []byte
}

// RelationalTxn is the transaction API of a relational backend. It is the
// subset of *sql.Tx the store uses.
type RelationalTxn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// noopIndexer discards every notification.
type noopIndexer struct{}

// NoopIndexer returns a SearchIndexer that does nothing.
func NoopIndexer() SearchIndexer {
	return noopIndexer{}
}

func (noopIndexer) ModelWasInserted(string, string, string) {}
func (noopIndexer) ModelWasUpdated(string, string, string)  {}
func (noopIndexer) ModelWasRemoved(string, string)          {}
func (noopIndexer) AllModelsWereRemoved(string)             {}

var _ SearchIndexer = noopIndexer{}
