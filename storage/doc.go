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

// Package storage provides the model persistence layer for modelstore.
//
// Every persisted model family (threads, job records) is stored in a single
// table or collection. Rows of all subtypes of a family share one column set
// and a RecordType discriminator selects the subtype. Columns that do not apply
// to a subtype are stored as NULL.
//
// # Architecture
//
//   - Record: the flat, backend-neutral row form of a model
//   - Serializer: converts a model family to and from Records
//   - Family: a family's collection, table, columns and serializer
//   - Tx: a transaction bound to exactly one backend
//   - Store: the generic entity store (insert, fetch, update, remove, ...)
//   - SearchIndexer: side-effect hook keeping the full-text index current
//
// # Backends
//
// Two backends are supported and selected when the database is opened:
//
//   - storage/badger: a keyed-collection store. Records are encoded with
//     MarshalRecord and kept under "collection:uniqueId" keys.
//   - storage/sqlite: a relational store. Each family has a table with an
//     autoincrement id, a recordType column, a unique uniqueId column and one
//     column per entry of Family.Columns.
//
// A Tx opened on one backend must never be used with the other backend's API.
// Doing so panics with ErrBackendMismatch. Mutations through a read Tx panic
// with ErrReadOnlyTransaction.
//
// # Usage
//
//	threads := storage.NewStore(storage.ThreadFamily(),
//	    storage.WithSearchIndexer[*core.Thread](index))
//
//	err := db.Write(ctx, func(tx *storage.Tx) error {
//	    return threads.Insert(tx, core.NewContactThread("+15551234567", ""))
//	})
//
// # Thread Safety
//
// A Store holds no per-call state and may be shared between goroutines.
// A Tx must only be used by one goroutine at a time.
package storage
