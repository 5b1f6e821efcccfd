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
	"fmt"
)

// BackendKind identifies a storage backend.
type BackendKind int

const (
	// KeyedBackend is the keyed-collection backend (BadgerDB).
	KeyedBackend BackendKind = iota + 1
	// RelationalBackend is the relational backend (SQLite).
	RelationalBackend
)

// String returns the backend name used in configuration.
func (k BackendKind) String() string {
	switch k {
	case KeyedBackend:
		return "badger"
	case RelationalBackend:
		return "sqlite"
	default:
		return "unknown"
	}
}

// ParseBackendKind parses a backend name as returned by BackendKind.String.
func ParseBackendKind(s string) (BackendKind, error) {
	switch s {
	case "badger":
		return KeyedBackend, nil
	case "sqlite":
		return RelationalBackend, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", s)
	}
}

// Tx is a transaction bound to exactly one backend. It is created by the
// database and handed to store operations; stores never commit or roll back.
type Tx struct {
	ctx        context.Context
	kind       BackendKind
	write      bool
	keyed      KeyedTxn
	relational RelationalTxn
}

// NewKeyedTx wraps a keyed-collection transaction.
func NewKeyedTx(ctx context.Context, txn KeyedTxn, write bool) *Tx {
	return &Tx{ctx: ctx, kind: KeyedBackend, write: write, keyed: txn}
}

// NewRelationalTx wraps a relational transaction.
func NewRelationalTx(ctx context.Context, txn RelationalTxn, write bool) *Tx {
	return &Tx{ctx: ctx, kind: RelationalBackend, write: write, relational: txn}
}

// Kind returns the backend the transaction is bound to.
func (tx *Tx) Kind() BackendKind {
	return tx.kind
}

// IsWrite reports whether the transaction may mutate.
func (tx *Tx) IsWrite() bool {
	return tx.write
}

// Context returns the context the transaction was opened with.
func (tx *Tx) Context() context.Context {
	if tx.ctx == nil {
		return context.Background()
	}
	return tx.ctx
}

// Keyed returns the keyed-collection transaction. It panics with
// ErrBackendMismatch if the transaction is relational.
func (tx *Tx) Keyed() KeyedTxn {
	if tx.kind != KeyedBackend {
		panic(fmt.Errorf("%w: want %s, have %s", ErrBackendMismatch, KeyedBackend, tx.kind))
	}
	return tx.keyed
}

// Relational returns the relational transaction. It panics with
// ErrBackendMismatch if the transaction is keyed.
func (tx *Tx) Relational() RelationalTxn {
	if tx.kind != RelationalBackend {
		panic(fmt.Errorf("%w: want %s, have %s", ErrBackendMismatch, RelationalBackend, tx.kind))
	}
	return tx.relational
}

func (tx *Tx) requireWrite() {
	if !tx.write {
		panic(ErrReadOnlyTransaction)
	}
}
