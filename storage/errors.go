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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists indicates an insert of a uniqueId that is already stored.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrUnknownRecordType indicates a stored row whose discriminator no serializer knows.
	ErrUnknownRecordType = errors.New("unknown record type")

	// ErrUnexpectedRecordType indicates a row of a different subtype than requested.
	ErrUnexpectedRecordType = errors.New("unexpected record type")

	// ErrSerializationInvariant indicates a row missing a column its subtype requires.
	ErrSerializationInvariant = errors.New("serialization invariant violated")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")

	// ErrBackendMismatch is raised (as a panic) when a transaction is used with
	// the other backend's API.
	ErrBackendMismatch = errors.New("transaction bound to a different backend")

	// ErrReadOnlyTransaction is raised (as a panic) when a mutation is issued
	// through a read transaction.
	ErrReadOnlyTransaction = errors.New("mutation in read-only transaction")

	// ErrTransactionTooLarge indicates a keyed transaction that outgrew the
	// backend's per-transaction write limit. The transaction must be retried
	// as several smaller ones.
	ErrTransactionTooLarge = errors.New("transaction too large")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrUnknownColumn indicates a match on a column the family does not have
	// or cannot compare.
	ErrUnknownColumn = errors.New("unknown or unmatchable column")

	// ErrInvalidFamily indicates a family definition missing its collection, table or serializer.
	ErrInvalidFamily = errors.New("invalid model family")
)

// RowError describes a single stored row that could not be turned into a model.
type RowError struct {
	UniqueID   string
	RowID      int64
	RecordType RecordType
	Err        error
}

func (e *RowError) Error() string {
	if e.UniqueID == "" {
		return fmt.Sprintf("row %d (type %d): %v", e.RowID, e.RecordType, e.Err)
	}
	return fmt.Sprintf("row %q (type %d): %v", e.UniqueID, e.RecordType, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// SkippedRowsError reports the rows a full traversal skipped.
type SkippedRowsError struct {
	Rows []*RowError
}

func (e *SkippedRowsError) Error() string {
	if len(e.Rows) == 1 {
		return "skipped 1 row: " + e.Rows[0].Error()
	}
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("skipped %d rows: %s", len(e.Rows), strings.Join(msgs, "; "))
}

func (e *SkippedRowsError) Unwrap() []error {
	errs := make([]error, len(e.Rows))
	for i, r := range e.Rows {
		errs[i] = r
	}
	return errs
}

// skipped collects row errors and returns nil when none were recorded.
type skipped []*RowError

func (s skipped) err() error {
	if len(s) == 0 {
		return nil
	}
	return &SkippedRowsError{Rows: s}
}
