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
	"fmt"
	"time"
)

// RecordType is the discriminator stored with each row. It selects the
// concrete subtype within a model family.
type RecordType int64

// ColumnType is the storage class of a column.
type ColumnType int

const (
	ColumnInt64 ColumnType = iota + 1
	ColumnBool
	ColumnText
	ColumnBlob
)

// String returns the SQL type name used for the column.
func (t ColumnType) String() string {
	switch t {
	case ColumnInt64, ColumnBool:
		return "INTEGER"
	case ColumnText:
		return "TEXT"
	case ColumnBlob:
		return "BLOB"
	default:
		return "UNKNOWN"
	}
}

// Column describes one family column. Optional columns may hold NULL.
type Column struct {
	Name     string
	Type     ColumnType
	Optional bool
}

// Record is the flat row form of a model. Values is positional to the
// family's Columns; a nil value is NULL. Non-nil values are int64, bool,
// string or []byte.
type Record struct {
	ID         int64 // 0 when the row has not been inserted into a relational backend
	RecordType RecordType
	UniqueID   string
	Values     []any
}

// Int64 returns the int64 column at index i and whether it was non-NULL.
func (r Record) Int64(i int) (int64, bool) {
	v, ok := r.value(i).(int64)
	return v, ok
}

// Bool returns the bool column at index i and whether it was non-NULL.
func (r Record) Bool(i int) (bool, bool) {
	v, ok := r.value(i).(bool)
	return v, ok
}

// Text returns the string column at index i and whether it was non-NULL.
func (r Record) Text(i int) (string, bool) {
	v, ok := r.value(i).(string)
	return v, ok
}

// Blob returns the blob column at index i and whether it was non-NULL.
func (r Record) Blob(i int) ([]byte, bool) {
	v, ok := r.value(i).([]byte)
	return v, ok
}

// Date returns the optional date column at index i.
func (r Record) Date(i int) *time.Time {
	ms, ok := r.Int64(i)
	if !ok {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

func (r Record) value(i int) any {
	if i < 0 || i >= len(r.Values) {
		return nil
	}
	return r.Values[i]
}

// rowReader reads required columns from a record, remembering the first missing one.
type rowReader struct {
	rec     Record
	columns []Column
	err     error
}

func newRowReader(rec Record, columns []Column) *rowReader {
	return &rowReader{rec: rec, columns: columns}
}

func (rr *rowReader) missing(i int) {
	if rr.err != nil {
		return
	}
	name := fmt.Sprintf("#%d", i)
	if i >= 0 && i < len(rr.columns) {
		name = rr.columns[i].Name
	}
	rr.err = fmt.Errorf("%w: missing required column %s", ErrSerializationInvariant, name)
}

func (rr *rowReader) int64(i int) int64 {
	v, ok := rr.rec.Int64(i)
	if !ok {
		rr.missing(i)
	}
	return v
}

func (rr *rowReader) bool(i int) bool {
	v, ok := rr.rec.Bool(i)
	if !ok {
		rr.missing(i)
	}
	return v
}

func (rr *rowReader) text(i int) string {
	v, ok := rr.rec.Text(i)
	if !ok {
		rr.missing(i)
	}
	return v
}

func (rr *rowReader) blob(i int) []byte {
	v, ok := rr.rec.Blob(i)
	if !ok {
		rr.missing(i)
	}
	return v
}

// optionalDate converts an optional time to its column value.
func optionalDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

// optionalText stores the empty string as NULL.
func optionalText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// optionalBlob stores an empty slice as NULL.
func optionalBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
