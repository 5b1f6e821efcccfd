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
	"slices"
)

// Serializer converts the models of one family to and from Records.
//
// ToRecord emits every column of the family, with NULL for columns the
// model's subtype does not use. FromRecord dispatches on Record.RecordType
// and fails with ErrUnknownRecordType or ErrSerializationInvariant.
type Serializer[M Model] interface {
	ToRecord(m M) (Record, error)
	FromRecord(rec Record) (M, error)
}

// Family describes one model family persisted in a single table or collection.
type Family[M Model] struct {
	// Collection is the keyed backend collection name.
	Collection string

	// Table is the relational table name.
	Table string

	// Columns lists the union of all subtype columns, in Record.Values order.
	Columns []Column

	// RecordTypes lists every discriminator the serializer understands.
	RecordTypes []RecordType

	Serializer Serializer[M]

	// SearchIndexed families notify the SearchIndexer on every change.
	SearchIndexed bool

	// Validate, when set, is checked before a model is written.
	Validate func(M) error
}

func (f Family[M]) validate() error {
	if f.Collection == "" || f.Table == "" {
		return fmt.Errorf("%w: collection and table are required", ErrInvalidFamily)
	}
	if f.Serializer == nil {
		return fmt.Errorf("%w: %s has no serializer", ErrInvalidFamily, f.Collection)
	}
	if len(f.RecordTypes) == 0 {
		return fmt.Errorf("%w: %s declares no record types", ErrInvalidFamily, f.Collection)
	}
	for i, rt := range f.RecordTypes {
		if slices.Contains(f.RecordTypes[:i], rt) {
			return fmt.Errorf("%w: %s declares record type %d twice", ErrInvalidFamily, f.Collection, rt)
		}
	}
	seen := make(map[string]bool, len(f.Columns))
	for _, c := range f.Columns {
		if c.Name == "" || seen[c.Name] {
			return fmt.Errorf("%w: %s has an empty or duplicate column %q", ErrInvalidFamily, f.Collection, c.Name)
		}
		switch c.Name {
		case "id", "recordType", "uniqueId":
			return fmt.Errorf("%w: %s redeclares reserved column %q", ErrInvalidFamily, f.Collection, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func (f Family[M]) hasRecordType(rt RecordType) bool {
	return slices.Contains(f.RecordTypes, rt)
}

// Schema returns the relational table definition of the family.
func (f Family[M]) Schema() TableSchema {
	return TableSchema{Table: f.Table, Columns: f.Columns}
}
