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
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// TableSchema is the relational layout of a family table: the reserved id,
// recordType and uniqueId columns followed by Columns.
type TableSchema struct {
	Table   string
	Columns []Column
}

// CreateStatements returns the DDL creating the table and its indexes if missing.
func (s TableSchema) CreateStatements() []string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(s.Table))
	b.WriteString("\t\"id\" INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,\n")
	b.WriteString("\t\"recordType\" INTEGER NOT NULL,\n")
	b.WriteString("\t\"uniqueId\" TEXT NOT NULL UNIQUE")
	for _, c := range s.Columns {
		fmt.Fprintf(&b, ",\n\t%s %s", quoteIdent(c.Name), c.Type)
		if !c.Optional {
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString("\n)")

	index := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (\"recordType\")",
		quoteIdent("index_"+s.Table+"_on_recordType"), quoteIdent(s.Table))
	return []string{b.String(), index}
}

// statements holds the parameterized SQL a Store issues against one table.
type statements struct {
	insert    string
	update    string
	fetch     string
	exists    string
	count     string
	all       string
	uniqueIDs string
	remove    string
	removeAll string
}

func newStatements(s TableSchema) statements {
	table := quoteIdent(s.Table)

	names := make([]string, 0, len(s.Columns)+3)
	names = append(names, `"id"`, `"recordType"`, `"uniqueId"`)
	for _, c := range s.Columns {
		names = append(names, quoteIdent(c.Name))
	}
	selectList := strings.Join(names, ", ")

	writable := names[1:]
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(writable)), ", ")

	sets := make([]string, 0, len(s.Columns)+1)
	sets = append(sets, `"recordType" = ?`)
	for _, c := range s.Columns {
		sets = append(sets, quoteIdent(c.Name)+" = ?")
	}

	return statements{
		insert:    fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(writable, ", "), placeholders),
		update:    fmt.Sprintf(`UPDATE %s SET %s WHERE "uniqueId" = ?`, table, strings.Join(sets, ", ")),
		fetch:     fmt.Sprintf(`SELECT %s FROM %s WHERE "uniqueId" = ?`, selectList, table),
		exists:    fmt.Sprintf(`SELECT 1 FROM %s WHERE "uniqueId" = ? LIMIT 1`, table),
		count:     fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
		all:       fmt.Sprintf("SELECT %s FROM %s", selectList, table),
		uniqueIDs: fmt.Sprintf(`SELECT "uniqueId" FROM %s`, table),
		remove:    fmt.Sprintf(`DELETE FROM %s WHERE "uniqueId" = ?`, table),
		removeAll: fmt.Sprintf("DELETE FROM %s", table),
	}
}

// insertArgs returns the bind arguments of the insert statement.
func insertArgs(rec Record) []any {
	args := make([]any, 0, len(rec.Values)+2)
	args = append(args, int64(rec.RecordType), rec.UniqueID)
	return append(args, rec.Values...)
}

// updateArgs returns the bind arguments of the update statement.
func updateArgs(rec Record) []any {
	args := make([]any, 0, len(rec.Values)+2)
	args = append(args, int64(rec.RecordType))
	args = append(args, rec.Values...)
	return append(args, rec.UniqueID)
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row selected with the statements' select list.
func scanRecord(row scanner, columns []Column) (Record, error) {
	var (
		rec        Record
		recordType int64
	)
	dest := make([]any, 0, len(columns)+3)
	dest = append(dest, &rec.ID, &recordType, &rec.UniqueID)

	targets := make([]any, len(columns))
	for i, c := range columns {
		switch c.Type {
		case ColumnInt64, ColumnBool:
			targets[i] = new(sql.NullInt64)
		case ColumnText:
			targets[i] = new(sql.NullString)
		default:
			targets[i] = new(sql.Null[[]byte])
		}
	}
	dest = append(dest, targets...)

	if err := row.Scan(dest...); err != nil {
		return rec, err
	}
	rec.RecordType = RecordType(recordType)

	rec.Values = make([]any, len(columns))
	for i, c := range columns {
		switch t := targets[i].(type) {
		case *sql.NullInt64:
			if !t.Valid {
				continue
			}
			if c.Type == ColumnBool {
				rec.Values[i] = t.Int64 != 0
			} else {
				rec.Values[i] = t.Int64
			}
		case *sql.NullString:
			if t.Valid {
				rec.Values[i] = t.String
			}
		case *sql.Null[[]byte]:
			if t.Valid {
				rec.Values[i] = t.V
			}
		}
	}
	return rec, nil
}

// rowsCursor adapts *sql.Rows to a Cursor.
type rowsCursor[T any] struct {
	rows   *sql.Rows
	scan   func(*sql.Rows) (T, error)
	closed bool
}

func newRowsCursor[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) *rowsCursor[T] {
	return &rowsCursor[T]{rows: rows, scan: scan}
}

func (c *rowsCursor[T]) Next() (T, bool, error) {
	var zero T
	if c.closed {
		return zero, false, nil
	}
	if !c.rows.Next() {
		err := c.rows.Err()
		_ = c.Close()
		return zero, false, err
	}
	v, err := c.scan(c.rows)
	if err != nil {
		return zero, true, err
	}
	return v, true, nil
}

func (c *rowsCursor[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Close()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
