package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableSchema_CreateStatements(t *testing.T) {
	stmts := TableSchema{
		Table: "model_Test",
		Columns: []Column{
			{Name: "label", Type: ColumnText},
			{Name: "note", Type: ColumnBlob, Optional: true},
		},
	}.CreateStatements()

	assert.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], `CREATE TABLE IF NOT EXISTS "model_Test"`)
	assert.Contains(t, stmts[0], `"uniqueId" TEXT NOT NULL UNIQUE`)
	assert.Contains(t, stmts[0], `"label" TEXT NOT NULL`)
	assert.Contains(t, stmts[0], `"note" BLOB`)
	assert.NotContains(t, stmts[0], `"note" BLOB NOT NULL`)
	assert.Contains(t, stmts[1], `ON "model_Test" ("recordType")`)
}

func TestNewStatements(t *testing.T) {
	s := newStatements(TableSchema{
		Table:   "model_Test",
		Columns: []Column{{Name: "label", Type: ColumnText}},
	})

	assert.Equal(t, `INSERT INTO "model_Test" ("recordType", "uniqueId", "label") VALUES (?, ?, ?)`, s.insert)
	assert.Equal(t, `UPDATE "model_Test" SET "recordType" = ?, "label" = ? WHERE "uniqueId" = ?`, s.update)
	assert.Equal(t, `SELECT "id", "recordType", "uniqueId", "label" FROM "model_Test" WHERE "uniqueId" = ?`, s.fetch)
	assert.Equal(t, `DELETE FROM "model_Test"`, s.removeAll)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"plain"`, quoteIdent("plain"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}
