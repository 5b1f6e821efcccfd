package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeAndFilter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"stop words only", "the and of", []string{}},
		{"punctuation and case", "Hello, World! (again)", []string{"hello", "world", "again"}},
		{"mixed", "Meet at the Trailhead.", []string{"meet", "trailhead"}},
		{"inner punctuation", "ski/hike trip", []string{"ski", "hike", "trip"}},
		{"phone number", "call +15551234567", []string{"call", "+15551234567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenizeAndFilter(tt.text))
		})
	}
}

func TestUniqueWords(t *testing.T) {
	assert.Equal(t, []string{"go", "team"}, uniqueWords("Go team go!"))
}

func TestIndex_Search(t *testing.T) {
	ix := NewIndex()
	ix.ModelWasInserted("TSThread", "a", "Book club meets Thursday")
	ix.ModelWasInserted("TSThread", "b", "Climbing club")
	ix.ModelWasInserted("TSThread", "c", "Thursday dinner")
	ix.ModelWasInserted("Other", "z", "Book club")

	assert.Equal(t, []string{"a", "b"}, ix.Search("TSThread", "club"))
	assert.Equal(t, []string{"a"}, ix.Search("TSThread", "the book CLUB"))
	assert.Equal(t, []string{"a", "c"}, ix.Search("TSThread", "thursday"))
	assert.Empty(t, ix.Search("TSThread", "the"))
	assert.Empty(t, ix.Search("TSThread", "missing"))
	assert.Empty(t, ix.Search("Unknown", "club"))
	assert.Equal(t, 3, ix.Len("TSThread"))
}

func TestIndex_UpdateAndRemove(t *testing.T) {
	ix := NewIndex()
	ix.ModelWasInserted("TSThread", "a", "alpha beta")
	ix.ModelWasUpdated("TSThread", "a", "gamma")

	assert.Empty(t, ix.Search("TSThread", "alpha"))
	assert.Equal(t, []string{"a"}, ix.Search("TSThread", "gamma"))

	ix.ModelWasRemoved("TSThread", "a")
	assert.Empty(t, ix.Search("TSThread", "gamma"))
	assert.Zero(t, ix.Len("TSThread"))
}

func TestIndex_AllModelsWereRemoved(t *testing.T) {
	ix := NewIndex()
	for i := 0; i < 5; i++ {
		ix.ModelWasInserted("TSThread", fmt.Sprintf("t%d", i), "shared words")
	}
	ix.ModelWasInserted("Other", "o", "shared words")

	ix.AllModelsWereRemoved("TSThread")
	assert.Zero(t, ix.Len("TSThread"))
	assert.Empty(t, ix.Search("TSThread", "shared"))
	assert.Equal(t, []string{"o"}, ix.Search("Other", "shared"))
}

func TestIndex_OutOfOrderChanges(t *testing.T) {
	ix := NewIndex()

	put := op{kind: opPut, collection: "TSThread", uniqueID: "a", text: "stale text", seq: ix.nextSeq()}
	del := op{kind: opDelete, collection: "TSThread", uniqueID: "a", seq: ix.nextSeq()}

	ix.apply(del)
	ix.apply(put)
	assert.Zero(t, ix.Len("TSThread"), "older put must not resurrect a removed model")

	newer := op{kind: opPut, collection: "TSThread", uniqueID: "b", text: "fresh", seq: ix.nextSeq()}
	clr := op{kind: opClear, collection: "TSThread", seq: ix.nextSeq()}
	late := op{kind: opPut, collection: "TSThread", uniqueID: "c", text: "late", seq: newer.seq}

	ix.apply(newer)
	ix.apply(clr)
	ix.apply(late)
	assert.Empty(t, ix.Search("TSThread", "fresh"))
	assert.Empty(t, ix.Search("TSThread", "late"))

	after := op{kind: opPut, collection: "TSThread", uniqueID: "d", text: "after", seq: ix.nextSeq()}
	ix.apply(after)
	assert.Equal(t, []string{"d"}, ix.Search("TSThread", "after"))
}

func TestIndex_UnchangedTextKeepsDocument(t *testing.T) {
	ix := NewIndex()
	ix.ModelWasInserted("TSThread", "a", "same text")
	require.Equal(t, []string{"a"}, ix.Search("TSThread", "same"))

	ix.ModelWasUpdated("TSThread", "a", "same text")
	assert.Equal(t, []string{"a"}, ix.Search("TSThread", "same"))
	assert.Equal(t, fingerprint("same text"), fingerprint("same text"))
	assert.NotEqual(t, fingerprint("same text"), fingerprint("other text"))
}
