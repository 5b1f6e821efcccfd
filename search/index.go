package search

import (
	"encoding/binary"
	"slices"
	"sync"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/modelstore/storage"
)

type opKind int

const (
	opPut opKind = iota + 1
	opDelete
	opClear
)

// op is one index change. seq orders changes that may be applied out of order.
type op struct {
	kind       opKind
	collection string
	uniqueID   string
	text       string
	seq        uint64
}

// document is the indexed state of one model. Deleted documents are kept as
// tombstones so that older, late-arriving puts are ignored.
type document struct {
	seq         uint64
	fingerprint uint64
	words       []string
	deleted     bool
}

// collection is the index of one model family.
type collection struct {
	docs      map[string]*document
	postings  map[string]map[string]struct{}
	clearedAt uint64
}

func newCollection() *collection {
	return &collection{
		docs:     make(map[string]*document),
		postings: make(map[string]map[string]struct{}),
	}
}

// Index is an in-memory inverted index over the search text of models,
// kept per collection. It is safe for concurrent use.
type Index struct {
	mu          sync.RWMutex
	seq         uint64
	collections map[string]*collection
}

var _ storage.SearchIndexer = (*Index)(nil)

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{collections: make(map[string]*collection)}
}

// fingerprint generates a 64 bit BLAKE2b digest of text.
func fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(text))
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

func (ix *Index) nextSeq() uint64 {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.seq++
	return ix.seq
}

// ModelWasInserted indexes text for the model.
func (ix *Index) ModelWasInserted(collection, uniqueID, text string) {
	ix.apply(op{kind: opPut, collection: collection, uniqueID: uniqueID, text: text, seq: ix.nextSeq()})
}

// ModelWasUpdated replaces the indexed text of the model.
func (ix *Index) ModelWasUpdated(collection, uniqueID, text string) {
	ix.apply(op{kind: opPut, collection: collection, uniqueID: uniqueID, text: text, seq: ix.nextSeq()})
}

// ModelWasRemoved drops the model from the index.
func (ix *Index) ModelWasRemoved(collection, uniqueID string) {
	ix.apply(op{kind: opDelete, collection: collection, uniqueID: uniqueID, seq: ix.nextSeq()})
}

// AllModelsWereRemoved empties the index of a collection.
func (ix *Index) AllModelsWereRemoved(collection string) {
	ix.apply(op{kind: opClear, collection: collection, seq: ix.nextSeq()})
}

// apply performs o unless a newer change to the same model, or a newer clear
// of its collection, was already applied.
func (ix *Index) apply(o op) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	c, ok := ix.collections[o.collection]
	if !ok {
		c = newCollection()
		ix.collections[o.collection] = c
	}

	if o.kind == opClear {
		if o.seq <= c.clearedAt {
			return
		}
		c.clearedAt = o.seq
		for id, doc := range c.docs {
			if doc.seq < o.seq {
				c.unpost(id, doc)
				delete(c.docs, id)
			}
		}
		return
	}

	if o.seq <= c.clearedAt {
		return
	}
	doc, ok := c.docs[o.uniqueID]
	if ok && doc.seq >= o.seq {
		return
	}

	switch o.kind {
	case opPut:
		fp := fingerprint(o.text)
		if ok && !doc.deleted && doc.fingerprint == fp {
			doc.seq = o.seq
			return
		}
		if ok {
			c.unpost(o.uniqueID, doc)
		}
		doc = &document{seq: o.seq, fingerprint: fp, words: uniqueWords(o.text)}
		c.docs[o.uniqueID] = doc
		c.post(o.uniqueID, doc)
	case opDelete:
		if ok {
			c.unpost(o.uniqueID, doc)
		}
		c.docs[o.uniqueID] = &document{seq: o.seq, deleted: true}
	}
}

func (c *collection) post(id string, doc *document) {
	for _, word := range doc.words {
		ids, ok := c.postings[word]
		if !ok {
			ids = make(map[string]struct{})
			c.postings[word] = ids
		}
		ids[id] = struct{}{}
	}
}

func (c *collection) unpost(id string, doc *document) {
	for _, word := range doc.words {
		ids := c.postings[word]
		delete(ids, id)
		if len(ids) == 0 {
			delete(c.postings, word)
		}
	}
}

// Search returns the uniqueIds of the models in collection whose text
// contains every non stop word of query, sorted. A query made only of stop
// words matches nothing.
func (ix *Index) Search(collection, query string) []string {
	words := uniqueWords(query)
	if len(words) == 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	c, ok := ix.collections[collection]
	if !ok {
		return nil
	}

	// Start from the rarest word to keep the candidate set small.
	slices.SortFunc(words, func(a, b string) int {
		return len(c.postings[a]) - len(c.postings[b])
	})

	var results []string
	for id := range c.postings[words[0]] {
		matches := true
		for _, word := range words[1:] {
			if _, ok := c.postings[word][id]; !ok {
				matches = false
				break
			}
		}
		if matches {
			results = append(results, id)
		}
	}
	slices.Sort(results)
	return results
}

// Len returns the number of indexed models in collection.
func (ix *Index) Len(collection string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	c, ok := ix.collections[collection]
	if !ok {
		return 0
	}
	n := 0
	for _, doc := range c.docs {
		if !doc.deleted {
			n++
		}
	}
	return n
}
