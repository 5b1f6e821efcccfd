package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/modelstore/storage"
)

// Txn adapts a BadgerDB transaction to storage.KeyedTxn.
type Txn struct {
	txn *badger.Txn
}

var _ storage.KeyedTxn = (*Txn)(nil)

// Get returns a copy of the value stored under key.
func (t *Txn) Get(collection, key string) ([]byte, bool, error) {
	item, err := t.txn.Get(makeKey(collection, key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value under key.
func (t *Txn) Put(collection, key string, value []byte) error {
	return writeErr(t.txn.Set(makeKey(collection, key), value))
}

// Delete removes key.
func (t *Txn) Delete(collection, key string) error {
	return writeErr(t.txn.Delete(makeKey(collection, key)))
}

// DeleteAll removes every key of the collection. Keys are collected before
// any is deleted. Every deletion is staged in t, so a collection larger than
// BadgerDB's per-transaction limit fails with storage.ErrTransactionTooLarge.
func (t *Txn) DeleteAll(collection string) error {
	var keys [][]byte
	cur := iterate(t.txn, collection, false, func(item *badger.Item) ([]byte, error) {
		return item.KeyCopy(nil), nil
	})
	for {
		key, ok, err := cur.Next()
		if err != nil {
			cur.Close()
			return err
		}
		if !ok {
			break
		}
		keys = append(keys, key)
	}

	for _, key := range keys {
		if err := t.txn.Delete(key); err != nil {
			return writeErr(err)
		}
	}
	return nil
}

func writeErr(err error) error {
	if errors.Is(err, badger.ErrTxnTooBig) {
		return fmt.Errorf("%w: %w", storage.ErrTransactionTooLarge, err)
	}
	return err
}

// Keys returns a cursor over the collection's unique IDs.
func (t *Txn) Keys(collection string) storage.Cursor[string] {
	prefixLen := len(makePrefix(collection))
	return iterate(t.txn, collection, false, func(item *badger.Item) (string, error) {
		return string(item.Key()[prefixLen:]), nil
	})
}

// Entries returns a cursor over the collection's unique IDs and values.
func (t *Txn) Entries(collection string) storage.Cursor[storage.Entry] {
	prefixLen := len(makePrefix(collection))
	return iterate(t.txn, collection, true, func(item *badger.Item) (storage.Entry, error) {
		value, err := item.ValueCopy(nil)
		if err != nil {
			return storage.Entry{}, err
		}
		return storage.Entry{Key: string(item.Key()[prefixLen:]), Value: value}, nil
	})
}

// Count returns the number of keys in the collection.
func (t *Txn) Count(collection string) (uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePrefix(collection)
	opts.PrefetchValues = false
	it := t.txn.NewIterator(opts)
	defer it.Close()

	var n uint64
	for it.Rewind(); it.Valid(); it.Next() {
		n++
	}
	return n, nil
}

// iterCursor walks the keys of one collection with a BadgerDB iterator.
type iterCursor[T any] struct {
	it      *badger.Iterator
	read    func(*badger.Item) (T, error)
	started bool
	closed  bool
}

func iterate[T any](txn *badger.Txn, collection string, prefetch bool, read func(*badger.Item) (T, error)) *iterCursor[T] {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePrefix(collection)
	opts.PrefetchValues = prefetch
	return &iterCursor[T]{it: txn.NewIterator(opts), read: read}
}

func (c *iterCursor[T]) Next() (T, bool, error) {
	var zero T
	if c.closed {
		return zero, false, nil
	}
	if c.started {
		c.it.Next()
	} else {
		c.it.Rewind()
		c.started = true
	}
	if !c.it.Valid() {
		c.Close()
		return zero, false, nil
	}
	v, err := c.read(c.it.Item())
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (c *iterCursor[T]) Close() error {
	if !c.closed {
		c.closed = true
		c.it.Close()
	}
	return nil
}
