package search

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/modelstore/storage"
)

// DefaultPoolSize is the default number of workers applying index changes.
const DefaultPoolSize = 4

// Notifier is a storage.SearchIndexer that applies changes to an Index on a
// worker pool, so that stores never wait for indexing. Changes carry a
// sequence number taken when the notification arrives, which keeps the
// index consistent when workers finish out of order.
type Notifier struct {
	index    *Index
	pool     *ants.Pool
	poolSize int
	pending  sync.WaitGroup
	released atomic.Bool
	logger   *slog.Logger
}

var _ storage.SearchIndexer = (*Notifier)(nil)

// Option configures a Notifier.
type Option func(*Notifier) error

// WithPoolSize sets the worker pool size.
// Default is DefaultPoolSize, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(n *Notifier) error {
		if size < 1 {
			size = 1
		}
		n.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
		return nil
	}
}

// NewNotifier creates a notifier feeding index.
func NewNotifier(index *Index, opts ...Option) (*Notifier, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	n := &Notifier{
		index:    index,
		poolSize: DefaultPoolSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(n.poolSize)
	if err != nil {
		return nil, err
	}
	n.pool = pool
	return n, nil
}

// Index returns the index the notifier feeds.
func (n *Notifier) Index() *Index {
	return n.index
}

// ModelWasInserted schedules indexing of the model's text.
func (n *Notifier) ModelWasInserted(collection, uniqueID, text string) {
	n.submit(op{kind: opPut, collection: collection, uniqueID: uniqueID, text: text})
}

// ModelWasUpdated schedules re-indexing of the model's text.
func (n *Notifier) ModelWasUpdated(collection, uniqueID, text string) {
	n.submit(op{kind: opPut, collection: collection, uniqueID: uniqueID, text: text})
}

// ModelWasRemoved schedules removal of the model from the index.
func (n *Notifier) ModelWasRemoved(collection, uniqueID string) {
	n.submit(op{kind: opDelete, collection: collection, uniqueID: uniqueID})
}

// AllModelsWereRemoved schedules clearing of the collection.
func (n *Notifier) AllModelsWereRemoved(collection string) {
	n.submit(op{kind: opClear, collection: collection})
}

func (n *Notifier) submit(o op) {
	if n.released.Load() {
		n.logger.Warn("dropping search index change", "collection", o.collection, "unique_id", o.uniqueID, "err", ErrNotifierReleased)
		return
	}
	o.seq = n.index.nextSeq()

	n.pending.Add(1)
	err := n.pool.Submit(func() {
		defer n.pending.Done()
		n.index.apply(o)
	})
	if err != nil {
		n.pending.Done()
		if !errors.Is(err, ants.ErrPoolClosed) {
			n.logger.Error("error submitting search index change", "err", err)
		}
		// The pool refused the task; apply it on the caller goroutine.
		n.index.apply(o)
	}
}

// Flush blocks until every submitted change has been applied.
func (n *Notifier) Flush() {
	n.pending.Wait()
}

// Release waits for pending changes and releases the worker pool.
// The notifier should not be used after calling Release.
func (n *Notifier) Release() {
	if n.released.Swap(true) {
		return
	}
	n.Flush()
	n.pool.Release()
}
