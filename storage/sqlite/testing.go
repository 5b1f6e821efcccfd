package sqlite

import (
	"context"

	"github.com/poiesic/modelstore/storage"
)

// NewMemoryBackend opens an in-memory backend with the given tables for testing.
// Caller must close the backend when done.
func NewMemoryBackend(schemas ...storage.TableSchema) (*Backend, error) {
	b, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	if err := b.EnsureSchema(context.Background(), schemas...); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}
