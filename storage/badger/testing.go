package badger

// NewMemoryBackend opens an in-memory backend for testing.
// Caller must close the backend when done.
func NewMemoryBackend(opts ...Option) (*Backend, error) {
	return OpenBackend("", true, opts...)
}
