package modelstore

import (
	"log/slog"
	"testing"

	"github.com/poiesic/modelstore/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, storage.KeyedBackend, cfg.Backend)
	assert.Equal(t, storage.DefaultBatchSize, cfg.BatchSize)
	assert.Empty(t, cfg.Path)
	assert.False(t, cfg.InMemory)
	assert.NotNil(t, cfg.Logger)
}

func TestNewConfig(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	cfg := NewConfig(
		WithBackend(storage.RelationalBackend),
		WithPath("/tmp/db"),
		WithBatchSize(10),
		WithSearchPoolSize(2),
		WithBioCacheSize(16),
		WithLogger(logger),
	)

	assert.Equal(t, storage.RelationalBackend, cfg.Backend)
	assert.Equal(t, "/tmp/db", cfg.Path)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 2, cfg.SearchPoolSize)
	assert.Equal(t, 16, cfg.BioCacheSize)
	assert.Same(t, logger, cfg.Logger)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConfigOption
		wantErr bool
	}{
		{name: "on disk", opts: []ConfigOption{WithPath("/tmp/db")}},
		{name: "in memory without path", opts: []ConfigOption{WithInMemory(true)}},
		{name: "missing path", wantErr: true},
		{name: "unknown backend", opts: []ConfigOption{WithInMemory(true), WithBackend(0)}, wantErr: true},
		{name: "zero batch size", opts: []ConfigOption{WithInMemory(true), WithBatchSize(0)}, wantErr: true},
		{name: "zero search pool", opts: []ConfigOption{WithInMemory(true), WithSearchPoolSize(0)}, wantErr: true},
		{name: "zero bio cache", opts: []ConfigOption{WithInMemory(true), WithBioCacheSize(0)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDefaultsLogger(t *testing.T) {
	cfg := NewConfig(WithInMemory(true), WithLogger(nil))
	require.NoError(t, cfg.Validate())
	assert.NotNil(t, cfg.Logger)
}
