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

package modelstore

import (
	"errors"
	"log/slog"

	"github.com/poiesic/modelstore/profile"
	"github.com/poiesic/modelstore/search"
	"github.com/poiesic/modelstore/storage"
)

// Config holds configuration for opening a Database.
type Config struct {
	// Backend selects the storage backend.
	// Default: storage.KeyedBackend
	Backend storage.BackendKind

	// Path is the directory holding the database files.
	// Required unless InMemory is set.
	Path string

	// InMemory keeps all data in memory. Path is ignored.
	InMemory bool

	// BatchSize is the number of rows read per batch by full enumerations.
	// Default: storage.DefaultBatchSize
	BatchSize int

	// SearchPoolSize is the number of workers applying search index changes.
	// Default: search.DefaultPoolSize
	SearchPoolSize int

	// BioCacheSize is the number of filtered profile bio components cached.
	// Default: profile.DefaultCacheSize
	BioCacheSize int

	// Logger receives log output from every component.
	// Default: slog.Default()
	Logger *slog.Logger
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend sets the storage backend.
func WithBackend(kind storage.BackendKind) ConfigOption {
	return func(c *Config) {
		c.Backend = kind
	}
}

// WithPath sets the database directory.
func WithPath(path string) ConfigOption {
	return func(c *Config) {
		c.Path = path
	}
}

// WithInMemory keeps the database in memory.
func WithInMemory(inMemory bool) ConfigOption {
	return func(c *Config) {
		c.InMemory = inMemory
	}
}

// WithBatchSize sets the enumeration batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithSearchPoolSize sets the number of search index workers.
func WithSearchPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.SearchPoolSize = size
	}
}

// WithBioCacheSize sets the number of cached bio components.
func WithBioCacheSize(size int) ConfigOption {
	return func(c *Config) {
		c.BioCacheSize = size
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns a Config for a badger database with default sizes.
// Path is left empty and must be set unless the database is in memory.
func DefaultConfig() *Config {
	return &Config{
		Backend:        storage.KeyedBackend,
		BatchSize:      storage.DefaultBatchSize,
		SearchPoolSize: search.DefaultPoolSize,
		BioCacheSize:   profile.DefaultCacheSize,
		Logger:         slog.Default(),
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBackend(storage.RelationalBackend),
//	    WithPath("/var/lib/app/db"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
// A nil Logger is replaced with slog.Default().
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	switch c.Backend {
	case storage.KeyedBackend, storage.RelationalBackend:
	default:
		return errors.New("config: Backend must be badger or sqlite")
	}
	if c.Path == "" && !c.InMemory {
		return errors.New("config: Path is required for an on-disk database")
	}
	if c.BatchSize < 1 {
		return errors.New("config: BatchSize must be positive")
	}
	if c.SearchPoolSize < 1 {
		return errors.New("config: SearchPoolSize must be positive")
	}
	if c.BioCacheSize < 1 {
		return errors.New("config: BioCacheSize must be positive")
	}
	return nil
}
