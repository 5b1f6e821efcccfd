// Package profile formats user profile values for display.
package profile

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rivo/uniseg"
)

// Bio length limits. Glyphs are extended grapheme clusters.
const (
	MaxBioLengthGlyphs      = 140
	MaxBioLengthBytes       = 512
	MaxBioEmojiLengthGlyphs = 1
	MaxBioEmojiLengthBytes  = 32
)

// DefaultCacheSize is the default number of filtered components kept.
const DefaultCacheSize = 256

// DisplayFilter filters and trims profile bio components for display.
// Filtered components are kept in a bounded cache owned by the filter.
// It is safe for concurrent use.
type DisplayFilter struct {
	cache     *ristretto.Cache[string, string]
	cacheSize int64
	logger    *slog.Logger
}

// Option configures a DisplayFilter.
type Option func(*DisplayFilter) error

// WithCacheSize sets the maximum number of cached components.
func WithCacheSize(size int) Option {
	return func(f *DisplayFilter) error {
		if size < 1 {
			return fmt.Errorf("cache size must be positive, got %d", size)
		}
		f.cacheSize = int64(size)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *DisplayFilter) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewDisplayFilter creates a filter with its own cache.
func NewDisplayFilter(opts ...Option) (*DisplayFilter, error) {
	f := &DisplayFilter{
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters:        f.cacheSize * 10,
		MaxCost:            f.cacheSize,
		BufferItems:        64,
		IgnoreInternalCost: true,
		Metrics:            true,
	})
	if err != nil {
		return nil, err
	}
	f.cache = cache
	return f, nil
}

// Close releases the cache.
func (f *DisplayFilter) Close() {
	f.cache.Close()
}

// BioForDisplay joins the filtered emoji and bio with a space. Components
// that are empty after filtering are left out; if both are, the result is "".
func (f *DisplayFilter) BioForDisplay(bio, emoji string) string {
	components := make([]string, 0, 2)
	if e := f.FilterComponent(emoji, MaxBioEmojiLengthGlyphs, MaxBioEmojiLengthBytes); e != "" {
		components = append(components, e)
	}
	if b := f.FilterComponent(bio, MaxBioLengthGlyphs, MaxBioLengthBytes); b != "" {
		components = append(components, b)
	}
	return strings.Join(components, " ")
}

// FilterComponent strips characters unsafe for display from input, trims
// surrounding whitespace and then truncates it to maxGlyphs grapheme clusters
// and maxBytes bytes of UTF-8, never splitting a cluster.
func (f *DisplayFilter) FilterComponent(input string, maxGlyphs, maxBytes int) string {
	if input == "" {
		return ""
	}
	key := fmt.Sprintf("%d-%d-%s", maxGlyphs, maxBytes, input)
	if value, ok := f.cache.Get(key); ok {
		return value
	}

	value := TrimToUTF8ByteCount(TrimToGlyphCount(FilterForDisplay(input), maxGlyphs), maxBytes)
	if !f.cache.Set(key, value, 1) {
		f.logger.Debug("bio component not cached", "length", len(input))
	}
	return value
}

// CacheHits returns the number of cache hits so far.
func (f *DisplayFilter) CacheHits() uint64 {
	return f.cache.Metrics.Hits()
}

// FilterForDisplay removes control and bidirectional formatting characters
// and trims surrounding whitespace. Zero-width joiners and variation selectors
// are kept.
func FilterForDisplay(s string) string {
	filtered := strings.Map(func(r rune) rune {
		switch {
		case r == '\u200d', r >= '\ufe00' && r <= '\ufe0f':
			return r
		case isBidiControl(r):
			return -1
		case unicode.IsControl(r) && !unicode.IsSpace(r):
			return -1
		default:
			return r
		}
	}, s)
	return strings.TrimSpace(filtered)
}

func isBidiControl(r rune) bool {
	return (r >= '\u202a' && r <= '\u202e') ||
		(r >= '\u2066' && r <= '\u2069') ||
		r == '\u200e' || r == '\u200f' || r == '\u061c'
}

// TrimToGlyphCount truncates s to at most n grapheme clusters.
func TrimToGlyphCount(s string, n int) string {
	if n <= 0 {
		return ""
	}
	rest := s
	state := -1
	for count := 0; rest != ""; count++ {
		if count == n {
			return s[:len(s)-len(rest)]
		}
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
	}
	return s
}

// TrimToUTF8ByteCount truncates s to at most n bytes without splitting a
// grapheme cluster.
func TrimToUTF8ByteCount(s string, n int) string {
	if len(s) <= n {
		return s
	}
	rest := s
	state := -1
	end := 0
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if end+len(cluster) > n {
			break
		}
		end += len(cluster)
	}
	return s[:end]
}
