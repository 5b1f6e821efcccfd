package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFilter(t *testing.T, opts ...Option) *DisplayFilter {
	t.Helper()
	f, err := NewDisplayFilter(opts...)
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func TestNewDisplayFilter_InvalidCacheSize(t *testing.T) {
	_, err := NewDisplayFilter(WithCacheSize(0))
	assert.Error(t, err)
}

func TestBioForDisplay(t *testing.T) {
	f := newTestFilter(t)

	tests := []struct {
		name  string
		bio   string
		emoji string
		want  string
	}{
		{name: "empty", want: ""},
		{name: "whitespace only", bio: "   \t ", emoji: " ", want: ""},
		{name: "bio only", bio: "  hello world  ", want: "hello world"},
		{name: "emoji only", emoji: "\U0001F600", want: "\U0001F600"},
		{name: "emoji first", bio: "bio", emoji: "\U0001F600", want: "\U0001F600 bio"},
		{name: "emoji trimmed to one glyph", bio: "bio", emoji: "\U0001F600\U0001F603", want: "\U0001F600 bio"},
		{name: "zwj sequence is one glyph", emoji: "\U0001F468\u200d\U0001F469\u200d\U0001F467x", want: "\U0001F468\u200d\U0001F469\u200d\U0001F467"},
		{name: "bidi overrides stripped", bio: "\u202ehello\u202c", want: "hello"},
		{name: "control characters stripped", bio: "a\x00b\x07c", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.BioForDisplay(tt.bio, tt.emoji))
		})
	}
}

func TestBioForDisplay_GlyphLimit(t *testing.T) {
	f := newTestFilter(t)

	got := f.BioForDisplay(strings.Repeat("a", 200), "")
	assert.Equal(t, strings.Repeat("a", MaxBioLengthGlyphs), got)
}

func TestBioForDisplay_ByteLimit(t *testing.T) {
	f := newTestFilter(t)

	// 140 four-byte glyphs exceed the byte limit.
	got := f.BioForDisplay(strings.Repeat("\U0001F600", 200), "")
	assert.Equal(t, strings.Repeat("\U0001F600", MaxBioLengthBytes/4), got)
	assert.LessOrEqual(t, len(got), MaxBioLengthBytes)
}

func TestFilterComponent_Cached(t *testing.T) {
	f := newTestFilter(t)

	first := f.FilterComponent(" cached ", MaxBioLengthGlyphs, MaxBioLengthBytes)
	f.cache.Wait()
	second := f.FilterComponent(" cached ", MaxBioLengthGlyphs, MaxBioLengthBytes)

	assert.Equal(t, "cached", first)
	assert.Equal(t, first, second)
	assert.Equal(t, uint64(1), f.CacheHits())
}

func TestFilterComponent_LimitsArePartOfKey(t *testing.T) {
	f := newTestFilter(t)

	assert.Equal(t, "abc", f.FilterComponent("abc", 3, 32))
	f.cache.Wait()
	assert.Equal(t, "a", f.FilterComponent("abc", 1, 32))
}

func TestTrimToGlyphCount(t *testing.T) {
	assert.Equal(t, "", TrimToGlyphCount("abc", 0))
	assert.Equal(t, "ab", TrimToGlyphCount("abc", 2))
	assert.Equal(t, "abc", TrimToGlyphCount("abc", 5))
	assert.Equal(t, "e\u0301", TrimToGlyphCount("e\u0301e\u0301", 1))
}

func TestTrimToUTF8ByteCount(t *testing.T) {
	assert.Equal(t, "abc", TrimToUTF8ByteCount("abc", 3))
	assert.Equal(t, "ab", TrimToUTF8ByteCount("abc", 2))
	// A combining sequence is kept whole or dropped whole.
	assert.Equal(t, "e\u0301", TrimToUTF8ByteCount("e\u0301e\u0301", 4))
	assert.Equal(t, "", TrimToUTF8ByteCount("e\u0301", 2))
}

func TestFilterForDisplay(t *testing.T) {
	assert.Equal(t, "line one\nline two", FilterForDisplay(" line one\nline two\n"))
	assert.Equal(t, "ab", FilterForDisplay("a\u200eb\u2066"))
}
