package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRecord(t *testing.T) {
	rec := Record{
		ID:         7,
		RecordType: 3,
		UniqueID:   "thread-1",
		Values:     []any{nil, int64(-42), true, "draft", []byte{0, 1, 2}, false, ""},
	}

	data, err := MarshalRecord(rec)
	require.NoError(t, err)

	decoded, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestUnmarshalRecord_Invalid(t *testing.T) {
	valid, err := MarshalRecord(Record{
		RecordType: 1,
		UniqueID:   "x",
		Values:     []any{[]byte("payload"), "text"},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", valid[:len(valid)-3]},
		{"unknown tag", append(append([]byte{}, valid[:4]...), 0x02, 0x7f)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRecord(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestMarshalRecord_UnsupportedType(t *testing.T) {
	_, err := MarshalRecord(Record{UniqueID: "x", Values: []any{3.14}})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalBlob(t *testing.T) {
	in := map[string][]string{
		"a1": {"m1", "m2"},
		"a2": {"m3"},
	}
	data, err := MarshalBlob(in)
	require.NoError(t, err)

	var out map[string][]string
	require.NoError(t, UnmarshalBlob(data, &out))
	assert.Equal(t, in, out)

	again, err := MarshalBlob(out)
	require.NoError(t, err)
	assert.Equal(t, data, again, "canonical encoding is stable")
}

func TestUnmarshalBlob_Invalid(t *testing.T) {
	var out map[string][]string
	err := UnmarshalBlob([]byte{0xff, 0x00}, &out)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
