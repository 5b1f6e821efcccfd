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

package storage

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Value tags of the keyed record encoding.
const (
	tagNull byte = iota
	tagInt64
	tagBool
	tagText
	tagBlob
)

var (
	blobEncMode cbor.EncMode
	blobDecMode cbor.DecMode
)

func init() {
	var err error
	blobEncMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	blobDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
}

// MarshalRecord serializes a Record to bytes for the keyed backend.
func MarshalRecord(rec Record) ([]byte, error) {
	size := varint.Int64.Size(rec.ID) +
		varint.Int64.Size(int64(rec.RecordType)) +
		ord.String.Size(rec.UniqueID) +
		varint.Int64.Size(int64(len(rec.Values)))
	for i, v := range rec.Values {
		n, err := valueSize(v)
		if err != nil {
			return nil, fmt.Errorf("%w: column %d: %w", ErrSerializationFailed, i, err)
		}
		size += n
	}

	buf := make([]byte, size)
	n := varint.Int64.Marshal(rec.ID, buf)
	n += varint.Int64.Marshal(int64(rec.RecordType), buf[n:])
	n += ord.String.Marshal(rec.UniqueID, buf[n:])
	n += varint.Int64.Marshal(int64(len(rec.Values)), buf[n:])
	for _, v := range rec.Values {
		n += marshalValue(v, buf[n:])
	}
	return buf[:n], nil
}

// UnmarshalRecord deserializes a Record written by MarshalRecord.
func UnmarshalRecord(data []byte) (Record, error) {
	var rec Record

	id, n, err := varint.Int64.Unmarshal(data)
	if err != nil {
		return rec, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	rec.ID = id

	recordType, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return rec, fmt.Errorf("%w: record type: %w", ErrSerializationFailed, err)
	}
	rec.RecordType = RecordType(recordType)
	n += m

	rec.UniqueID, m, err = ord.String.Unmarshal(data[n:])
	if err != nil {
		return rec, fmt.Errorf("%w: unique id: %w", ErrSerializationFailed, err)
	}
	n += m

	count, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return rec, fmt.Errorf("%w: value count: %w", ErrSerializationFailed, err)
	}
	n += m
	if count < 0 || count > int64(len(data)-n) {
		return rec, fmt.Errorf("%w: value count %d", ErrTruncatedData, count)
	}

	rec.Values = make([]any, count)
	for i := range rec.Values {
		rec.Values[i], m, err = unmarshalValue(data[n:])
		if err != nil {
			return rec, fmt.Errorf("column %d: %w", i, err)
		}
		n += m
	}
	return rec, nil
}

func valueSize(v any) (int, error) {
	switch v := v.(type) {
	case nil:
		return 1, nil
	case int64:
		return 1 + varint.Int64.Size(v), nil
	case bool:
		return 1 + ord.Bool.Size(v), nil
	case string:
		return 1 + ord.String.Size(v), nil
	case []byte:
		return 1 + varint.Int64.Size(int64(len(v))) + len(v), nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

func marshalValue(v any, buf []byte) int {
	switch v := v.(type) {
	case int64:
		buf[0] = tagInt64
		return 1 + varint.Int64.Marshal(v, buf[1:])
	case bool:
		buf[0] = tagBool
		return 1 + ord.Bool.Marshal(v, buf[1:])
	case string:
		buf[0] = tagText
		return 1 + ord.String.Marshal(v, buf[1:])
	case []byte:
		buf[0] = tagBlob
		n := 1 + varint.Int64.Marshal(int64(len(v)), buf[1:])
		return n + copy(buf[n:], v)
	default:
		buf[0] = tagNull
		return 1
	}
}

func unmarshalValue(data []byte) (any, int, error) {
	if len(data) == 0 {
		return nil, 0, ErrTruncatedData
	}
	switch data[0] {
	case tagNull:
		return nil, 1, nil
	case tagInt64:
		v, n, err := varint.Int64.Unmarshal(data[1:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		return v, 1 + n, nil
	case tagBool:
		v, n, err := ord.Bool.Unmarshal(data[1:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		return v, 1 + n, nil
	case tagText:
		v, n, err := ord.String.Unmarshal(data[1:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		return v, 1 + n, nil
	case tagBlob:
		length, n, err := varint.Int64.Unmarshal(data[1:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		start := 1 + n
		if length < 0 || length > int64(len(data)-start) {
			return nil, 0, ErrTruncatedData
		}
		v := make([]byte, length)
		copy(v, data[start:])
		return v, start + int(length), nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown value tag %d", ErrSerializationFailed, data[0])
	}
}

// MarshalBlob archives a nested value for a blob column.
func MarshalBlob(v any) ([]byte, error) {
	data, err := blobEncMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalBlob restores a value archived by MarshalBlob.
func UnmarshalBlob(data []byte, v any) error {
	if err := blobDecMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return nil
}
