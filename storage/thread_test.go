package storage

import (
	"testing"
	"time"

	"github.com/poiesic/modelstore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadSerializer_RoundTrip(t *testing.T) {
	created := time.UnixMilli(1709296200123).UTC()
	muted := time.UnixMilli(1893456000000).UTC()

	contact := core.NewContactThread("+15551234567", "8f14e45f-ceea-467f-a0e6-1f5c2e1a9f3b")
	contact.RowID = 12
	contact.Contact.HasDismissedOffers = true
	contact.MutedUntilDate = &muted

	group := core.NewGroupThread(core.GroupModel{
		GroupID:    []byte{0xca, 0xfe},
		Name:       "Climbing",
		Members:    []string{"+15550000001", "+15550000002"},
		AvatarHash: "abc123",
	})
	group.IsArchived = true
	group.LastInteractionRowID = 99

	plain := core.NewThread()
	plain.ConversationColorName = "crimson"
	plain.CreationDate = &created
	plain.MessageDraft = "half-written"

	for _, th := range []*core.Thread{plain, contact, group} {
		t.Run(th.Kind.String(), func(t *testing.T) {
			rec, err := ThreadSerializer{}.ToRecord(th)
			require.NoError(t, err)
			require.Len(t, rec.Values, len(threadColumns))

			got, err := ThreadSerializer{}.FromRecord(rec)
			require.NoError(t, err)
			assert.Equal(t, th, got)
		})
	}
}

func TestThreadSerializer_InapplicableColumnsAreNull(t *testing.T) {
	th := core.NewThread()
	rec, err := ThreadSerializer{}.ToRecord(th)
	require.NoError(t, err)

	assert.Equal(t, RecordTypeThread, rec.RecordType)
	for _, i := range []int{
		threadColCreationDate,
		threadColMessageDraft,
		threadColMutedUntilDate,
		threadColContactPhoneNumber,
		threadColContactUUID,
		threadColGroupModel,
		threadColHasDismissedOffers,
	} {
		assert.Nil(t, rec.Values[i], threadColumns[i].Name)
	}

	got, err := ThreadSerializer{}.FromRecord(rec)
	require.NoError(t, err)
	assert.Nil(t, got.Contact)
	assert.Nil(t, got.Group)
	assert.Nil(t, got.CreationDate)
}

func TestThreadSerializer_ContactRowIgnoresGroupColumn(t *testing.T) {
	th := core.NewContactThread("+15551234567", "")
	th.Contact.HasDismissedOffers = false
	rec, err := ThreadSerializer{}.ToRecord(th)
	require.NoError(t, err)

	blob, err := MarshalBlob(core.GroupModel{GroupID: []byte{1}})
	require.NoError(t, err)
	rec.Values[threadColGroupModel] = blob

	got, err := ThreadSerializer{}.FromRecord(rec)
	require.NoError(t, err)
	assert.Nil(t, got.Group)
	assert.NotNil(t, got.Contact)
}

func TestThreadSerializer_Errors(t *testing.T) {
	valid, err := ThreadSerializer{}.ToRecord(core.NewThread())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
	}{
		{
			name:    "unknown record type",
			mutate:  func(r *Record) { r.RecordType = 42 },
			wantErr: ErrUnknownRecordType,
		},
		{
			name: "group row without group model",
			mutate: func(r *Record) {
				r.RecordType = RecordTypeGroupThread
			},
			wantErr: ErrSerializationInvariant,
		},
		{
			name: "contact row without dismissed offers flag",
			mutate: func(r *Record) {
				r.RecordType = RecordTypeContactThread
			},
			wantErr: ErrSerializationInvariant,
		},
		{
			name:    "missing required common column",
			mutate:  func(r *Record) { r.Values[threadColIsArchived] = nil },
			wantErr: ErrSerializationInvariant,
		},
		{
			name: "corrupt group model",
			mutate: func(r *Record) {
				r.RecordType = RecordTypeGroupThread
				r.Values[threadColGroupModel] = []byte{0xff}
			},
			wantErr: ErrSerializationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			rec.Values = append([]any(nil), valid.Values...)
			tt.mutate(&rec)

			_, err := ThreadSerializer{}.FromRecord(rec)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestThreadSerializer_KindWithoutAttributes(t *testing.T) {
	_, err := ThreadSerializer{}.ToRecord(&core.Thread{UniqueID: "x", Kind: core.ThreadKindGroup})
	assert.ErrorIs(t, err, core.ErrKindMismatch)

	_, err = ThreadSerializer{}.ToRecord(&core.Thread{UniqueID: "x", Kind: core.ThreadKind(9)})
	assert.ErrorIs(t, err, core.ErrInvalidKind)
}

func TestSkippedRowsError(t *testing.T) {
	err := skipped{
		{UniqueID: "a", Err: ErrUnknownRecordType},
		{UniqueID: "b", Err: ErrSerializationInvariant},
	}.err()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRecordType)
	assert.ErrorIs(t, err, ErrSerializationInvariant)
	assert.Contains(t, err.Error(), "skipped 2 rows")
	assert.NoError(t, skipped(nil).err())
}
