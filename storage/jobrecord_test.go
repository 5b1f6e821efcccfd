package storage

import (
	"testing"

	"github.com/poiesic/modelstore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobRecordFixtures() []*core.JobRecord {
	generic := core.NewJobRecord(core.JobKindGeneric, "generic")
	generic.FailureCount = 3
	generic.Status = core.JobStatusPermanentlyFailed

	sender := core.NewJobRecord(core.JobKindMessageSender, "send")
	sender.MessageSender.MessageID = "msg-1"
	sender.MessageSender.ThreadID = "thread-1"
	sender.MessageSender.RemoveMessageAfterSending = true

	invisible := core.NewJobRecord(core.JobKindMessageSender, "send-invisible")
	invisible.MessageSender.InvisibleMessage = []byte("typing")

	broadcast := core.NewJobRecord(core.JobKindBroadcastMedia, "broadcast")
	broadcast.BroadcastMedia.AttachmentIDMap["att-1"] = []string{"m-1", "m-2"}
	broadcast.RowID = 44

	reset := core.NewJobRecord(core.JobKindSessionReset, "reset")
	reset.SessionReset.ContactThreadID = "c+15551234567"
	reset.Status = core.JobStatusRunning

	decrypt := core.NewJobRecord(core.JobKindMessageDecrypt, "decrypt")
	decrypt.MessageDecrypt.EnvelopeData = []byte{1, 2, 3, 4}

	sync := core.NewJobRecord(core.JobKindIncomingContactSync, "sync")
	sync.IncomingContactSync.AttachmentID = "att-9"

	return []*core.JobRecord{generic, sender, invisible, broadcast, reset, decrypt, sync}
}

func TestJobRecordSerializer_RoundTrip(t *testing.T) {
	for _, job := range jobRecordFixtures() {
		t.Run(job.Label, func(t *testing.T) {
			rec, err := JobRecordSerializer{}.ToRecord(job)
			require.NoError(t, err)
			require.Len(t, rec.Values, len(jobRecordColumns))

			got, err := JobRecordSerializer{}.FromRecord(rec)
			require.NoError(t, err)
			assert.Equal(t, job, got)
		})
	}
}

func TestJobRecordSerializer_OnlyOwnColumnsSet(t *testing.T) {
	owned := map[RecordType][]int{
		RecordTypeJobRecord:                      nil,
		RecordTypeMessageSenderJobRecord:         {jobColMessageID, jobColThreadID, jobColRemoveMessageAfterSending},
		RecordTypeBroadcastMediaMessageJobRecord: {jobColAttachmentIDMap},
		RecordTypeSessionResetJobRecord:          {jobColContactThreadID},
		RecordTypeMessageDecryptJobRecord:        {jobColEnvelopeData},
		RecordTypeIncomingContactSyncJobRecord:   {jobColAttachmentID},
	}

	for _, job := range jobRecordFixtures() {
		if job.Label == "send-invisible" {
			continue
		}
		t.Run(job.Label, func(t *testing.T) {
			rec, err := JobRecordSerializer{}.ToRecord(job)
			require.NoError(t, err)

			want := map[int]bool{jobColFailureCount: true, jobColLabel: true, jobColStatus: true}
			for _, i := range owned[rec.RecordType] {
				want[i] = true
			}
			for i, v := range rec.Values {
				if want[i] {
					assert.NotNil(t, v, jobRecordColumns[i].Name)
				} else {
					assert.Nil(t, v, jobRecordColumns[i].Name)
				}
			}
		})
	}
}

func TestJobRecordSerializer_Errors(t *testing.T) {
	generic, err := JobRecordSerializer{}.ToRecord(core.NewJobRecord(core.JobKindGeneric, "x"))
	require.NoError(t, err)

	for _, rt := range []RecordType{
		RecordTypeMessageSenderJobRecord,
		RecordTypeBroadcastMediaMessageJobRecord,
		RecordTypeSessionResetJobRecord,
		RecordTypeMessageDecryptJobRecord,
		RecordTypeIncomingContactSyncJobRecord,
	} {
		rec := generic
		rec.RecordType = rt
		_, err := JobRecordSerializer{}.FromRecord(rec)
		assert.ErrorIs(t, err, ErrSerializationInvariant, "record type %d", rt)
	}

	rec := generic
	rec.RecordType = 3
	_, err = JobRecordSerializer{}.FromRecord(rec)
	assert.ErrorIs(t, err, ErrUnknownRecordType)

	_, err = JobRecordSerializer{}.ToRecord(&core.JobRecord{UniqueID: "x", Kind: core.JobKindSessionReset})
	assert.ErrorIs(t, err, core.ErrKindMismatch)
}
