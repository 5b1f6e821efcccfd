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

	"github.com/poiesic/modelstore/core"
)

// Job record family discriminators.
const (
	RecordTypeJobRecord                      RecordType = 10
	RecordTypeMessageSenderJobRecord         RecordType = 11
	RecordTypeBroadcastMediaMessageJobRecord RecordType = 12
	RecordTypeSessionResetJobRecord          RecordType = 13
	RecordTypeMessageDecryptJobRecord        RecordType = 14
	RecordTypeIncomingContactSyncJobRecord   RecordType = 15
)

// Job record family storage names.
const (
	JobRecordCollection = "SSKJobRecord"
	JobRecordTable      = "model_SSKJobRecord"
)

// Job record columns that refer to a thread.
const (
	JobRecordColumnThreadID        = "threadId"
	JobRecordColumnContactThreadID = "contactThreadId"
)

const (
	jobColFailureCount = iota
	jobColLabel
	jobColStatus
	jobColAttachmentIDMap
	jobColContactThreadID
	jobColEnvelopeData
	jobColInvisibleMessage
	jobColMessageID
	jobColRemoveMessageAfterSending
	jobColThreadID
	jobColAttachmentID
	jobColumnCount
)

var jobRecordColumns = []Column{
	jobColFailureCount:              {Name: "failureCount", Type: ColumnInt64},
	jobColLabel:                     {Name: "label", Type: ColumnText},
	jobColStatus:                    {Name: "status", Type: ColumnInt64},
	jobColAttachmentIDMap:           {Name: "attachmentIdMap", Type: ColumnBlob, Optional: true},
	jobColContactThreadID:           {Name: JobRecordColumnContactThreadID, Type: ColumnText, Optional: true},
	jobColEnvelopeData:              {Name: "envelopeData", Type: ColumnBlob, Optional: true},
	jobColInvisibleMessage:          {Name: "invisibleMessage", Type: ColumnBlob, Optional: true},
	jobColMessageID:                 {Name: "messageId", Type: ColumnText, Optional: true},
	jobColRemoveMessageAfterSending: {Name: "removeMessageAfterSending", Type: ColumnBool, Optional: true},
	jobColThreadID:                  {Name: JobRecordColumnThreadID, Type: ColumnText, Optional: true},
	jobColAttachmentID:              {Name: "attachmentId", Type: ColumnText, Optional: true},
}

var jobRecordTypes = map[core.JobKind]RecordType{
	core.JobKindGeneric:             RecordTypeJobRecord,
	core.JobKindMessageSender:       RecordTypeMessageSenderJobRecord,
	core.JobKindBroadcastMedia:      RecordTypeBroadcastMediaMessageJobRecord,
	core.JobKindSessionReset:        RecordTypeSessionResetJobRecord,
	core.JobKindMessageDecrypt:      RecordTypeMessageDecryptJobRecord,
	core.JobKindIncomingContactSync: RecordTypeIncomingContactSyncJobRecord,
}

// JobRecordType returns the discriminator stored for a job kind.
func JobRecordType(kind core.JobKind) (RecordType, error) {
	rt, ok := jobRecordTypes[kind]
	if !ok {
		return 0, fmt.Errorf("%w: job kind %d", core.ErrInvalidKind, kind)
	}
	return rt, nil
}

// JobRecordSerializer maps job records to rows of the job record table.
type JobRecordSerializer struct{}

var _ Serializer[*core.JobRecord] = JobRecordSerializer{}

// ToRecord flattens a job record. Only the columns of the record's kind are non-NULL.
func (JobRecordSerializer) ToRecord(j *core.JobRecord) (Record, error) {
	recordType, err := JobRecordType(j.Kind)
	if err != nil {
		return Record{}, err
	}

	values := make([]any, jobColumnCount)
	values[jobColFailureCount] = int64(j.FailureCount)
	values[jobColLabel] = j.Label
	values[jobColStatus] = int64(j.Status)

	switch recordType {
	case RecordTypeMessageSenderJobRecord:
		if j.MessageSender == nil {
			return Record{}, missingVariant(j.Kind)
		}
		values[jobColMessageID] = optionalText(j.MessageSender.MessageID)
		values[jobColThreadID] = optionalText(j.MessageSender.ThreadID)
		values[jobColInvisibleMessage] = optionalBlob(j.MessageSender.InvisibleMessage)
		values[jobColRemoveMessageAfterSending] = j.MessageSender.RemoveMessageAfterSending
	case RecordTypeBroadcastMediaMessageJobRecord:
		if j.BroadcastMedia == nil {
			return Record{}, missingVariant(j.Kind)
		}
		blob, err := MarshalBlob(j.BroadcastMedia.AttachmentIDMap)
		if err != nil {
			return Record{}, fmt.Errorf("attachment id map: %w", err)
		}
		values[jobColAttachmentIDMap] = blob
	case RecordTypeSessionResetJobRecord:
		if j.SessionReset == nil {
			return Record{}, missingVariant(j.Kind)
		}
		values[jobColContactThreadID] = j.SessionReset.ContactThreadID
	case RecordTypeMessageDecryptJobRecord:
		if j.MessageDecrypt == nil {
			return Record{}, missingVariant(j.Kind)
		}
		values[jobColEnvelopeData] = optionalBlob(j.MessageDecrypt.EnvelopeData)
	case RecordTypeIncomingContactSyncJobRecord:
		if j.IncomingContactSync == nil {
			return Record{}, missingVariant(j.Kind)
		}
		values[jobColAttachmentID] = j.IncomingContactSync.AttachmentID
	}

	return Record{
		ID:         j.RowID,
		RecordType: recordType,
		UniqueID:   j.UniqueID,
		Values:     values,
	}, nil
}

// FromRecord rebuilds a job record from a row of the job record table.
func (JobRecordSerializer) FromRecord(rec Record) (*core.JobRecord, error) {
	rr := newRowReader(rec, jobRecordColumns)
	j := &core.JobRecord{
		RowID:        rec.ID,
		UniqueID:     rec.UniqueID,
		FailureCount: uint64(rr.int64(jobColFailureCount)),
		Label:        rr.text(jobColLabel),
		Status:       core.JobStatus(rr.int64(jobColStatus)),
	}

	switch rec.RecordType {
	case RecordTypeJobRecord:
		j.Kind = core.JobKindGeneric
	case RecordTypeMessageSenderJobRecord:
		j.Kind = core.JobKindMessageSender
		j.MessageSender = &core.MessageSenderJob{
			RemoveMessageAfterSending: rr.bool(jobColRemoveMessageAfterSending),
		}
		j.MessageSender.MessageID, _ = rec.Text(jobColMessageID)
		j.MessageSender.ThreadID, _ = rec.Text(jobColThreadID)
		j.MessageSender.InvisibleMessage, _ = rec.Blob(jobColInvisibleMessage)
	case RecordTypeBroadcastMediaMessageJobRecord:
		j.Kind = core.JobKindBroadcastMedia
		blob := rr.blob(jobColAttachmentIDMap)
		if rr.err == nil {
			j.BroadcastMedia = &core.BroadcastMediaJob{}
			if err := UnmarshalBlob(blob, &j.BroadcastMedia.AttachmentIDMap); err != nil {
				return nil, fmt.Errorf("attachment id map: %w", err)
			}
		}
	case RecordTypeSessionResetJobRecord:
		j.Kind = core.JobKindSessionReset
		j.SessionReset = &core.SessionResetJob{ContactThreadID: rr.text(jobColContactThreadID)}
	case RecordTypeMessageDecryptJobRecord:
		j.Kind = core.JobKindMessageDecrypt
		j.MessageDecrypt = &core.MessageDecryptJob{EnvelopeData: rr.blob(jobColEnvelopeData)}
	case RecordTypeIncomingContactSyncJobRecord:
		j.Kind = core.JobKindIncomingContactSync
		j.IncomingContactSync = &core.IncomingContactSyncJob{AttachmentID: rr.text(jobColAttachmentID)}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownRecordType, rec.RecordType)
	}

	if rr.err != nil {
		return nil, rr.err
	}
	return j, nil
}

func missingVariant(kind core.JobKind) error {
	return fmt.Errorf("%w: %s job record without its attributes", core.ErrKindMismatch, kind)
}

// JobRecordFamily describes the job record family. Job records are not search-indexed.
func JobRecordFamily() Family[*core.JobRecord] {
	return Family[*core.JobRecord]{
		Collection: JobRecordCollection,
		Table:      JobRecordTable,
		Columns:    jobRecordColumns,
		RecordTypes: []RecordType{
			RecordTypeJobRecord,
			RecordTypeMessageSenderJobRecord,
			RecordTypeBroadcastMediaMessageJobRecord,
			RecordTypeSessionResetJobRecord,
			RecordTypeMessageDecryptJobRecord,
			RecordTypeIncomingContactSyncJobRecord,
		},
		Serializer: JobRecordSerializer{},
		Validate:   core.ValidateJobRecord,
	}
}
