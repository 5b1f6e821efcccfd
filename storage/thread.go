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

// Thread family discriminators.
const (
	RecordTypeThread        RecordType = 1
	RecordTypeContactThread RecordType = 2
	RecordTypeGroupThread   RecordType = 3
)

// Thread family storage names.
const (
	ThreadCollection = "TSThread"
	ThreadTable      = "model_TSThread"
)

// Thread column positions within Record.Values.
const (
	threadColConversationColorName = iota
	threadColCreationDate
	threadColIsArchived
	threadColLastInteractionRowID
	threadColMessageDraft
	threadColMutedUntilDate
	threadColShouldThreadBeVisible
	threadColContactPhoneNumber
	threadColContactUUID
	threadColGroupModel
	threadColHasDismissedOffers
	threadColumnCount
)

var threadColumns = []Column{
	threadColConversationColorName: {Name: "conversationColorName", Type: ColumnText},
	threadColCreationDate:          {Name: "creationDate", Type: ColumnInt64, Optional: true},
	threadColIsArchived:            {Name: "isArchived", Type: ColumnBool},
	threadColLastInteractionRowID:  {Name: "lastInteractionRowId", Type: ColumnInt64},
	threadColMessageDraft:          {Name: "messageDraft", Type: ColumnText, Optional: true},
	threadColMutedUntilDate:        {Name: "mutedUntilDate", Type: ColumnInt64, Optional: true},
	threadColShouldThreadBeVisible: {Name: "shouldThreadBeVisible", Type: ColumnBool},
	threadColContactPhoneNumber:    {Name: "contactPhoneNumber", Type: ColumnText, Optional: true},
	threadColContactUUID:           {Name: "contactUUID", Type: ColumnText, Optional: true},
	threadColGroupModel:            {Name: "groupModel", Type: ColumnBlob, Optional: true},
	threadColHasDismissedOffers:    {Name: "hasDismissedOffers", Type: ColumnBool, Optional: true},
}

// ThreadRecordType returns the discriminator stored for a thread kind.
func ThreadRecordType(kind core.ThreadKind) (RecordType, error) {
	switch kind {
	case core.ThreadKindPlain:
		return RecordTypeThread, nil
	case core.ThreadKindContact:
		return RecordTypeContactThread, nil
	case core.ThreadKindGroup:
		return RecordTypeGroupThread, nil
	default:
		return 0, fmt.Errorf("%w: thread kind %d", core.ErrInvalidKind, kind)
	}
}

// ThreadSerializer maps threads to rows of the thread table.
type ThreadSerializer struct{}

var _ Serializer[*core.Thread] = ThreadSerializer{}

// ToRecord flattens a thread. Contact and group columns are NULL unless the
// thread is of that kind.
func (ThreadSerializer) ToRecord(t *core.Thread) (Record, error) {
	recordType, err := ThreadRecordType(t.Kind)
	if err != nil {
		return Record{}, err
	}

	values := make([]any, threadColumnCount)
	values[threadColConversationColorName] = t.ConversationColorName
	values[threadColCreationDate] = optionalDate(t.CreationDate)
	values[threadColIsArchived] = t.IsArchived
	values[threadColLastInteractionRowID] = t.LastInteractionRowID
	values[threadColMessageDraft] = optionalText(t.MessageDraft)
	values[threadColMutedUntilDate] = optionalDate(t.MutedUntilDate)
	values[threadColShouldThreadBeVisible] = t.ShouldThreadBeVisible

	switch recordType {
	case RecordTypeContactThread:
		if t.Contact == nil {
			return Record{}, fmt.Errorf("%w: contact thread without contact", core.ErrKindMismatch)
		}
		values[threadColContactPhoneNumber] = optionalText(t.Contact.PhoneNumber)
		values[threadColContactUUID] = optionalText(t.Contact.UUID)
		values[threadColHasDismissedOffers] = t.Contact.HasDismissedOffers
	case RecordTypeGroupThread:
		if t.Group == nil {
			return Record{}, fmt.Errorf("%w: group thread without group", core.ErrKindMismatch)
		}
		blob, err := MarshalBlob(t.Group.Model)
		if err != nil {
			return Record{}, fmt.Errorf("group model: %w", err)
		}
		values[threadColGroupModel] = blob
	}

	return Record{
		ID:         t.RowID,
		RecordType: recordType,
		UniqueID:   t.UniqueID,
		Values:     values,
	}, nil
}

// FromRecord rebuilds a thread from a row of the thread table.
func (ThreadSerializer) FromRecord(rec Record) (*core.Thread, error) {
	rr := newRowReader(rec, threadColumns)
	t := &core.Thread{
		RowID:                 rec.ID,
		UniqueID:              rec.UniqueID,
		ConversationColorName: rr.text(threadColConversationColorName),
		CreationDate:          rec.Date(threadColCreationDate),
		IsArchived:            rr.bool(threadColIsArchived),
		LastInteractionRowID:  rr.int64(threadColLastInteractionRowID),
		MutedUntilDate:        rec.Date(threadColMutedUntilDate),
		ShouldThreadBeVisible: rr.bool(threadColShouldThreadBeVisible),
	}
	t.MessageDraft, _ = rec.Text(threadColMessageDraft)

	switch rec.RecordType {
	case RecordTypeThread:
		t.Kind = core.ThreadKindPlain
	case RecordTypeContactThread:
		t.Kind = core.ThreadKindContact
		t.Contact = &core.ContactThread{
			HasDismissedOffers: rr.bool(threadColHasDismissedOffers),
		}
		t.Contact.PhoneNumber, _ = rec.Text(threadColContactPhoneNumber)
		t.Contact.UUID, _ = rec.Text(threadColContactUUID)
	case RecordTypeGroupThread:
		t.Kind = core.ThreadKindGroup
		blob := rr.blob(threadColGroupModel)
		if rr.err == nil {
			t.Group = &core.GroupThread{}
			if err := UnmarshalBlob(blob, &t.Group.Model); err != nil {
				return nil, fmt.Errorf("group model: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownRecordType, rec.RecordType)
	}

	if rr.err != nil {
		return nil, rr.err
	}
	return t, nil
}

// ThreadFamily describes the search-indexed thread family.
func ThreadFamily() Family[*core.Thread] {
	return Family[*core.Thread]{
		Collection:    ThreadCollection,
		Table:         ThreadTable,
		Columns:       threadColumns,
		RecordTypes:   []RecordType{RecordTypeThread, RecordTypeContactThread, RecordTypeGroupThread},
		Serializer:    ThreadSerializer{},
		SearchIndexed: true,
		Validate:      core.ValidateThread,
	}
}
