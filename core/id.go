package core

import (
	"encoding/base64"

	"github.com/google/uuid"
)

const (
	contactThreadPrefix = "c"
	groupThreadPrefix   = "g"
)

// NewUniqueID returns a fresh random unique ID for a model.
func NewUniqueID() string {
	return uuid.NewString()
}

// ContactThreadUniqueID returns the deterministic unique ID of the contact
// thread for a phone number, so there is at most one thread per contact.
func ContactThreadUniqueID(phoneNumber string) string {
	return contactThreadPrefix + phoneNumber
}

// GroupThreadUniqueID returns the deterministic unique ID of the thread for a group.
func GroupThreadUniqueID(groupID []byte) string {
	return groupThreadPrefix + base64.StdEncoding.EncodeToString(groupID)
}

// NewThread creates an unpersisted plain thread.
func NewThread() *Thread {
	return &Thread{
		UniqueID:              NewUniqueID(),
		Kind:                  ThreadKindPlain,
		ShouldThreadBeVisible: true,
	}
}

// NewContactThread creates an unpersisted thread with a contact.
func NewContactThread(phoneNumber, contactUUID string) *Thread {
	return &Thread{
		UniqueID:              ContactThreadUniqueID(phoneNumber),
		Kind:                  ThreadKindContact,
		ShouldThreadBeVisible: true,
		Contact: &ContactThread{
			PhoneNumber: phoneNumber,
			UUID:        contactUUID,
		},
	}
}

// NewGroupThread creates an unpersisted thread for a group.
func NewGroupThread(model GroupModel) *Thread {
	return &Thread{
		UniqueID:              GroupThreadUniqueID(model.GroupID),
		Kind:                  ThreadKindGroup,
		ShouldThreadBeVisible: true,
		Group:                 &GroupThread{Model: model},
	}
}

// NewJobRecord creates an unpersisted job record of the given kind with
// status ready. Kind-specific attributes are left for the caller to fill in.
func NewJobRecord(kind JobKind, label string) *JobRecord {
	j := &JobRecord{
		UniqueID: NewUniqueID(),
		Kind:     kind,
		Label:    label,
		Status:   JobStatusReady,
	}
	switch kind {
	case JobKindMessageSender:
		j.MessageSender = &MessageSenderJob{}
	case JobKindBroadcastMedia:
		j.BroadcastMedia = &BroadcastMediaJob{AttachmentIDMap: map[string][]string{}}
	case JobKindSessionReset:
		j.SessionReset = &SessionResetJob{}
	case JobKindMessageDecrypt:
		j.MessageDecrypt = &MessageDecryptJob{}
	case JobKindIncomingContactSync:
		j.IncomingContactSync = &IncomingContactSyncJob{}
	}
	return j
}
