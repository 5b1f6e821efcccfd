package core

import (
	"strings"
	"time"
)

// ThreadKind identifies the concrete kind of a Thread.
type ThreadKind int

const (
	// ThreadKindPlain is a thread with no contact or group attributes.
	ThreadKindPlain ThreadKind = iota + 1
	// ThreadKindContact is a one-to-one conversation with a contact.
	ThreadKindContact
	// ThreadKindGroup is a group conversation.
	ThreadKindGroup
)

// String returns the kind name used in logs and CLI output.
func (k ThreadKind) String() string {
	switch k {
	case ThreadKindPlain:
		return "thread"
	case ThreadKindContact:
		return "contact"
	case ThreadKindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Thread is a conversation thread. Kind selects which of Contact and Group is set;
// at most one of them is non-nil.
type Thread struct {
	RowID                 int64 // Assigned by the relational backend on insert, 0 otherwise
	UniqueID              string
	Kind                  ThreadKind
	ConversationColorName string
	CreationDate          *time.Time
	IsArchived            bool
	LastInteractionRowID  int64
	MessageDraft          string
	MutedUntilDate        *time.Time
	ShouldThreadBeVisible bool
	Contact               *ContactThread // Set iff Kind == ThreadKindContact
	Group                 *GroupThread   // Set iff Kind == ThreadKindGroup
}

// ContactThread holds the attributes only contact threads carry.
type ContactThread struct {
	PhoneNumber        string
	UUID               string
	HasDismissedOffers bool
}

// GroupThread holds the attributes only group threads carry.
type GroupThread struct {
	Model GroupModel
}

// GroupModel describes a group. It is persisted as a single archived blob.
type GroupModel struct {
	GroupID    []byte   `cbor:"1,keyasint"`
	Name       string   `cbor:"2,keyasint,omitempty"`
	Members    []string `cbor:"3,keyasint"`
	AvatarHash string   `cbor:"4,keyasint,omitempty"`
}

// ModelUniqueID returns the thread's unique ID.
func (t *Thread) ModelUniqueID() string {
	return t.UniqueID
}

// ModelRowID returns the backend-assigned row ID, or 0 if none was assigned.
func (t *Thread) ModelRowID() int64 {
	return t.RowID
}

// UpdateRowID records the row ID assigned on insert.
func (t *Thread) UpdateRowID(rowID int64) {
	t.RowID = rowID
}

// Normalize truncates the thread's dates to whole milliseconds in UTC, the
// precision storage keeps.
func (t *Thread) Normalize() {
	t.CreationDate = NormalizeDate(t.CreationDate)
	t.MutedUntilDate = NormalizeDate(t.MutedUntilDate)
}

// NormalizeDate returns d truncated to whole milliseconds in UTC, or nil.
func NormalizeDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	n := time.UnixMilli(d.UnixMilli()).UTC()
	return &n
}

// SearchText returns the text the full-text index keeps for this thread.
func (t *Thread) SearchText() string {
	parts := make([]string, 0, 3)
	if t.MessageDraft != "" {
		parts = append(parts, t.MessageDraft)
	}
	if t.Contact != nil && t.Contact.PhoneNumber != "" {
		parts = append(parts, t.Contact.PhoneNumber)
	}
	if t.Group != nil && t.Group.Model.Name != "" {
		parts = append(parts, t.Group.Model.Name)
	}
	return strings.Join(parts, " ")
}

// JobKind identifies the concrete kind of a JobRecord.
type JobKind int

const (
	// JobKindGeneric is a job record with no kind-specific attributes.
	JobKindGeneric JobKind = iota + 1
	// JobKindMessageSender sends an outgoing message.
	JobKindMessageSender
	// JobKindBroadcastMedia uploads media shared by several messages.
	JobKindBroadcastMedia
	// JobKindSessionReset resets a session with a contact.
	JobKindSessionReset
	// JobKindMessageDecrypt decrypts an incoming envelope.
	JobKindMessageDecrypt
	// JobKindIncomingContactSync processes a contact sync attachment.
	JobKindIncomingContactSync
)

// String returns the kind name used in logs and CLI output.
func (k JobKind) String() string {
	switch k {
	case JobKindGeneric:
		return "job"
	case JobKindMessageSender:
		return "messageSender"
	case JobKindBroadcastMedia:
		return "broadcastMedia"
	case JobKindSessionReset:
		return "sessionReset"
	case JobKindMessageDecrypt:
		return "messageDecrypt"
	case JobKindIncomingContactSync:
		return "incomingContactSync"
	default:
		return "unknown"
	}
}

// JobStatus is the lifecycle state of a background job.
type JobStatus int

const (
	JobStatusUnknown JobStatus = iota
	JobStatusReady
	JobStatusRunning
	JobStatusPermanentlyFailed
	JobStatusObsolete
)

// JobRecord is a durable record of a background job. Kind selects which of the
// kind-specific pointers is set.
type JobRecord struct {
	RowID        int64
	UniqueID     string
	Kind         JobKind
	Label        string
	FailureCount uint64
	Status       JobStatus

	MessageSender       *MessageSenderJob
	BroadcastMedia      *BroadcastMediaJob
	SessionReset        *SessionResetJob
	MessageDecrypt      *MessageDecryptJob
	IncomingContactSync *IncomingContactSyncJob
}

// MessageSenderJob holds the attributes of a message sender job.
type MessageSenderJob struct {
	MessageID                 string
	ThreadID                  string
	InvisibleMessage          []byte // Archived message that is sent without being shown, may be nil
	RemoveMessageAfterSending bool
}

// BroadcastMediaJob maps each attachment ID to the message attachment IDs sharing it.
type BroadcastMediaJob struct {
	AttachmentIDMap map[string][]string
}

// SessionResetJob holds the attributes of a session reset job.
type SessionResetJob struct {
	ContactThreadID string
}

// MessageDecryptJob holds the encrypted envelope awaiting decryption.
type MessageDecryptJob struct {
	EnvelopeData []byte
}

// IncomingContactSyncJob holds the attachment carrying a contact sync.
type IncomingContactSyncJob struct {
	AttachmentID string
}

// Normalize stores an empty invisible message as absent.
func (j *JobRecord) Normalize() {
	if j.MessageSender != nil && len(j.MessageSender.InvisibleMessage) == 0 {
		j.MessageSender.InvisibleMessage = nil
	}
}

// ModelUniqueID returns the job record's unique ID.
func (j *JobRecord) ModelUniqueID() string {
	return j.UniqueID
}

// ModelRowID returns the backend-assigned row ID, or 0 if none was assigned.
func (j *JobRecord) ModelRowID() int64 {
	return j.RowID
}

// UpdateRowID records the row ID assigned on insert.
func (j *JobRecord) UpdateRowID(rowID int64) {
	j.RowID = rowID
}
