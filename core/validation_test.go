package core

import (
	"errors"
	"testing"
)

func TestValidateThread(t *testing.T) {
	tests := []struct {
		name    string
		thread  *Thread
		wantErr error
	}{
		{
			name:    "valid plain thread",
			thread:  NewThread(),
			wantErr: nil,
		},
		{
			name:    "valid contact thread",
			thread:  NewContactThread("+15551234567", ""),
			wantErr: nil,
		},
		{
			name:    "valid group thread",
			thread:  NewGroupThread(GroupModel{GroupID: []byte{1, 2, 3}, Name: "Hikers"}),
			wantErr: nil,
		},
		{
			name: "valid thread with row ID 0",
			thread: &Thread{
				UniqueID: "t1",
				Kind:     ThreadKindPlain,
			},
			wantErr: nil,
		},
		{
			name:    "nil thread",
			thread:  nil,
			wantErr: ErrInvalidThread,
		},
		{
			name: "empty unique ID",
			thread: &Thread{
				Kind: ThreadKindPlain,
			},
			wantErr: ErrEmptyUniqueID,
		},
		{
			name: "invalid kind",
			thread: &Thread{
				UniqueID: "t1",
				Kind:     ThreadKind(42),
			},
			wantErr: ErrInvalidKind,
		},
		{
			name: "contact kind without contact attributes",
			thread: &Thread{
				UniqueID: "t1",
				Kind:     ThreadKindContact,
			},
			wantErr: ErrKindMismatch,
		},
		{
			name: "plain kind with group attributes",
			thread: &Thread{
				UniqueID: "t1",
				Kind:     ThreadKindPlain,
				Group:    &GroupThread{Model: GroupModel{GroupID: []byte{1}}},
			},
			wantErr: ErrKindMismatch,
		},
		{
			name: "group without group ID",
			thread: &Thread{
				UniqueID: "t1",
				Kind:     ThreadKindGroup,
				Group:    &GroupThread{},
			},
			wantErr: ErrMissingAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThread(tt.thread)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateThread() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateThread() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateThread() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJobRecord(t *testing.T) {
	decrypt := NewJobRecord(JobKindMessageDecrypt, "decrypt")
	decrypt.MessageDecrypt.EnvelopeData = []byte("envelope")

	reset := NewJobRecord(JobKindSessionReset, "reset")
	reset.SessionReset.ContactThreadID = "c+15551234567"

	tests := []struct {
		name    string
		job     *JobRecord
		wantErr error
	}{
		{
			name:    "valid generic job",
			job:     NewJobRecord(JobKindGeneric, "generic"),
			wantErr: nil,
		},
		{
			name:    "valid message sender job",
			job:     NewJobRecord(JobKindMessageSender, "send"),
			wantErr: nil,
		},
		{
			name:    "valid message decrypt job",
			job:     decrypt,
			wantErr: nil,
		},
		{
			name:    "valid session reset job",
			job:     reset,
			wantErr: nil,
		},
		{
			name:    "nil job",
			job:     nil,
			wantErr: ErrInvalidJobRecord,
		},
		{
			name: "empty unique ID",
			job: &JobRecord{
				Kind: JobKindGeneric,
			},
			wantErr: ErrEmptyUniqueID,
		},
		{
			name: "invalid kind",
			job: &JobRecord{
				UniqueID: "j1",
				Kind:     JobKind(0),
			},
			wantErr: ErrInvalidKind,
		},
		{
			name: "two kind-specific attributes",
			job: &JobRecord{
				UniqueID:      "j1",
				Kind:          JobKindMessageSender,
				MessageSender: &MessageSenderJob{},
				SessionReset:  &SessionResetJob{ContactThreadID: "c1"},
			},
			wantErr: ErrKindMismatch,
		},
		{
			name:    "decrypt without envelope",
			job:     NewJobRecord(JobKindMessageDecrypt, "decrypt"),
			wantErr: ErrMissingAttribute,
		},
		{
			name:    "contact sync without attachment",
			job:     NewJobRecord(JobKindIncomingContactSync, "sync"),
			wantErr: ErrMissingAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJobRecord(tt.job)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateJobRecord() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateJobRecord() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateJobRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
