package core

import (
	"testing"
	"time"
)

func TestContactThreadUniqueID(t *testing.T) {
	id1 := ContactThreadUniqueID("+15551234567")
	id2 := ContactThreadUniqueID("+15551234567")

	if id1 != id2 {
		t.Errorf("ContactThreadUniqueID() produced different IDs for same number: %s vs %s", id1, id2)
	}
	if id1 == ContactThreadUniqueID("+15557654321") {
		t.Errorf("ContactThreadUniqueID() produced same ID for different numbers")
	}
}

func TestGroupThreadUniqueID(t *testing.T) {
	got := GroupThreadUniqueID([]byte{0xde, 0xad, 0xbe, 0xef})
	if got != "g3q2+7w==" {
		t.Errorf("GroupThreadUniqueID() = %v, want %v", got, "g3q2+7w==")
	}
}

func TestNewUniqueID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUniqueID()
		if id == "" {
			t.Fatal("NewUniqueID() returned empty ID")
		}
		if seen[id] {
			t.Fatalf("NewUniqueID() returned duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestThread_SearchText(t *testing.T) {
	tests := []struct {
		name   string
		thread *Thread
		want   string
	}{
		{
			name:   "empty plain thread",
			thread: NewThread(),
			want:   "",
		},
		{
			name: "contact thread with draft",
			thread: func() *Thread {
				th := NewContactThread("+15551234567", "")
				th.MessageDraft = "see you soon"
				return th
			}(),
			want: "see you soon +15551234567",
		},
		{
			name:   "group thread",
			thread: NewGroupThread(GroupModel{GroupID: []byte{1}, Name: "Book club"}),
			want:   "Book club",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.thread.SearchText()
			if got != tt.want {
				t.Errorf("Thread.SearchText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThread_UpdateRowID(t *testing.T) {
	th := NewThread()
	if th.ModelRowID() != 0 {
		t.Fatalf("new thread has row ID %d", th.ModelRowID())
	}
	th.UpdateRowID(7)
	if th.ModelRowID() != 7 {
		t.Errorf("ModelRowID() = %d, want 7", th.ModelRowID())
	}
}

func TestKindStrings(t *testing.T) {
	if ThreadKindGroup.String() != "group" {
		t.Errorf("ThreadKindGroup.String() = %v", ThreadKindGroup.String())
	}
	if JobKindMessageSender.String() != "messageSender" {
		t.Errorf("JobKindMessageSender.String() = %v", JobKindMessageSender.String())
	}
	if ThreadKind(99).String() != "unknown" {
		t.Errorf("ThreadKind(99).String() = %v", ThreadKind(99).String())
	}
}

func TestNormalizeDate(t *testing.T) {
	if NormalizeDate(nil) != nil {
		t.Errorf("NormalizeDate(nil) should be nil")
	}

	in := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.FixedZone("UTC+2", 7200))
	got := NormalizeDate(&in)
	want := time.Date(2024, 5, 6, 5, 8, 9, 123000000, time.UTC)
	if !got.Equal(want) || got.Nanosecond() != want.Nanosecond() {
		t.Errorf("NormalizeDate() = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("NormalizeDate() location = %v, want UTC", got.Location())
	}
}

func TestThreadNormalize(t *testing.T) {
	now := time.Now()
	thread := NewThread()
	thread.CreationDate = &now
	thread.Normalize()

	if thread.CreationDate.UnixMilli() != now.UnixMilli() || thread.CreationDate.Location() != time.UTC {
		t.Errorf("Normalize() CreationDate = %v, want %v in UTC", thread.CreationDate, now)
	}
	if thread.MutedUntilDate != nil {
		t.Errorf("Normalize() set MutedUntilDate = %v", thread.MutedUntilDate)
	}
}

func TestJobRecordNormalize(t *testing.T) {
	job := NewJobRecord(JobKindMessageSender, "send")
	job.MessageSender.InvisibleMessage = []byte{}
	job.Normalize()
	if job.MessageSender.InvisibleMessage != nil {
		t.Errorf("Normalize() kept an empty invisible message")
	}

	job.MessageSender.InvisibleMessage = []byte("typing")
	job.Normalize()
	if string(job.MessageSender.InvisibleMessage) != "typing" {
		t.Errorf("Normalize() changed a non-empty invisible message")
	}

	NewJobRecord(JobKindGeneric, "generic").Normalize()
}
