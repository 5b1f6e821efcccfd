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

package core

import "fmt"

// ValidateThread validates a Thread according to domain rules.
//
// Validation rules:
//   - UniqueID must not be empty
//   - Kind must be valid
//   - Contact is set iff Kind is ThreadKindContact
//   - Group is set iff Kind is ThreadKindGroup, and its GroupID is not empty
//
// NOT validated:
//   - RowID (0 is valid until the relational backend assigns one)
//   - Dates (nil means the date is absent)
func ValidateThread(thread *Thread) error {
	if thread == nil {
		return fmt.Errorf("%w: thread is nil", ErrInvalidThread)
	}

	if thread.UniqueID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidThread, ErrEmptyUniqueID)
	}

	switch thread.Kind {
	case ThreadKindPlain:
		if thread.Contact != nil || thread.Group != nil {
			return fmt.Errorf("%w: %w: %s", ErrInvalidThread, ErrKindMismatch, thread.Kind)
		}
	case ThreadKindContact:
		if thread.Contact == nil || thread.Group != nil {
			return fmt.Errorf("%w: %w: %s", ErrInvalidThread, ErrKindMismatch, thread.Kind)
		}
	case ThreadKindGroup:
		if thread.Group == nil || thread.Contact != nil {
			return fmt.Errorf("%w: %w: %s", ErrInvalidThread, ErrKindMismatch, thread.Kind)
		}
		if len(thread.Group.Model.GroupID) == 0 {
			return fmt.Errorf("%w: %w: group ID", ErrInvalidThread, ErrMissingAttribute)
		}
	default:
		return fmt.Errorf("%w: %w: %d", ErrInvalidThread, ErrInvalidKind, thread.Kind)
	}

	return nil
}

// ValidateJobRecord validates a JobRecord according to domain rules.
//
// Validation rules:
//   - UniqueID must not be empty
//   - Kind must be valid and exactly the matching kind-specific pointer is set
//   - Required kind-specific attributes must not be empty
func ValidateJobRecord(job *JobRecord) error {
	if job == nil {
		return fmt.Errorf("%w: job record is nil", ErrInvalidJobRecord)
	}

	if job.UniqueID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJobRecord, ErrEmptyUniqueID)
	}

	set := 0
	for _, present := range []bool{
		job.MessageSender != nil,
		job.BroadcastMedia != nil,
		job.SessionReset != nil,
		job.MessageDecrypt != nil,
		job.IncomingContactSync != nil,
	} {
		if present {
			set++
		}
	}

	var matches bool
	switch job.Kind {
	case JobKindGeneric:
		matches = set == 0
	case JobKindMessageSender:
		matches = set == 1 && job.MessageSender != nil
	case JobKindBroadcastMedia:
		matches = set == 1 && job.BroadcastMedia != nil
	case JobKindSessionReset:
		matches = set == 1 && job.SessionReset != nil
		if matches && job.SessionReset.ContactThreadID == "" {
			return fmt.Errorf("%w: %w: contact thread ID", ErrInvalidJobRecord, ErrMissingAttribute)
		}
	case JobKindMessageDecrypt:
		matches = set == 1 && job.MessageDecrypt != nil
		if matches && len(job.MessageDecrypt.EnvelopeData) == 0 {
			return fmt.Errorf("%w: %w: envelope data", ErrInvalidJobRecord, ErrMissingAttribute)
		}
	case JobKindIncomingContactSync:
		matches = set == 1 && job.IncomingContactSync != nil
		if matches && job.IncomingContactSync.AttachmentID == "" {
			return fmt.Errorf("%w: %w: attachment ID", ErrInvalidJobRecord, ErrMissingAttribute)
		}
	default:
		return fmt.Errorf("%w: %w: %d", ErrInvalidJobRecord, ErrInvalidKind, job.Kind)
	}

	if !matches {
		return fmt.Errorf("%w: %w: %s", ErrInvalidJobRecord, ErrKindMismatch, job.Kind)
	}

	return nil
}
