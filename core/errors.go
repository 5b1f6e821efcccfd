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

import "errors"

// Domain validation errors
var (
	// ErrInvalidThread indicates a Thread failed validation.
	ErrInvalidThread = errors.New("invalid thread")

	// ErrInvalidJobRecord indicates a JobRecord failed validation.
	ErrInvalidJobRecord = errors.New("invalid job record")

	// ErrEmptyUniqueID indicates the UniqueID field is empty.
	ErrEmptyUniqueID = errors.New("unique ID cannot be empty")

	// ErrInvalidKind indicates an unknown kind value.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrKindMismatch indicates the kind-specific attributes do not match the kind.
	ErrKindMismatch = errors.New("attributes do not match kind")

	// ErrMissingAttribute indicates a required kind-specific attribute is empty.
	ErrMissingAttribute = errors.New("required attribute is missing")
)
