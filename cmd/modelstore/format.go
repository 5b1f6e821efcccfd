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

package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/poiesic/modelstore/core"
)

func threadSummary(t *core.Thread) string {
	return fmt.Sprintf("%s\t%s\t%s", t.UniqueID, t.Kind, t.SearchText())
}

func jobSummary(j *core.JobRecord) string {
	return fmt.Sprintf("%s\t%s\t%s\tfailures=%d", j.UniqueID, j.Kind, j.Label, j.FailureCount)
}

func formatDate(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format(time.RFC3339)
}

func writeThread(w io.Writer, t *core.Thread) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "uniqueId:\t%s\n", t.UniqueID)
	fmt.Fprintf(tw, "kind:\t%s\n", t.Kind)
	if t.RowID != 0 {
		fmt.Fprintf(tw, "rowId:\t%d\n", t.RowID)
	}
	fmt.Fprintf(tw, "created:\t%s\n", formatDate(t.CreationDate))
	fmt.Fprintf(tw, "archived:\t%t\n", t.IsArchived)
	fmt.Fprintf(tw, "visible:\t%t\n", t.ShouldThreadBeVisible)
	fmt.Fprintf(tw, "mutedUntil:\t%s\n", formatDate(t.MutedUntilDate))
	fmt.Fprintf(tw, "draft:\t%s\n", t.MessageDraft)
	switch {
	case t.Contact != nil:
		fmt.Fprintf(tw, "phoneNumber:\t%s\n", t.Contact.PhoneNumber)
		fmt.Fprintf(tw, "uuid:\t%s\n", t.Contact.UUID)
	case t.Group != nil:
		fmt.Fprintf(tw, "groupName:\t%s\n", t.Group.Model.Name)
		fmt.Fprintf(tw, "members:\t%s\n", strings.Join(t.Group.Model.Members, ", "))
	}
}

func writeJob(w io.Writer, j *core.JobRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "uniqueId:\t%s\n", j.UniqueID)
	fmt.Fprintf(tw, "kind:\t%s\n", j.Kind)
	fmt.Fprintf(tw, "label:\t%s\n", j.Label)
	fmt.Fprintf(tw, "status:\t%d\n", j.Status)
	fmt.Fprintf(tw, "failures:\t%d\n", j.FailureCount)
	switch {
	case j.MessageSender != nil:
		fmt.Fprintf(tw, "messageId:\t%s\n", j.MessageSender.MessageID)
		fmt.Fprintf(tw, "threadId:\t%s\n", j.MessageSender.ThreadID)
	case j.BroadcastMedia != nil:
		attachments := make([]string, 0, len(j.BroadcastMedia.AttachmentIDMap))
		for id := range j.BroadcastMedia.AttachmentIDMap {
			attachments = append(attachments, id)
		}
		slices.Sort(attachments)
		fmt.Fprintf(tw, "attachments:\t%s\n", strings.Join(attachments, ", "))
	case j.SessionReset != nil:
		fmt.Fprintf(tw, "contactThreadId:\t%s\n", j.SessionReset.ContactThreadID)
	case j.MessageDecrypt != nil:
		fmt.Fprintf(tw, "envelopeBytes:\t%d\n", len(j.MessageDecrypt.EnvelopeData))
	case j.IncomingContactSync != nil:
		fmt.Fprintf(tw, "attachmentId:\t%s\n", j.IncomingContactSync.AttachmentID)
	}
}
