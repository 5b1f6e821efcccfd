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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/poiesic/modelstore"
	"github.com/poiesic/modelstore/core"
	"github.com/poiesic/modelstore/profile"
	"github.com/poiesic/modelstore/storage"
	"github.com/urfave/cli/v2"
)

const (
	collectionThreads = "threads"
	collectionJobs    = "jobs"
)

var seedDrafts = []string{
	"Lunch on Thursday?",
	"The quick brown fox jumps over the lazy dog.",
	"Call the plumber about the kitchen sink",
	"Send the slides before the meeting",
	"Pick up strawberries from the farmer's market",
	"Happy birthday! Hope the party was fun",
	"Did the backup finish last night?",
	"Bring the blue umbrella, rain is coming",
}

// openDatabase opens the database selected by the global flags.
func openDatabase(c *cli.Context) (*modelstore.Database, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	kind, err := storage.ParseBackendKind(c.String("backend"))
	if err != nil {
		return nil, err
	}

	db, err := modelstore.NewDatabase(
		modelstore.WithBackend(kind),
		modelstore.WithPath(dbPath),
		modelstore.WithBatchSize(c.Int("batch-size")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func withDatabase(c *cli.Context, fn func(ctx context.Context, db *modelstore.Database) error) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(c.Context, db)
}

// forCollection runs the function matching the --collection flag.
func forCollection(c *cli.Context, threads, jobs func() error) error {
	switch name := c.String("collection"); name {
	case collectionThreads:
		return threads()
	case collectionJobs:
		return jobs()
	default:
		return fmt.Errorf("unknown collection %q: must be one of %s, %s", name, collectionThreads, collectionJobs)
	}
}

func countCommand(c *cli.Context) error {
	return withDatabase(c, func(ctx context.Context, db *modelstore.Database) error {
		var n uint64
		err := forCollection(c,
			func() (err error) { n, err = countModels(ctx, db, db.Threads()); return },
			func() (err error) { n, err = countModels(ctx, db, db.JobRecords()); return },
		)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, n)
		return nil
	})
}

func countModels[M storage.Model](ctx context.Context, db *modelstore.Database, s *storage.Store[M]) (uint64, error) {
	var n uint64
	err := db.Read(ctx, func(tx *storage.Tx) error {
		var err error
		n, err = s.Count(tx)
		return err
	})
	return n, err
}

func listCommand(c *cli.Context) error {
	return withDatabase(c, func(_ context.Context, db *modelstore.Database) error {
		return forCollection(c,
			func() error { return listModels(c, db, db.Threads(), threadSummary) },
			func() error { return listModels(c, db, db.JobRecords(), jobSummary) },
		)
	})
}

func listModels[M storage.Model](c *cli.Context, db *modelstore.Database, s *storage.Store[M], summary func(M) string) error {
	err := db.Read(c.Context, func(tx *storage.Tx) error {
		return s.Enumerate(tx, db.BatchSize(), func(m M) error {
			_, err := fmt.Fprintln(c.App.Writer, summary(m))
			return err
		})
	})
	return reportSkipped(c, err)
}

// reportSkipped prints unreadable rows to the error writer and clears the error.
func reportSkipped(c *cli.Context, err error) error {
	var skipped *storage.SkippedRowsError
	if !errors.As(err, &skipped) {
		return err
	}
	for _, row := range skipped.Rows {
		fmt.Fprintf(c.App.ErrWriter, "skipped unreadable row %q: %v\n", row.UniqueID, row.Err)
	}
	return nil
}

func getCommand(c *cli.Context) error {
	uniqueID := c.Args().First()
	if uniqueID == "" {
		return fmt.Errorf("unique ID is required")
	}
	return withDatabase(c, func(_ context.Context, db *modelstore.Database) error {
		return forCollection(c,
			func() error { return getModel(c, db, db.Threads(), uniqueID, writeThread) },
			func() error { return getModel(c, db, db.JobRecords(), uniqueID, writeJob) },
		)
	})
}

func getModel[M storage.Model](c *cli.Context, db *modelstore.Database, s *storage.Store[M], uniqueID string, write func(io.Writer, M)) error {
	return db.Read(c.Context, func(tx *storage.Tx) error {
		m, found, err := s.Fetch(tx, uniqueID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%q: %w", uniqueID, storage.ErrNotFound)
		}
		write(c.App.Writer, m)
		return nil
	})
}

func removeAllCommand(c *cli.Context) error {
	instantiate := c.Bool("instantiate")
	return withDatabase(c, func(_ context.Context, db *modelstore.Database) error {
		return forCollection(c,
			func() error { return removeAllModels(c, db, db.Threads(), instantiate) },
			func() error { return removeAllModels(c, db, db.JobRecords(), instantiate) },
		)
	})
}

func removeAllModels[M storage.Model](c *cli.Context, db *modelstore.Database, s *storage.Store[M], instantiate bool) error {
	var removeErr error
	err := db.Write(c.Context, func(tx *storage.Tx) error {
		removeErr = s.RemoveAll(tx, instantiate)
		var skipped *storage.SkippedRowsError
		if errors.As(removeErr, &skipped) {
			// Unreadable rows were deleted too; keep the transaction.
			return nil
		}
		return removeErr
	})
	if err != nil {
		return err
	}
	if err := reportSkipped(c, removeErr); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed all %s\n", s.Family().Collection)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search query is required")
	}
	return withDatabase(c, func(ctx context.Context, db *modelstore.Database) error {
		start := time.Now()
		if err := reportSkipped(c, db.RebuildSearchIndex(ctx)); err != nil {
			return err
		}
		ids := db.SearchThreads(query)
		for _, id := range ids {
			fmt.Fprintln(c.App.Writer, id)
		}
		fmt.Fprintf(c.App.ErrWriter, "%d matches in %s\n", len(ids), time.Since(start).Round(time.Millisecond))
		return nil
	})
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

func seedCommand(c *cli.Context) error {
	source := linesFromSlice(seedDrafts)
	if src := c.String("src"); src != "" {
		var err error
		source, err = linesFromFile(src)
		if err != nil {
			return err
		}
	}

	return withDatabase(c, func(ctx context.Context, db *modelstore.Database) error {
		inserted, err := seedBatched(ctx, db, source, db.BatchSize())
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "inserted %d threads\n", inserted)
		return nil
	})
}

// seedBatched inserts a thread per non-empty line, one transaction per batch.
func seedBatched(ctx context.Context, db *modelstore.Database, source iter.Seq[string], batchSize int) (int, error) {
	inserted := 0
	batch := make([]*core.Thread, 0, batchSize)
	flush := func() error {
		err := db.Write(ctx, func(tx *storage.Tx) error {
			for _, thread := range batch {
				if err := db.Threads().Insert(tx, thread); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	for line := range source {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		thread := core.NewThread()
		thread.MessageDraft = line
		batch = append(batch, thread)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return inserted, err
			}
		}
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

func bioCommand(c *cli.Context) error {
	filter, err := profile.NewDisplayFilter()
	if err != nil {
		return err
	}
	defer filter.Close()

	fmt.Fprintln(c.App.Writer, filter.BioForDisplay(c.String("text"), c.String("emoji")))
	return nil
}

func verifyCommand(c *cli.Context) error {
	return withDatabase(c, func(_ context.Context, db *modelstore.Database) error {
		unreadable := 0
		err := forCollection(c,
			func() (err error) { unreadable, err = verifyModels(c, db, db.Threads()); return },
			func() (err error) { unreadable, err = verifyModels(c, db, db.JobRecords()); return },
		)
		if err != nil {
			return err
		}
		if unreadable > 0 {
			return fmt.Errorf("%d unreadable rows", unreadable)
		}
		return nil
	})
}

// verifyModels decodes every stored model and reports the rows that fail.
func verifyModels[M storage.Model](c *cli.Context, db *modelstore.Database, s *storage.Store[M]) (int, error) {
	readable, unreadable := 0, 0
	err := db.Read(c.Context, func(tx *storage.Tx) error {
		total, err := s.Count(tx)
		if err != nil {
			return err
		}
		progress := newProgressTracker(c.App.ErrWriter, "verified", int(total), c.Int("report-interval"))
		defer progress.Finish()

		for _, err := range s.All(tx, db.BatchSize()) {
			progress.Increment(1)
			var rowErr *storage.RowError
			switch {
			case err == nil:
				readable++
			case errors.As(err, &rowErr):
				unreadable++
				fmt.Fprintf(c.App.Writer, "unreadable\t%s\t%v\n", rowErr.UniqueID, rowErr.Err)
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(c.App.Writer, "%s: %d readable, %d unreadable\n", s.Family().Collection, readable, unreadable)
	return unreadable, nil
}
