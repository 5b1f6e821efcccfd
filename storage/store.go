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
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
)

// DefaultBatchSize is the number of rows handled per batch by bulk operations.
const DefaultBatchSize = 100

// Store provides the entity operations of one model family on either backend.
type Store[M Model] struct {
	family     Family[M]
	sql        statements
	indexer    SearchIndexer
	removeHook func(tx *Tx, m M) error
	logger     *slog.Logger
}

// Option configures a Store.
type Option[M Model] func(*Store[M]) error

// WithSearchIndexer sets the indexer notified of changes to a search-indexed family.
func WithSearchIndexer[M Model](indexer SearchIndexer) Option[M] {
	return func(s *Store[M]) error {
		if indexer == nil {
			return errors.New("search indexer cannot be nil")
		}
		s.indexer = indexer
		return nil
	}
}

// WithRemoveHook sets a function called for every model removed one at a time,
// after its row was deleted and within the same transaction.
func WithRemoveHook[M Model](hook func(tx *Tx, m M) error) Option[M] {
	return func(s *Store[M]) error {
		s.removeHook = hook
		return nil
	}
}

// WithLogger sets the logger for the store.
func WithLogger[M Model](logger *slog.Logger) Option[M] {
	return func(s *Store[M]) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a store for the given family.
func NewStore[M Model](family Family[M], opts ...Option[M]) (*Store[M], error) {
	if err := family.validate(); err != nil {
		return nil, err
	}
	s := &Store[M]{
		family:  family,
		sql:     newStatements(family.Schema()),
		indexer: NoopIndexer(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("collection", family.Collection)
	return s, nil
}

// Family returns the family the store operates on.
func (s *Store[M]) Family() Family[M] {
	return s.family
}

// Insert stores a new model. On the relational backend the assigned row ID is
// passed to m.UpdateRowID before Insert returns. Inserting a uniqueId that is
// already stored fails with ErrAlreadyExists.
func (s *Store[M]) Insert(tx *Tx, m M) error {
	tx.requireWrite()
	rec, err := s.toRecord(m)
	if err != nil {
		return err
	}

	switch tx.Kind() {
	case KeyedBackend:
		k := tx.Keyed()
		_, found, err := k.Get(s.family.Collection, rec.UniqueID)
		if err != nil {
			return s.opError("insert", rec.UniqueID, err)
		}
		if found {
			return s.opError("insert", rec.UniqueID, ErrAlreadyExists)
		}
		if err := s.putRecord(k, rec); err != nil {
			return s.opError("insert", rec.UniqueID, err)
		}
	case RelationalBackend:
		res, err := tx.Relational().ExecContext(tx.Context(), s.sql.insert, insertArgs(rec)...)
		if err != nil {
			if isDuplicateKey(err) {
				return s.opError("insert", rec.UniqueID, ErrAlreadyExists)
			}
			return s.opError("insert", rec.UniqueID, err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return s.opError("insert", rec.UniqueID, err)
		}
		m.UpdateRowID(rowID)
	}

	s.notifyWritten(m, true)
	return nil
}

// Fetch returns the model stored under uniqueID. A missing model is reported
// as found == false with a nil error.
func (s *Store[M]) Fetch(tx *Tx, uniqueID string) (M, bool, error) {
	var zero M
	rec, found, err := s.fetchRecord(tx, uniqueID)
	if err != nil || !found {
		return zero, false, err
	}
	m, err := s.decode(rec)
	if err != nil {
		return zero, false, err
	}
	return m, true, nil
}

// FetchOfType is Fetch for a single subtype. A stored model of another subtype
// fails with ErrUnexpectedRecordType.
func (s *Store[M]) FetchOfType(tx *Tx, uniqueID string, recordType RecordType) (M, bool, error) {
	var zero M
	if !s.family.hasRecordType(recordType) {
		return zero, false, s.opError("fetch", uniqueID, fmt.Errorf("%w: %d", ErrUnknownRecordType, recordType))
	}
	rec, found, err := s.fetchRecord(tx, uniqueID)
	if err != nil || !found {
		return zero, false, err
	}
	if rec.RecordType != recordType {
		return zero, false, &RowError{
			UniqueID:   rec.UniqueID,
			RowID:      rec.ID,
			RecordType: rec.RecordType,
			Err:        fmt.Errorf("%w: want %d", ErrUnexpectedRecordType, recordType),
		}
	}
	m, err := s.decode(rec)
	if err != nil {
		return zero, false, err
	}
	return m, true, nil
}

// Exists reports whether a model is stored under uniqueID.
func (s *Store[M]) Exists(tx *Tx, uniqueID string) (bool, error) {
	switch tx.Kind() {
	case KeyedBackend:
		_, found, err := tx.Keyed().Get(s.family.Collection, uniqueID)
		if err != nil {
			return false, s.opError("exists", uniqueID, err)
		}
		return found, nil
	default:
		var one int
		err := tx.Relational().QueryRowContext(tx.Context(), s.sql.exists, uniqueID).Scan(&one)
		if isNoRows(err) {
			return false, nil
		}
		if err != nil {
			return false, s.opError("exists", uniqueID, err)
		}
		return true, nil
	}
}

// Count returns the number of stored models.
func (s *Store[M]) Count(tx *Tx) (uint64, error) {
	switch tx.Kind() {
	case KeyedBackend:
		n, err := tx.Keyed().Count(s.family.Collection)
		if err != nil {
			return 0, s.opError("count", "", err)
		}
		return n, nil
	default:
		var n int64
		if err := tx.Relational().QueryRowContext(tx.Context(), s.sql.count).Scan(&n); err != nil {
			return 0, s.opError("count", "", err)
		}
		return uint64(n), nil
	}
}

// All returns every stored model in unspecified order. Rows are read and
// decoded batchSize at a time; a batchSize below 1 reads one row at a time.
//
// A row that cannot be decoded is logged and yielded as a *RowError, after
// which iteration continues. Any other error is yielded once and ends the
// sequence. The context of tx is checked between batches.
func (s *Store[M]) All(tx *Tx, batchSize int) iter.Seq2[M, error] {
	return s.iterate(tx, batchSize, func() (Cursor[Record], error) {
		return s.records(tx)
	})
}

// Match selects the models whose Column holds Value. Value must have the Go
// type of the column: int64, bool or string. Blob columns cannot be matched.
type Match struct {
	Column string
	Value  any
}

// Matching returns the models for which any of matches holds, in unspecified
// order, batchSize at a time like All. The relational backend selects the rows
// with a parameterized WHERE clause. The keyed backend filters stored records
// before decoding them; a keyed row whose record cannot be read is never a match.
func (s *Store[M]) Matching(tx *Tx, batchSize int, matches ...Match) iter.Seq2[M, error] {
	return s.iterate(tx, batchSize, func() (Cursor[Record], error) {
		return s.matchingRecords(tx, matches)
	})
}

func (s *Store[M]) iterate(tx *Tx, batchSize int, open func() (Cursor[Record], error)) iter.Seq2[M, error] {
	return func(yield func(M, error) bool) {
		var zero M
		cur, err := open()
		if err != nil {
			yield(zero, err)
			return
		}
		defer cur.Close()

		batch := make([]Record, 0, max(batchSize, 1))
		// flush decodes and yields the pending batch, reporting whether to continue.
		flush := func() bool {
			defer func() {
				clear(batch)
				batch = batch[:0]
			}()
			for _, rec := range batch {
				m, err := s.decode(rec)
				if err != nil {
					s.logger.Warn("skipping unreadable row", "unique_id", rec.UniqueID, "err", err)
					if !yield(zero, err) {
						return false
					}
					continue
				}
				if !yield(m, nil) {
					return false
				}
			}
			return true
		}

		for {
			rec, ok, err := cur.Next()
			if err != nil {
				var rowErr *RowError
				if ok && errors.As(err, &rowErr) {
					s.logger.Warn("skipping unreadable row", "unique_id", rowErr.UniqueID, "err", err)
					if !yield(zero, err) {
						return
					}
					continue
				}
				if flush() {
					yield(zero, s.opError("enumerate", "", err))
				}
				return
			}
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) < cap(batch) {
				continue
			}
			if !flush() {
				return
			}
			if err := tx.Context().Err(); err != nil {
				yield(zero, err)
				return
			}
		}
	}
}

// Enumerate calls fn for every stored model. Unreadable rows are skipped and
// reported together as a *SkippedRowsError once every other row was visited.
// An error from fn stops the enumeration and is returned as is.
func (s *Store[M]) Enumerate(tx *Tx, batchSize int, fn func(M) error) error {
	var skips skipped
	for m, err := range s.All(tx, batchSize) {
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				skips = append(skips, rowErr)
				continue
			}
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return skips.err()
}

// FetchAll returns every readable model. Unreadable rows are reported as a
// *SkippedRowsError alongside the models that could be read.
func (s *Store[M]) FetchAll(tx *Tx) ([]M, error) {
	var models []M
	err := s.Enumerate(tx, DefaultBatchSize, func(m M) error {
		models = append(models, m)
		return nil
	})
	return models, err
}

// UniqueIDs returns the uniqueId of every stored model in unspecified order,
// without decoding the models.
func (s *Store[M]) UniqueIDs(tx *Tx) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var cur Cursor[string]
		switch tx.Kind() {
		case KeyedBackend:
			cur = tx.Keyed().Keys(s.family.Collection)
		default:
			rows, err := tx.Relational().QueryContext(tx.Context(), s.sql.uniqueIDs)
			if err != nil {
				yield("", s.opError("unique ids", "", err))
				return
			}
			cur = newRowsCursor(rows, func(r *sql.Rows) (string, error) {
				var id string
				err := r.Scan(&id)
				return id, err
			})
		}
		defer cur.Close()

		for {
			id, ok, err := cur.Next()
			if err != nil {
				yield("", s.opError("unique ids", "", err))
				return
			}
			if !ok || !yield(id, nil) {
				return
			}
		}
	}
}

// AllUniqueIDs returns a snapshot of every stored uniqueId.
func (s *Store[M]) AllUniqueIDs(tx *Tx) ([]string, error) {
	var ids []string
	for id, err := range s.UniqueIDs(tx) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Update applies mutate to local, then reloads the stored copy of local within
// tx, applies mutate to that copy and saves it. If nothing is stored under
// local's uniqueId the change stays in memory and persisted is false.
//
// Columns mutate does not touch keep the values written by other
// transactions since local was loaded.
func (s *Store[M]) Update(tx *Tx, local M, mutate func(M)) (persisted bool, err error) {
	tx.requireWrite()
	mutate(local)
	normalize(local)
	return s.UpdateByUniqueID(tx, local.ModelUniqueID(), mutate)
}

// UpdateByUniqueID loads the stored model, applies mutate to it and saves it.
// If nothing is stored under uniqueID, persisted is false and nothing is written.
func (s *Store[M]) UpdateByUniqueID(tx *Tx, uniqueID string, mutate func(M)) (persisted bool, err error) {
	tx.requireWrite()
	fresh, found, err := s.Fetch(tx, uniqueID)
	if err != nil {
		return false, err
	}
	if !found {
		s.logger.Debug("update of missing model ignored", "unique_id", uniqueID)
		return false, nil
	}
	mutate(fresh)
	if err := s.OverwritingUpdate(tx, fresh); err != nil {
		return false, err
	}
	return true, nil
}

// OverwritingUpdate saves m over the stored copy without reloading it first.
// Use it only with a copy loaded in the same transaction. A missing model
// fails with ErrNotFound.
func (s *Store[M]) OverwritingUpdate(tx *Tx, m M) error {
	tx.requireWrite()
	rec, err := s.toRecord(m)
	if err != nil {
		return err
	}

	switch tx.Kind() {
	case KeyedBackend:
		k := tx.Keyed()
		_, found, err := k.Get(s.family.Collection, rec.UniqueID)
		if err != nil {
			return s.opError("update", rec.UniqueID, err)
		}
		if !found {
			return s.opError("update", rec.UniqueID, ErrNotFound)
		}
		if err := s.putRecord(k, rec); err != nil {
			return s.opError("update", rec.UniqueID, err)
		}
	case RelationalBackend:
		res, err := tx.Relational().ExecContext(tx.Context(), s.sql.update, updateArgs(rec)...)
		if err != nil {
			return s.opError("update", rec.UniqueID, err)
		}
		if err := requireAffected(res); err != nil {
			return s.opError("update", rec.UniqueID, err)
		}
	}

	s.notifyWritten(m, false)
	return nil
}

// Upsert inserts m, or overwrites the stored copy if one exists.
func (s *Store[M]) Upsert(tx *Tx, m M) error {
	exists, err := s.Exists(tx, m.ModelUniqueID())
	if err != nil {
		return err
	}
	if exists {
		return s.OverwritingUpdate(tx, m)
	}
	return s.Insert(tx, m)
}

// Reload returns a freshly loaded copy of m. If m is no longer stored, Reload
// returns m itself when ignoreMissing is set and ErrNotFound otherwise.
func (s *Store[M]) Reload(tx *Tx, m M, ignoreMissing bool) (M, error) {
	fresh, found, err := s.Fetch(tx, m.ModelUniqueID())
	if err != nil {
		return m, err
	}
	if !found {
		if ignoreMissing {
			return m, nil
		}
		return m, s.opError("reload", m.ModelUniqueID(), ErrNotFound)
	}
	return fresh, nil
}

// Remove deletes m, then runs the remove hook and notifies the search index.
// A model that is not stored fails with ErrNotFound.
func (s *Store[M]) Remove(tx *Tx, m M) error {
	tx.requireWrite()
	uniqueID := m.ModelUniqueID()
	if err := s.deleteRow(tx, uniqueID); err != nil {
		return err
	}
	if s.removeHook != nil {
		if err := s.removeHook(tx, m); err != nil {
			return s.opError("remove hook", uniqueID, err)
		}
	}
	if s.family.SearchIndexed {
		s.indexer.ModelWasRemoved(s.family.Collection, uniqueID)
	}
	return nil
}

// RemoveAll deletes every stored model.
//
// Without instantiate the rows are deleted directly and no remove hook runs.
// With instantiate the uniqueIds are snapshotted first and every model is
// loaded and removed through Remove, DefaultBatchSize at a time. Rows that
// cannot be decoded are deleted without running the hook and reported as a
// *SkippedRowsError. Search-indexed families then notify the index that the
// collection was cleared.
//
// Every deletion belongs to tx. On the keyed backend a collection too large
// for one transaction fails with ErrTransactionTooLarge and nothing is removed.
func (s *Store[M]) RemoveAll(tx *Tx, instantiate bool) error {
	tx.requireWrite()
	if !instantiate {
		if err := s.deleteAll(tx); err != nil {
			return err
		}
		s.allRemoved()
		return nil
	}

	ids, err := s.AllUniqueIDs(tx)
	if err != nil {
		return err
	}

	var skips skipped
	for start := 0; start < len(ids); start += DefaultBatchSize {
		if err := tx.Context().Err(); err != nil {
			return err
		}
		end := min(start+DefaultBatchSize, len(ids))
		for _, uniqueID := range ids[start:end] {
			m, found, err := s.Fetch(tx, uniqueID)
			if err != nil {
				var rowErr *RowError
				if !errors.As(err, &rowErr) {
					return err
				}
				s.logger.Warn("removing unreadable row", "unique_id", uniqueID, "err", err)
				if err := s.deleteRow(tx, uniqueID); err != nil {
					return err
				}
				skips = append(skips, rowErr)
				continue
			}
			if !found {
				s.logger.Warn("model vanished during remove all", "unique_id", uniqueID)
				continue
			}
			if err := s.Remove(tx, m); err != nil {
				return err
			}
		}
	}

	s.allRemoved()
	return skips.err()
}

func normalize[M Model](m M) {
	if n, ok := any(m).(Normalizer); ok {
		n.Normalize()
	}
}

func (s *Store[M]) toRecord(m M) (Record, error) {
	normalize(m)
	if s.family.Validate != nil {
		if err := s.family.Validate(m); err != nil {
			return Record{}, err
		}
	}
	rec, err := s.family.Serializer.ToRecord(m)
	if err != nil {
		return Record{}, s.opError("serialize", m.ModelUniqueID(), err)
	}
	if !s.family.hasRecordType(rec.RecordType) {
		return Record{}, s.opError("serialize", m.ModelUniqueID(),
			fmt.Errorf("%w: %d", ErrUnknownRecordType, rec.RecordType))
	}
	return rec, nil
}

func (s *Store[M]) decode(rec Record) (M, error) {
	var m M
	var err error
	if s.family.hasRecordType(rec.RecordType) {
		m, err = s.family.Serializer.FromRecord(rec)
	} else {
		err = ErrUnknownRecordType
	}
	if err != nil {
		var zero M
		return zero, &RowError{
			UniqueID:   rec.UniqueID,
			RowID:      rec.ID,
			RecordType: rec.RecordType,
			Err:        err,
		}
	}
	return m, nil
}

func (s *Store[M]) fetchRecord(tx *Tx, uniqueID string) (Record, bool, error) {
	switch tx.Kind() {
	case KeyedBackend:
		data, found, err := tx.Keyed().Get(s.family.Collection, uniqueID)
		if err != nil {
			return Record{}, false, s.opError("fetch", uniqueID, err)
		}
		if !found {
			return Record{}, false, nil
		}
		rec, err := UnmarshalRecord(data)
		if err != nil {
			return Record{}, false, &RowError{UniqueID: uniqueID, Err: err}
		}
		return rec, true, nil
	default:
		row := tx.Relational().QueryRowContext(tx.Context(), s.sql.fetch, uniqueID)
		rec, err := scanRecord(row, s.family.Columns)
		if isNoRows(err) {
			return Record{}, false, nil
		}
		if err != nil {
			return Record{}, false, &RowError{UniqueID: uniqueID, Err: err}
		}
		return rec, true, nil
	}
}

// records opens a record cursor over the whole family.
func (s *Store[M]) records(tx *Tx) (Cursor[Record], error) {
	switch tx.Kind() {
	case KeyedBackend:
		return &entryRecordCursor{entries: tx.Keyed().Entries(s.family.Collection)}, nil
	default:
		rows, err := tx.Relational().QueryContext(tx.Context(), s.sql.all)
		if err != nil {
			return nil, s.opError("enumerate", "", err)
		}
		columns := s.family.Columns
		return newRowsCursor(rows, func(r *sql.Rows) (Record, error) {
			rec, err := scanRecord(r, columns)
			if err != nil {
				return rec, &RowError{UniqueID: rec.UniqueID, RowID: rec.ID, Err: err}
			}
			return rec, nil
		}), nil
	}
}

// matchingRecords opens a record cursor over the rows selected by matches.
func (s *Store[M]) matchingRecords(tx *Tx, matches []Match) (Cursor[Record], error) {
	indexes := make([]int, len(matches))
	for i, m := range matches {
		idx := slices.IndexFunc(s.family.Columns, func(c Column) bool { return c.Name == m.Column })
		if idx < 0 {
			return nil, s.opError("match", "", fmt.Errorf("%w: %q", ErrUnknownColumn, m.Column))
		}
		if s.family.Columns[idx].Type == ColumnBlob {
			return nil, s.opError("match", "", fmt.Errorf("%w: %q is a blob column", ErrUnknownColumn, m.Column))
		}
		indexes[i] = idx
	}
	if len(matches) == 0 {
		return emptyCursor[Record]{}, nil
	}

	switch tx.Kind() {
	case KeyedBackend:
		return &matchCursor{
			records: &entryRecordCursor{entries: tx.Keyed().Entries(s.family.Collection)},
			indexes: indexes,
			matches: matches,
			logger:  s.logger,
		}, nil
	default:
		conds := make([]string, len(matches))
		args := make([]any, len(matches))
		for i, m := range matches {
			conds[i] = quoteIdent(m.Column) + " = ?"
			args[i] = m.Value
		}
		query := s.sql.all + " WHERE " + strings.Join(conds, " OR ")
		rows, err := tx.Relational().QueryContext(tx.Context(), query, args...)
		if err != nil {
			return nil, s.opError("match", "", err)
		}
		columns := s.family.Columns
		return newRowsCursor(rows, func(r *sql.Rows) (Record, error) {
			rec, err := scanRecord(r, columns)
			if err != nil {
				return rec, &RowError{UniqueID: rec.UniqueID, RowID: rec.ID, Err: err}
			}
			return rec, nil
		}), nil
	}
}

func (s *Store[M]) putRecord(k KeyedTxn, rec Record) error {
	data, err := MarshalRecord(rec)
	if err != nil {
		return err
	}
	return k.Put(s.family.Collection, rec.UniqueID, data)
}

func (s *Store[M]) deleteRow(tx *Tx, uniqueID string) error {
	switch tx.Kind() {
	case KeyedBackend:
		k := tx.Keyed()
		_, found, err := k.Get(s.family.Collection, uniqueID)
		if err != nil {
			return s.opError("remove", uniqueID, err)
		}
		if !found {
			return s.opError("remove", uniqueID, ErrNotFound)
		}
		if err := k.Delete(s.family.Collection, uniqueID); err != nil {
			return s.opError("remove", uniqueID, err)
		}
	default:
		res, err := tx.Relational().ExecContext(tx.Context(), s.sql.remove, uniqueID)
		if err != nil {
			return s.opError("remove", uniqueID, err)
		}
		if err := requireAffected(res); err != nil {
			return s.opError("remove", uniqueID, err)
		}
	}
	return nil
}

func (s *Store[M]) deleteAll(tx *Tx) error {
	switch tx.Kind() {
	case KeyedBackend:
		if err := tx.Keyed().DeleteAll(s.family.Collection); err != nil {
			return s.opError("remove all", "", err)
		}
	default:
		if _, err := tx.Relational().ExecContext(tx.Context(), s.sql.removeAll); err != nil {
			return s.opError("remove all", "", err)
		}
	}
	return nil
}

func (s *Store[M]) notifyWritten(m M, inserted bool) {
	if !s.family.SearchIndexed {
		return
	}
	var text string
	if ix, ok := any(m).(Indexable); ok {
		text = ix.SearchText()
	}
	if inserted {
		s.indexer.ModelWasInserted(s.family.Collection, m.ModelUniqueID(), text)
	} else {
		s.indexer.ModelWasUpdated(s.family.Collection, m.ModelUniqueID(), text)
	}
}

func (s *Store[M]) allRemoved() {
	if s.family.SearchIndexed {
		s.indexer.AllModelsWereRemoved(s.family.Collection)
	}
}

func (s *Store[M]) opError(op, uniqueID string, err error) error {
	if uniqueID == "" {
		return fmt.Errorf("%s %s: %w", op, s.family.Collection, err)
	}
	return fmt.Errorf("%s %s %q: %w", op, s.family.Collection, uniqueID, err)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// entryRecordCursor decodes the values of a keyed collection into Records.
type entryRecordCursor struct {
	entries Cursor[Entry]
}

func (c *entryRecordCursor) Next() (Record, bool, error) {
	e, ok, err := c.entries.Next()
	if err != nil || !ok {
		return Record{}, ok, err
	}
	rec, err := UnmarshalRecord(e.Value)
	if err != nil {
		return Record{}, true, &RowError{UniqueID: e.Key, Err: err}
	}
	return rec, true, nil
}

func (c *entryRecordCursor) Close() error {
	return c.entries.Close()
}

// matchCursor passes on the records whose column at indexes[i] equals
// matches[i].Value for some i.
type matchCursor struct {
	records Cursor[Record]
	indexes []int
	matches []Match
	logger  *slog.Logger
}

func (c *matchCursor) Next() (Record, bool, error) {
	for {
		rec, ok, err := c.records.Next()
		if !ok {
			return rec, false, err
		}
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				c.logger.Warn("skipping unreadable row while matching", "unique_id", rowErr.UniqueID, "err", err)
				continue
			}
			return rec, true, err
		}
		for i, idx := range c.indexes {
			if idx < len(rec.Values) && rec.Values[idx] != nil && rec.Values[idx] == c.matches[i].Value {
				return rec, true, nil
			}
		}
	}
}

func (c *matchCursor) Close() error {
	return c.records.Close()
}

type emptyCursor[T any] struct{}

func (emptyCursor[T]) Next() (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (emptyCursor[T]) Close() error { return nil }
