// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"log/slog"
	"reflect"
	"runtime"

	"github.com/lucerna-dev/sqlitekit/internal/sqliteh"
)

// ExecResult is the outcome of Stmt.Run: a statement stepped exactly
// once, discarding any row it produced.
type ExecResult struct {
	// LastInsertRowID is the rowid of the most recently successful
	// INSERT on the owning connection.
	LastInsertRowID int64
	// RowsAffected is the row count of this statement alone.
	RowsAffected int64
	// TotalRowsAffected is the row count of this statement plus any
	// cascades (triggers, foreign key actions) it caused.
	TotalRowsAffected int64
}

// Stmt is a non-copyable handle onto a prepared statement (spec C7).
// It is either live or finalized, never both (I1); once it reports
// Done it is exhausted and further stepping is a no-op (I2); every
// control-flow exit of the scope that owns it finalizes it exactly
// once (I3) — guaranteed by Conn.Preparing for incremental use, and
// internally by every terminal fetcher below.
//
// Stmt is not safe for concurrent use; it is owned by whichever
// connection model prepared it and must not outlive that connection.
type Stmt struct {
	raw       sqliteh.Stmt
	engine    *engine
	columns   []string
	declTypes []string
	finalized bool
	exhausted bool
}

func prepareStmt(e *engine, q Query) (*Stmt, error) {
	raw, err := e.db.Prepare(q.text)
	if err != nil {
		return nil, fromEngine(KindPrepareStatement, q.text, err)
	}
	if raw == nil {
		return nil, &Error{Kind: KindEmptyQuery, Query: q.text}
	}

	expected := raw.BindParameterCount()
	got := len(q.bindings)
	if expected != got {
		raw.Finalize()
		e := errBindingMismatch(expected, got)
		e.Query = q.text
		return nil, e
	}

	for i, v := range q.bindings {
		if err := bindValue(raw, i+1, v); err != nil {
			raw.Finalize()
			return nil, fromEngine(KindPrepareStatement, q.text, err)
		}
	}

	columnCount := raw.ColumnCount()
	columns := make([]string, columnCount)
	declTypes := make([]string, columnCount)
	for i := 0; i < columnCount; i++ {
		columns[i] = raw.ColumnName(i)
		declTypes[i] = raw.ColumnDeclType(i)
	}

	s := &Stmt{raw: raw, engine: e, columns: columns, declTypes: declTypes}
	runtime.SetFinalizer(s, finalizeLeakedStmt)
	return s, nil
}

func bindValue(raw sqliteh.Stmt, pos int, v Value) error {
	switch v.Kind() {
	case KindNull:
		return raw.BindNull(pos)
	case KindInteger:
		return raw.BindInt64(pos, v.AsInteger())
	case KindFloat:
		return raw.BindDouble(pos, v.AsFloat())
	case KindText:
		return raw.BindText(pos, v.AsText())
	case KindBlob:
		return raw.BindBlob(pos, v.AsBlob().Bytes())
	default:
		return newError(KindPrepareStatement, "unknown value kind")
	}
}

// finalizeLeakedStmt is the GC-finalizer fallback for a Stmt whose
// owner never called Finalize (directly or via a terminal fetcher).
// It is best-effort cleanup, exactly as spec §3's Lifecycles section
// describes: the error, if any, is logged and swallowed, never
// returned, since there is no caller left to return it to.
func finalizeLeakedStmt(s *Stmt) {
	if err := s.Finalize(); err != nil {
		s.logger().Error("sqlitekit: leaked statement finalized by GC", "error", err)
	}
}

func (s *Stmt) logger() *slog.Logger {
	if s.engine != nil && s.engine.logger != nil {
		return s.engine.logger
	}
	return slog.New(slog.DiscardHandler)
}

// ColumnNames returns the statement's column names, materialized once
// at preparation time.
func (s *Stmt) ColumnNames() []string { return s.columns }

// ColumnDeclTypes returns the statement's declared column types,
// materialized once at preparation time.
func (s *Stmt) ColumnDeclTypes() []string { return s.declTypes }

// Finalize releases the underlying prepared statement. Idempotent:
// finalizing an already-finalized Stmt returns nil and does nothing.
// This is the preferred way to release a Stmt; errors are surfaced
// rather than swallowed.
func (s *Stmt) Finalize() error {
	if s.finalized {
		return nil
	}
	s.finalized = true
	runtime.SetFinalizer(s, nil)
	if err := s.raw.Finalize(); err != nil {
		return fromEngine(KindEngineUnknown, "", err)
	}
	return nil
}

// Step advances the statement by one row. After Step has returned a
// nil Row with a nil error once, the statement is exhausted (I2):
// every subsequent Step call also returns (nil, nil), without error,
// idempotently. Step does not finalize the statement; callers using
// Step directly are responsible for calling Finalize, typically via
// Conn.Preparing's deferred cleanup.
func (s *Stmt) Step() (*Row, error) {
	if s.finalized {
		return nil, newError(KindEngineUnknown, "step called on a finalized statement")
	}
	if s.exhausted {
		return nil, nil
	}
	hasRow, err := s.raw.Step()
	if err != nil {
		return nil, fromEngine(KindEngineUnknown, "", err)
	}
	if !hasRow {
		s.exhausted = true
		return nil, nil
	}
	return newRow(s.columns, s.declTypes, s.readValues()), nil
}

func (s *Stmt) readValues() []Value {
	values := make([]Value, len(s.columns))
	for i := range values {
		switch s.raw.ColumnType(i) {
		case sqliteh.ColumnInteger:
			values[i] = Integer(s.raw.ColumnInt64(i))
		case sqliteh.ColumnFloat:
			values[i] = Float(s.raw.ColumnDouble(i))
		case sqliteh.ColumnText:
			values[i] = Text(s.raw.ColumnText(i))
		case sqliteh.ColumnBlob:
			b := s.raw.ColumnBlob(i)
			if len(b) == 0 {
				values[i] = BlobValue(EmptyBlob())
			} else {
				values[i] = BlobValue(LoadedBlob(b))
			}
		default:
			values[i] = Null()
		}
	}
	return values
}

// Run steps the statement exactly once, accepting either a row or
// Done, then reads execution stats from the owning connection. It
// always finalizes before returning.
func (s *Stmt) Run() (ExecResult, error) {
	defer s.Finalize()
	if _, err := s.Step(); err != nil {
		return ExecResult{}, err
	}
	return ExecResult{
		LastInsertRowID:   s.engine.lastInsertRowID(),
		RowsAffected:      s.engine.changes(),
		TotalRowsAffected: s.engine.totalChanges(),
	}, nil
}

// FetchAll steps the statement to completion and returns every row.
// Always finalizes before returning.
func (s *Stmt) FetchAll() ([]*Row, error) {
	var rows []*Row
	err := s.fetchAllFunc(func(r *Row) error {
		rows = append(rows, r)
		return nil
	})
	return rows, err
}

// fetchAllFunc steps until Done, calling fn for each row, then
// finalizes. fn's error (if any) short-circuits the loop and is
// returned; the statement is still finalized.
func (s *Stmt) fetchAllFunc(fn func(*Row) error) error {
	defer s.Finalize()
	for {
		row, err := s.Step()
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// FetchOne steps once and returns the first row; a Done result on the
// first step is reported as KindNoRowsFetched. Rows after the first are
// not read, so a query yielding several rows is not an error. Always
// finalizes before returning.
func (s *Stmt) FetchOne() (*Row, error) {
	defer s.Finalize()
	row, err := s.Step()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, newError(KindNoRowsFetched, "")
	}
	return row, nil
}

// FetchOptional steps once and returns the row if one exists, or a
// nil Row (and nil error) if the statement is immediately Done.
// Always finalizes before returning.
func (s *Stmt) FetchOptional() (*Row, error) {
	defer s.Finalize()
	return s.Step()
}

// FetchOneInto is FetchOne followed by Row.Decode(dest).
func (s *Stmt) FetchOneInto(dest any) error {
	row, err := s.FetchOne()
	if err != nil {
		return err
	}
	return row.Decode(dest)
}

// FetchOptionalInto is FetchOptional followed by Row.Decode(dest) when
// a row is present; found reports whether a row was decoded.
func (s *Stmt) FetchOptionalInto(dest any) (found bool, err error) {
	row, err := s.FetchOptional()
	if err != nil || row == nil {
		return false, err
	}
	return true, row.Decode(dest)
}

// FetchAllInto decodes every row into a freshly appended element of
// the slice pointed to by dest (a *[]T for some struct or primitive
// T). It always finalizes before returning.
func (s *Stmt) FetchAllInto(dest any) error {
	defer s.Finalize()
	slicePtr := reflect.ValueOf(dest)
	if slicePtr.Kind() != reflect.Pointer || slicePtr.Elem().Kind() != reflect.Slice {
		return newError(KindDecodeShape, "FetchAllInto requires a pointer to a slice")
	}
	sliceValue := slicePtr.Elem()
	elemType := sliceValue.Type().Elem()

	return s.fetchAllFunc(func(r *Row) error {
		elem := reflect.New(elemType)
		if err := r.Decode(elem.Interface()); err != nil {
			return err
		}
		sliceValue.Set(reflect.Append(sliceValue, elem.Elem()))
		return nil
	})
}

// ScanTuple decodes row positionally into dest, a list of pointers to
// primitive targets, enforcing that the row's column count equals
// len(dest) (spec's tuple arity check, KindColumnCountMismatch
// otherwise).
func ScanTuple(row *Row, dest ...any) error {
	if row.Len() != len(dest) {
		return errColumnCountMismatch(len(dest), row.Len())
	}
	for i, d := range dest {
		rv := reflect.ValueOf(d)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return newError(KindDecodeShape, "tuple destination must be a non-nil pointer")
		}
		if err := decodeField(rv.Elem(), row.At(i)); err != nil {
			return err
		}
	}
	return nil
}

// FetchOneTuple is FetchOne followed by ScanTuple.
func (s *Stmt) FetchOneTuple(dest ...any) error {
	row, err := s.FetchOne()
	if err != nil {
		return err
	}
	return ScanTuple(row, dest...)
}

// FetchOptionalTuple is FetchOptional followed by ScanTuple when a row
// is present.
func (s *Stmt) FetchOptionalTuple(dest ...any) (found bool, err error) {
	row, err := s.FetchOptional()
	if err != nil || row == nil {
		return false, err
	}
	return true, ScanTuple(row, dest...)
}

// FetchAllTuple steps the statement to completion, decoding each row
// positionally into len(dest) columns and appending each column's
// value to the corresponding slice pointer in dest (one *[]T per
// column, e.g. FetchAllTuple(&ids, &names) for a two-column query).
// Every row's column count must equal len(dest), else
// KindColumnCountMismatch. Always finalizes before returning.
func (s *Stmt) FetchAllTuple(dest ...any) error {
	defer s.Finalize()
	slices := make([]reflect.Value, len(dest))
	for i, d := range dest {
		rv := reflect.ValueOf(d)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
			return newError(KindDecodeShape, "FetchAllTuple requires pointers to slices")
		}
		slices[i] = rv.Elem()
	}

	return s.fetchAllFunc(func(r *Row) error {
		if r.Len() != len(dest) {
			return errColumnCountMismatch(len(dest), r.Len())
		}
		for i, sliceValue := range slices {
			elem := reflect.New(sliceValue.Type().Elem())
			if err := decodeField(elem.Elem(), r.At(i)); err != nil {
				return err
			}
			slices[i].Set(reflect.Append(sliceValue, elem.Elem()))
		}
		return nil
	})
}
