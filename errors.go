// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"errors"
	"fmt"

	"github.com/lucerna-dev/sqlitekit/internal/sqliteh"
)

// Kind classifies an Error into one of the taxonomy's semantic
// classes. Every error this package returns carries exactly one Kind.
type Kind int

const (
	// KindOpenDatabase covers open failures, including engine
	// initialization failures on statically linked builds.
	KindOpenDatabase Kind = iota
	// KindPrepareStatement covers parsing and binding bookkeeping
	// failures inside Prepare, other than an empty query or a
	// placeholder/binding count mismatch (which have their own kinds).
	KindPrepareStatement
	// KindEmptyQuery is returned when the prepared text contains no
	// statement (only whitespace or comments).
	KindEmptyQuery
	// KindBindingMismatch is returned when a Bound Query's placeholder
	// count differs from its binding count.
	KindBindingMismatch
	// KindNoRowsFetched is returned by FetchOne when the first Step
	// observes Done.
	KindNoRowsFetched
	// KindColumnCountMismatch is returned when a tuple or single-value
	// decode's arity does not match the row's column count.
	KindColumnCountMismatch
	// KindEngineUnknown wraps any other engine failure, including
	// SQLITE_BUSY.
	KindEngineUnknown
	// KindDecodeTypeMismatch is returned when a value cannot be
	// coerced to the requested primitive type.
	KindDecodeTypeMismatch
	// KindDecodeKeyNotFound is returned when a structural decode
	// requests a column name absent from the row.
	KindDecodeKeyNotFound
	// KindDecodeShape is returned when a structural decode target's
	// shape does not match what the row can provide (e.g. an unkeyed
	// container at row level, or a multi-column row decoded into a
	// single-value container).
	KindDecodeShape
)

func (k Kind) String() string {
	switch k {
	case KindOpenDatabase:
		return "open-database"
	case KindPrepareStatement:
		return "prepare-statement"
	case KindEmptyQuery:
		return "empty-query"
	case KindBindingMismatch:
		return "binding-mismatch"
	case KindNoRowsFetched:
		return "no-rows-fetched"
	case KindColumnCountMismatch:
		return "column-count-mismatch"
	case KindEngineUnknown:
		return "engine-unknown"
	case KindDecodeTypeMismatch:
		return "decode-type-mismatch"
	case KindDecodeKeyNotFound:
		return "decode-key-not-found"
	case KindDecodeShape:
		return "decode-shape"
	default:
		return "unknown"
	}
}

// Error is the single error type this package returns. Every failure
// mode in the taxonomy (see spec §7) is represented by a distinct
// Kind rather than a distinct Go type, so that callers can match on
// Kind directly or use the Is* helpers below with errors.As.
type Error struct {
	Kind Kind

	// Code and Msg are populated for engine-originated errors: Code
	// carries the engine's numeric result code, Msg its message.
	// Non-engine errors leave Code at zero and set Msg to a
	// synthetic, human-readable description.
	Code int32
	Msg  string

	// Query is the SQL text involved, when known. For
	// KindDecodeKeyNotFound it holds the missing column name instead.
	Query string

	// Expected and Got carry the two counts for KindBindingMismatch
	// and KindColumnCountMismatch.
	Expected int
	Got      int

	// Err is the underlying cause, if any (e.g. the *sqliteh.Error
	// this Error was translated from).
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBindingMismatch:
		return fmt.Sprintf("sqlitekit: binding mismatch: expected %d, got %d", e.Expected, e.Got)
	case KindColumnCountMismatch:
		return fmt.Sprintf("sqlitekit: column count mismatch: expected %d, got %d", e.Expected, e.Got)
	case KindEmptyQuery:
		return "sqlitekit: empty query"
	case KindNoRowsFetched:
		return "sqlitekit: no rows fetched"
	case KindDecodeKeyNotFound:
		return fmt.Sprintf("sqlitekit: decode: column %q not found", e.Query)
	default:
		if e.Msg != "" {
			return fmt.Sprintf("sqlitekit: %s: %s", e.Kind, e.Msg)
		}
		return fmt.Sprintf("sqlitekit: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// fromEngine translates a *sqliteh.Error into the taxonomy. query is
// attached for diagnostics.
func fromEngine(kind Kind, query string, err error) *Error {
	var eh *sqliteh.Error
	if errors.As(err, &eh) {
		return &Error{Kind: kind, Code: int32(eh.Code), Msg: eh.Msg, Query: query, Err: err}
	}
	return &Error{Kind: kind, Msg: err.Error(), Query: query, Err: err}
}

func errBindingMismatch(expected, got int) *Error {
	return &Error{Kind: KindBindingMismatch, Expected: expected, Got: got}
}

func errColumnCountMismatch(expected, got int) *Error {
	return &Error{Kind: KindColumnCountMismatch, Expected: expected, Got: got}
}

// IsNoRows reports whether err is (or wraps) a "no rows fetched" error,
// the result of FetchOne finding zero rows.
func IsNoRows(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNoRowsFetched
}

// IsBusy reports whether err is the engine reporting SQLITE_BUSY. The
// caller is responsible for retrying; this package does not retry on
// the caller's behalf (see spec §9).
func IsBusy(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindEngineUnknown && e.Code == int32(sqliteh.CodeBusy)
}

// IsDecodeError reports whether err originated from row or value
// decoding (type mismatch, missing key, shape mismatch, or a tuple
// column-count mismatch).
func IsDecodeError(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindDecodeTypeMismatch, KindDecodeKeyNotFound, KindDecodeShape, KindColumnCountMismatch:
		return true
	default:
		return false
	}
}
