// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqliteh is the raw C ABI layer onto the embedded SQLite
// engine. It has as few opinions as possible: every exported name maps
// to exactly one SQLite C function, and nothing here enforces
// lifecycle discipline, injection safety, or type coercion — that is
// the job of the packages built on top of it.
//
// Nothing in this package is safe for concurrent use on a single DB or
// Stmt from more than one goroutine at a time. Callers above this
// layer (sqlitekit.Conn, sqlitekit/sqlitepool.SharedConn) own that
// discipline.
package sqliteh

import "time"

// OpenFlags mirrors the SQLITE_OPEN_* flag bits passed to
// sqlite3_open_v2.
// https://sqlite.org/c3ref/open.html
type OpenFlags int32

const (
	OpenReadOnly     OpenFlags = 0x00000001
	OpenReadWrite    OpenFlags = 0x00000002
	OpenCreate       OpenFlags = 0x00000004
	OpenURI          OpenFlags = 0x00000040
	OpenMemory       OpenFlags = 0x00000080
	OpenNoMutex      OpenFlags = 0x00008000
	OpenFullMutex    OpenFlags = 0x00010000
	OpenSharedCache  OpenFlags = 0x00020000
	OpenPrivateCache OpenFlags = 0x00040000
)

// Code is an sqlite3 primary or extended result code.
// https://sqlite.org/rescode.html
type Code int32

const (
	CodeOK        Code = 0
	CodeRow       Code = 100
	CodeDone      Code = 101
	CodeBusy      Code = 5
	CodeLocked    Code = 6
	CodeMisuse    Code = 21
	CodeConstrain Code = 19
	CodeError     Code = 1
)

// ColumnType mirrors the SQLITE_{INTEGER,FLOAT,TEXT,BLOB,NULL}
// storage-class constants returned by sqlite3_column_type.
type ColumnType int32

const (
	ColumnInteger ColumnType = 1
	ColumnFloat   ColumnType = 2
	ColumnText    ColumnType = 3
	ColumnBlob    ColumnType = 4
	ColumnNull    ColumnType = 5
)

// Error wraps a non-OK sqlite3 result code with the connection's most
// recent error message. It is the only error type this package
// returns; the layers above translate it into the taxonomy documented
// in sqlitekit.Error.
type Error struct {
	Code Code
	Msg  string
	Loc  string // which sqlite3_* call failed, for diagnostics
}

func (e *Error) Error() string {
	if e.Loc != "" {
		return "sqliteh: " + e.Loc + ": " + e.Msg
	}
	return "sqliteh: " + e.Msg
}

// DB is an opaque handle onto an sqlite3* database connection.
// https://sqlite.org/c3ref/sqlite3.html
type DB interface {
	// Close is sqlite3_close_v2. Idempotent: closing an already-closed
	// DB returns nil.
	Close() error

	// Prepare is sqlite3_prepare_v2. A query containing only
	// whitespace or comments yields a nil Stmt and no error, per
	// sqlite3's own contract for empty input.
	Prepare(query string) (Stmt, error)

	// Exec is sqlite3_exec: runs a semicolon-delimited batch of
	// statements with no bindings and no result rows. Used only by
	// the unmanaged connection's Execute, which is explicitly
	// injection-unsafe.
	Exec(script string) error

	// Changes is sqlite3_changes64: rows changed by the most recently
	// completed INSERT/UPDATE/DELETE on this connection.
	Changes() int64

	// TotalChanges is sqlite3_total_changes64: rows changed since the
	// connection was opened, including changes made by triggers and
	// foreign key actions.
	TotalChanges() int64

	// LastInsertRowID is sqlite3_last_insert_rowid.
	LastInsertRowID() int64

	// BusyTimeout is sqlite3_busy_timeout.
	BusyTimeout(d time.Duration) error
}

// Stmt is an opaque handle onto an sqlite3_stmt* prepared statement.
// https://sqlite.org/c3ref/stmt.html
type Stmt interface {
	// ColumnCount is sqlite3_column_count. Valid immediately after
	// Prepare, before the first Step.
	ColumnCount() int

	// ColumnName is sqlite3_column_name.
	ColumnName(col int) string

	// ColumnDeclType is sqlite3_column_decltype. Returns "" for
	// expression columns that have no declared type.
	ColumnDeclType(col int) string

	// BindParameterCount is sqlite3_bind_parameter_count: the number
	// of "?" placeholders in the prepared text.
	BindParameterCount() int

	BindNull(pos int) error
	BindInt64(pos int, v int64) error
	BindDouble(pos int, v float64) error
	// BindText binds a transient copy: SQLite copies the bytes before
	// the call returns, so the caller may reuse or discard v.
	BindText(pos int, v string) error
	// BindBlob binds a transient copy, or a static empty blob if v is
	// empty (avoiding a copy of a zero-length buffer).
	BindBlob(pos int, v []byte) error

	// Step is sqlite3_step. Returns (true, nil) for SQLITE_ROW,
	// (false, nil) for SQLITE_DONE, (false, err) otherwise.
	Step() (row bool, err error)

	ColumnType(col int) ColumnType
	ColumnInt64(col int) int64
	ColumnDouble(col int) float64
	ColumnText(col int) string
	ColumnBlob(col int) []byte

	// Reset is sqlite3_reset + sqlite3_clear_bindings: rewinds the
	// statement so it can be stepped again with fresh bindings.
	Reset() error

	// Finalize is sqlite3_finalize. Idempotent: finalizing an
	// already-finalized Stmt returns nil.
	Finalize() error
}

// LibraryInit is sqlite3_initialize. Statically-linked builds of the
// engine require this to be called once before the first Open; when
// the engine is provided by the host as a shared library it is
// expected to already be initialized, and calling this again is
// harmless (sqlite3_initialize is itself idempotent) but unnecessary.
var LibraryInit func() error

// Open is sqlite3_open_v2.
var Open func(filename string, flags OpenFlags) (DB, error)
