// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lucerna-dev/sqlitekit/internal/sqliteh"
)

// OpenMode selects the SQLITE_OPEN_* flags used to open a database
// file, per spec §4.6.
type OpenMode struct {
	readWrite bool
	create    bool
}

// OpenReadOnly opens the database for reading only.
func OpenReadOnly() OpenMode { return OpenMode{} }

// OpenReadWrite opens the database for reading and writing. If create
// is true, the file is created when it does not already exist.
func OpenReadWrite(create bool) OpenMode { return OpenMode{readWrite: true, create: create} }

func (m OpenMode) flags() sqliteh.OpenFlags {
	if !m.readWrite {
		return sqliteh.OpenReadOnly
	}
	if m.create {
		return sqliteh.OpenReadWrite | sqliteh.OpenCreate
	}
	return sqliteh.OpenReadWrite
}

var engineInitOnce sync.Once
var engineInitErr error

func ensureEngineInit() error {
	engineInitOnce.Do(func() {
		engineInitErr = sqliteh.LibraryInit()
	})
	return engineInitErr
}

// engine is the unmanaged connection (spec C6): a thin, non-thread-safe
// adapter over the raw engine handle. It carries no synchronization of
// its own — the connection models built on top (Conn, SharedConn,
// Pool) are responsible for ensuring at most one logical thread of
// control touches it at a time.
type engine struct {
	db       sqliteh.DB
	filename string
	logger   *slog.Logger
}

// openEngine opens filename under mode. On a statically linked build
// the engine's global init runs once, lazily, before the first Open;
// init failure is reported as KindOpenDatabase, matching spec §4.6.
// logger receives implicit cleanup and lifecycle diagnostics; a nil
// logger is replaced with one that discards everything.
func openEngine(filename string, mode OpenMode, logger *slog.Logger) (*engine, error) {
	if err := ensureEngineInit(); err != nil {
		return nil, &Error{Kind: KindOpenDatabase, Msg: "engine initialization failed", Err: err}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	flags := mode.flags() | sqliteh.OpenNoMutex // the library owns serialization
	db, err := sqliteh.Open(filename, flags)
	if err != nil {
		return nil, fromEngine(KindOpenDatabase, "", err)
	}
	return &engine{db: db, filename: filename, logger: logger}, nil
}

// close releases the underlying handle. Idempotent.
func (e *engine) close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	if err != nil {
		return fromEngine(KindEngineUnknown, "", err)
	}
	return nil
}

// execute runs a semicolon-delimited batch of statements with no
// bindings and no result rows. It is injection-unsafe by design: the
// caller must not build script from untrusted input.
func (e *engine) execute(script string) error {
	if err := e.db.Exec(script); err != nil {
		return fromEngine(KindEngineUnknown, script, err)
	}
	return nil
}

func (e *engine) busyTimeout(d time.Duration) error {
	if err := e.db.BusyTimeout(d); err != nil {
		return fromEngine(KindEngineUnknown, "", err)
	}
	return nil
}

func (e *engine) lastInsertRowID() int64 { return e.db.LastInsertRowID() }
func (e *engine) changes() int64         { return e.db.Changes() }
func (e *engine) totalChanges() int64    { return e.db.TotalChanges() }
