// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"log/slog"
	"time"
)

// PragmaProfile is an opt-in set of connection-wide pragmas applied
// immediately after Open. The zero value applies nothing; callers who
// want the WAL-oriented defaults the sqlitepool connection models and
// the bench command use should start from DefaultPragmaProfile.
type PragmaProfile struct {
	// JournalWAL switches the journal mode to WAL.
	JournalWAL bool
	// ForeignKeys enables foreign key constraint enforcement.
	ForeignKeys bool
	// BusyTimeout bounds how long the engine itself will wait for a
	// lock before reporting SQLITE_BUSY. This does not retry on the
	// caller's behalf (see IsBusy); it only reduces spurious busy
	// errors caused by momentary lock contention.
	BusyTimeout time.Duration
}

// DefaultPragmaProfile returns the profile sqlitepool's Pool and
// SharedConn apply when their config leaves Profile zero: WAL
// journaling, foreign keys on, and a five second busy timeout.
func DefaultPragmaProfile() PragmaProfile {
	return PragmaProfile{JournalWAL: true, ForeignKeys: true, BusyTimeout: 5 * time.Second}
}

func (p PragmaProfile) apply(e *engine) error {
	if p.BusyTimeout > 0 {
		if err := e.busyTimeout(p.BusyTimeout); err != nil {
			return err
		}
	}
	if p.JournalWAL {
		if err := e.execute("PRAGMA journal_mode=WAL;"); err != nil {
			return err
		}
	}
	if p.ForeignKeys {
		if err := e.execute("PRAGMA foreign_keys=ON;"); err != nil {
			return err
		}
	}
	return nil
}

// Conn is a single-thread connection (spec C9): it owns exactly one
// engine connection and assumes the caller never touches it from more
// than one goroutine concurrently. It is the only connection model
// that supports transactions, since a transaction's "no other
// statement may interleave" requirement only holds when there is a
// single caller to begin with.
//
// Conn is non-copyable in spirit: copying the struct would alias the
// same *engine from two call sites. Always pass *Conn.
type Conn struct {
	engine *engine
	closed bool
}

// Open opens filename under mode as a single-thread Conn. profile's
// pragmas, if any, are applied once, immediately after open. logger
// receives lifecycle and best-effort-cleanup diagnostics; nil is
// replaced with a discarding logger.
func Open(filename string, mode OpenMode, profile PragmaProfile, logger *slog.Logger) (*Conn, error) {
	e, err := openEngine(filename, mode, logger)
	if err != nil {
		return nil, err
	}
	if err := profile.apply(e); err != nil {
		e.close()
		return nil, err
	}
	e.logger.Info("sqlitekit: connection opened", "filename", filename)
	return &Conn{engine: e}, nil
}

func (c *Conn) checkOpen() error {
	if c.closed {
		return newError(KindEngineUnknown, "connection is closed")
	}
	return nil
}

// Execute runs script (no bindings, no result rows) directly against
// the engine. Like engine.execute, this is injection-unsafe by design.
func (c *Conn) Execute(script string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.engine.execute(script)
}

// Run prepares q, steps it once, and returns execution stats,
// finalizing the statement on every exit.
func (c *Conn) Run(q Query) (ExecResult, error) {
	if err := c.checkOpen(); err != nil {
		return ExecResult{}, err
	}
	s, err := prepareStmt(c.engine, q)
	if err != nil {
		return ExecResult{}, err
	}
	return s.Run()
}

// Exec is Run with the ExecResult discarded, for callers who only care
// whether q succeeded.
func (c *Conn) Exec(q Query) error {
	_, err := c.Run(q)
	return err
}

// FetchAll prepares q and returns every row, finalizing on every exit.
func (c *Conn) FetchAll(q Query) ([]*Row, error) {
	s, err := c.prepare(q)
	if err != nil {
		return nil, err
	}
	return s.FetchAll()
}

// FetchOne prepares q and requires exactly one row.
func (c *Conn) FetchOne(q Query) (*Row, error) {
	s, err := c.prepare(q)
	if err != nil {
		return nil, err
	}
	return s.FetchOne()
}

// FetchOptional prepares q and returns at most one row.
func (c *Conn) FetchOptional(q Query) (*Row, error) {
	s, err := c.prepare(q)
	if err != nil {
		return nil, err
	}
	return s.FetchOptional()
}

// FetchAllInto prepares q and decodes every row into dest (a pointer
// to a slice), per Stmt.FetchAllInto.
func (c *Conn) FetchAllInto(q Query, dest any) error {
	s, err := c.prepare(q)
	if err != nil {
		return err
	}
	return s.FetchAllInto(dest)
}

// FetchOneInto prepares q and decodes exactly one row into dest.
func (c *Conn) FetchOneInto(q Query, dest any) error {
	s, err := c.prepare(q)
	if err != nil {
		return err
	}
	return s.FetchOneInto(dest)
}

// FetchOptionalInto prepares q and decodes at most one row into dest.
func (c *Conn) FetchOptionalInto(q Query, dest any) (bool, error) {
	s, err := c.prepare(q)
	if err != nil {
		return false, err
	}
	return s.FetchOptionalInto(dest)
}

// FetchOneTuple prepares q and decodes exactly one row positionally
// into dest, a list of pointers to primitive targets.
func (c *Conn) FetchOneTuple(q Query, dest ...any) error {
	s, err := c.prepare(q)
	if err != nil {
		return err
	}
	return s.FetchOneTuple(dest...)
}

// FetchOptionalTuple prepares q and decodes at most one row
// positionally into dest.
func (c *Conn) FetchOptionalTuple(q Query, dest ...any) (bool, error) {
	s, err := c.prepare(q)
	if err != nil {
		return false, err
	}
	return s.FetchOptionalTuple(dest...)
}

// FetchAllTuple prepares q and decodes every row positionally,
// appending each column's value to the corresponding slice pointer in
// dest (one *[]T per column).
func (c *Conn) FetchAllTuple(q Query, dest ...any) error {
	s, err := c.prepare(q)
	if err != nil {
		return err
	}
	return s.FetchAllTuple(dest...)
}

func (c *Conn) prepare(q Query) (*Stmt, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return prepareStmt(c.engine, q)
}

// Prepare prepares q and returns the live Stmt for manual incremental
// use. Unlike Preparing, the caller is responsible for calling
// Stmt.Finalize when done — this is the escape hatch a connection
// model built on top of Conn (e.g. sqlitepool.SharedConn) needs to
// hold a statement across multiple separately-locked operations.
func (c *Conn) Prepare(q Query) (*Stmt, error) {
	return c.prepare(q)
}

// Preparing prepares q and invokes block with the live Stmt, then
// finalizes the statement on every exit from block — normal return,
// error return, or panic. This is the escape hatch for manual
// incremental stepping (Stmt.Step directly) when none of the terminal
// fetchers fit; block must not retain the Stmt past its own return.
func (c *Conn) Preparing(q Query, block func(*Stmt) error) error {
	s, err := c.prepare(q)
	if err != nil {
		return err
	}
	defer s.Finalize()
	return block(s)
}

// Close releases the underlying engine connection. Idempotent.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.engine.logger.Info("sqlitekit: connection closed", "filename", c.engine.filename)
	return c.engine.close()
}
