// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lucerna-dev/sqlitekit"
)

// SharedConfig holds the parameters for opening a SharedConn.
type SharedConfig struct {
	// Path is the filesystem path to the SQLite database file.
	Path string

	// Mode selects the SQLITE_OPEN_* flags. Defaults to
	// OpenReadWrite(true).
	Mode sqlitekit.OpenMode

	// Profile is the pragma profile applied at open. Defaults to
	// sqlitekit.DefaultPragmaProfile().
	Profile sqlitekit.PragmaProfile

	// Logger receives operational messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// SharedConn is a mutex-serialized connection model (spec C11): one
// physical sqlitekit.Conn, shared reentrantly by any number of
// concurrent callers. Every method takes the mutex for the duration of
// a single statement and releases it immediately after, so no caller
// can monopolize the connection across multiple operations the way a
// Pool-borrowed Conn's owner can. Because of that, SharedConn does not
// expose transactions (sqlitekit.Conn.Transaction requires exclusive
// use of its connection for the whole transaction) or Conn.Preparing
// (an incrementally stepped Stmt would likewise hold the connection
// across calls).
//
// SharedConn is safe for concurrent use.
type SharedConn struct {
	mu     sync.Mutex
	conn   *sqlitekit.Conn
	logger *slog.Logger
	path   string
	closed bool
}

// OpenShared opens a new SharedConn.
func OpenShared(cfg SharedConfig) (*SharedConn, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlitepool: Path is required")
	}
	if cfg.Mode == (sqlitekit.OpenMode{}) {
		cfg.Mode = sqlitekit.OpenReadWrite(true)
	}
	if cfg.Profile == (sqlitekit.PragmaProfile{}) {
		cfg.Profile = sqlitekit.DefaultPragmaProfile()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conn, err := sqlitekit.Open(cfg.Path, cfg.Mode, cfg.Profile, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlitepool: opening %s: %w", cfg.Path, err)
	}

	logger.Info("shared sqlite connection opened", "path", cfg.Path)
	return &SharedConn{conn: conn, logger: logger, path: cfg.Path}, nil
}

func (s *SharedConn) checkOpen() error {
	if s.closed {
		return fmt.Errorf("sqlitepool: shared connection is closed")
	}
	return nil
}

// Execute runs script against the shared connection.
func (s *SharedConn) Execute(script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.conn.Execute(script)
}

// Run prepares q, steps it once, and returns execution stats.
func (s *SharedConn) Run(q sqlitekit.Query) (sqlitekit.ExecResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return sqlitekit.ExecResult{}, err
	}
	return s.conn.Run(q)
}

// Exec is Run with the ExecResult discarded.
func (s *SharedConn) Exec(q sqlitekit.Query) error {
	_, err := s.Run(q)
	return err
}

// FetchAll prepares q and returns every row.
func (s *SharedConn) FetchAll(q sqlitekit.Query) ([]*sqlitekit.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.conn.FetchAll(q)
}

// FetchOne prepares q and requires exactly one row.
func (s *SharedConn) FetchOne(q sqlitekit.Query) (*sqlitekit.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.conn.FetchOne(q)
}

// FetchOptional prepares q and returns at most one row.
func (s *SharedConn) FetchOptional(q sqlitekit.Query) (*sqlitekit.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.conn.FetchOptional(q)
}

// FetchAllInto prepares q and decodes every row into dest.
func (s *SharedConn) FetchAllInto(q sqlitekit.Query, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.conn.FetchAllInto(q, dest)
}

// FetchOneInto prepares q and decodes exactly one row into dest.
func (s *SharedConn) FetchOneInto(q sqlitekit.Query, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.conn.FetchOneInto(q, dest)
}

// FetchOptionalInto prepares q and decodes at most one row into dest.
func (s *SharedConn) FetchOptionalInto(q sqlitekit.Query, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	return s.conn.FetchOptionalInto(q, dest)
}

// Prepare prepares q against the shared connection and returns an
// asynchronous statement handle (spec C11): the mutex is not held
// across calls, only the live Stmt is. Each SharedStmt method below re-acquires s's
// mutex for the duration of that one call only, the same way every
// other SharedConn method does, so incremental stepping is still
// possible over a shared connection without one caller monopolizing
// it for an entire fetch loop.
func (s *SharedConn) Prepare(q sqlitekit.Query) (*SharedStmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	stmt, err := s.conn.Prepare(q)
	if err != nil {
		return nil, err
	}
	return &SharedStmt{shared: s, stmt: stmt}, nil
}

// SharedStmt is the asynchronous statement handle SharedConn.Prepare
// returns. It wraps a sqlitekit.Stmt, but unlike a Stmt obtained from
// Conn.Preparing, no single call holds the connection's mutex for
// longer than its own duration — a caller stepping a SharedStmt in a
// loop interleaves, statement by statement, with every other caller
// of the same SharedConn.
type SharedStmt struct {
	shared *SharedConn
	stmt   *sqlitekit.Stmt
}

// ColumnNames returns the statement's column names.
func (ss *SharedStmt) ColumnNames() []string { return ss.stmt.ColumnNames() }

// ColumnDeclTypes returns the statement's declared column types.
func (ss *SharedStmt) ColumnDeclTypes() []string { return ss.stmt.ColumnDeclTypes() }

// Step advances the statement by one row, locking the shared
// connection only for this one call.
func (ss *SharedStmt) Step() (*sqlitekit.Row, error) {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.Step()
}

// Finalize releases the underlying prepared statement. Idempotent.
func (ss *SharedStmt) Finalize() error {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.Finalize()
}

// Run steps the statement once and returns execution stats, locking
// the shared connection only for this one call. Always finalizes.
func (ss *SharedStmt) Run() (sqlitekit.ExecResult, error) {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.Run()
}

// FetchAll steps to completion and returns every row. Always
// finalizes. Holds the shared connection's mutex for the whole fetch,
// since returning partial rows between locked calls would let another
// caller observe the statement mid-iteration.
func (ss *SharedStmt) FetchAll() ([]*sqlitekit.Row, error) {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchAll()
}

// FetchOne requires exactly one row. Always finalizes.
func (ss *SharedStmt) FetchOne() (*sqlitekit.Row, error) {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchOne()
}

// FetchOptional returns at most one row. Always finalizes.
func (ss *SharedStmt) FetchOptional() (*sqlitekit.Row, error) {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchOptional()
}

// FetchOneInto decodes exactly one row into dest.
func (ss *SharedStmt) FetchOneInto(dest any) error {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchOneInto(dest)
}

// FetchOptionalInto decodes at most one row into dest.
func (ss *SharedStmt) FetchOptionalInto(dest any) (bool, error) {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchOptionalInto(dest)
}

// FetchAllInto decodes every row into the slice pointed to by dest.
func (ss *SharedStmt) FetchAllInto(dest any) error {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchAllInto(dest)
}

// FetchOneTuple decodes exactly one row positionally into dest.
func (ss *SharedStmt) FetchOneTuple(dest ...any) error {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchOneTuple(dest...)
}

// FetchOptionalTuple decodes at most one row positionally into dest.
func (ss *SharedStmt) FetchOptionalTuple(dest ...any) (bool, error) {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchOptionalTuple(dest...)
}

// FetchAllTuple decodes every row positionally, appending each
// column's value to the corresponding slice pointer in dest.
func (ss *SharedStmt) FetchAllTuple(dest ...any) error {
	ss.shared.mu.Lock()
	defer ss.shared.mu.Unlock()
	return ss.stmt.FetchAllTuple(dest...)
}

// Close releases the underlying connection. Idempotent.
func (s *SharedConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info("shared sqlite connection closed", "path", s.path)
	return s.conn.Close()
}
