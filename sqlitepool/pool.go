// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lucerna-dev/sqlitekit"
)

// defaultMaxPoolSize is applied when Config.MaxPoolSize is zero.
const defaultMaxPoolSize = 20

// Config holds the parameters for opening a connection pool. Path is
// required; all other fields have sensible defaults.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist. The file is created if it does not
	// exist.
	Path string

	// MaxPoolSize bounds how many connections the pool will open at
	// once. If zero or negative, defaults to 20. A Take call beyond
	// this bound waits for a connection to be returned rather than
	// opening a new one.
	MaxPoolSize int

	// Mode selects the SQLITE_OPEN_* flags used for every connection
	// the pool opens. Defaults to OpenReadWrite(true) (create if
	// missing).
	Mode sqlitekit.OpenMode

	// Profile is the pragma profile applied to every connection the
	// pool opens. Defaults to sqlitekit.DefaultPragmaProfile().
	Profile sqlitekit.PragmaProfile

	// Logger receives operational messages (pool open/close). If nil, a
	// no-op logger is used.
	Logger *slog.Logger

	// OnOpen is called once per connection, immediately after Profile
	// is applied. Use it for schema creation or other one-time setup.
	// If OnOpen returns an error, the connection is closed and the
	// error is returned to the caller of Take.
	OnOpen func(conn *sqlitekit.Conn) error
}

// Pool is a bounded set of private sqlitekit.Conn connections (spec
// C12). Callers Take a connection, use the full Conn API (including
// transactions) for as long as they hold it, and Put it back.
//
// Pool is safe for concurrent use. A borrowed *sqlitekit.Conn is not —
// it is private to whichever Take call returned it until the matching
// Put.
type Pool struct {
	mu     sync.Mutex
	cfg    Config
	logger *slog.Logger

	free    []*sqlitekit.Conn // LIFO: most recently idle first
	waiters []chan *sqlitekit.Conn
	current int
	closed  bool
}

// Open creates a new pool. Connections are opened lazily, on Take, so
// the database file is created (if missing and Mode allows it) when the
// first connection is opened. The caller must call Close when the pool
// is no longer needed.
func Open(cfg Config) (*Pool, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlitepool: Path is required")
	}
	if cfg.MaxPoolSize <= 0 {
		cfg.MaxPoolSize = defaultMaxPoolSize
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

	logger.Info("sqlite pool opened", "path", cfg.Path, "max_pool_size", cfg.MaxPoolSize)

	return &Pool{cfg: cfg, logger: logger}, nil
}

// Take borrows a connection: the most recently idle one if any is free,
// otherwise a newly opened one if the pool has not yet reached
// MaxPoolSize, otherwise it waits — in first-come-first-served order —
// for one to be returned. Take blocks until a connection is
// available or ctx is cancelled.
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//		return err
//	}
//	defer pool.Put(conn)
func (p *Pool) Take(ctx context.Context) (*sqlitekit.Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("sqlitepool: pool is closed")
	}

	if n := len(p.free); n > 0 {
		conn := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return conn, nil
	}

	if p.current < p.cfg.MaxPoolSize {
		p.current++
		p.mu.Unlock()
		conn, err := p.openOne()
		if err != nil {
			p.mu.Lock()
			p.current--
			p.mu.Unlock()
			return nil, err
		}
		return conn, nil
	}

	// At capacity: join the FIFO waiter queue.
	ch := make(chan *sqlitekit.Conn, 1)
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	select {
	case conn := <-ch:
		return conn, nil
	case <-ctx.Done():
		p.mu.Lock()
		removed := p.removeWaiter(ch)
		p.mu.Unlock()
		if !removed {
			// A Put already handed a connection to this waiter in the
			// instant before cancellation was observed; take it and
			// give it straight back rather than leaking it.
			conn := <-ch
			p.Put(conn)
		}
		return nil, ctx.Err()
	}
}

func (p *Pool) removeWaiter(ch chan *sqlitekit.Conn) bool {
	for i, w := range p.waiters {
		if w == ch {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Pool) openOne() (*sqlitekit.Conn, error) {
	conn, err := sqlitekit.Open(p.cfg.Path, p.cfg.Mode, p.cfg.Profile, p.logger)
	if err != nil {
		return nil, fmt.Errorf("sqlitepool: opening %s: %w", p.cfg.Path, err)
	}
	if p.cfg.OnOpen != nil {
		if err := p.cfg.OnOpen(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlitepool: OnOpen: %w", err)
		}
	}
	return conn, nil
}

// Put returns a connection to the pool. Safe to call with nil (no-op).
// After Put, the caller must not use the connection again. If a caller
// is already waiting in Take, the connection is handed to the
// longest-waiting one directly instead of going through the free list.
func (p *Pool) Put(conn *sqlitekit.Conn) {
	if conn == nil {
		return
	}
	p.mu.Lock()
	if len(p.waiters) > 0 {
		ch := p.waiters[0]
		p.waiters = p.waiters[1:]
		p.mu.Unlock()
		ch <- conn
		return
	}
	p.free = append(p.free, conn)
	p.mu.Unlock()
}

// Close closes every idle connection in the pool and marks it closed,
// so that subsequent Take calls fail immediately. Close does not wait
// for connections that are currently borrowed; it is the caller's
// responsibility to ensure all borrowed connections have been returned
// before calling Close, typically by Put-ing them via defer.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	free := p.free
	p.free = nil
	p.mu.Unlock()

	var firstErr error
	for _, conn := range free {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		p.logger.Error("sqlite pool close error", "path", p.cfg.Path, "error", firstErr)
		return fmt.Errorf("sqlitepool: closing %s: %w", p.cfg.Path, firstErr)
	}
	p.logger.Info("sqlite pool closed", "path", p.cfg.Path)
	return nil
}
