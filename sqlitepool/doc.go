// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the two multi-caller connection models
// built on top of sqlitekit.Conn: SharedConn, which serializes every
// caller through a mutex onto one physical connection, and Pool, a
// bounded set of private connections handed out to callers one at a
// time.
//
// # SharedConn
//
// SharedConn owns a single sqlitekit.Conn and a mutex. Every method
// acquires the mutex, performs the operation, and releases it, so no
// two operations run on the connection at once. A statement from
// Prepare stays live between its calls, and each of those calls takes
// the mutex the same way. Because a transaction
// needs exclusive access to its connection for its entire duration,
// and SharedConn's whole purpose is letting unrelated call sites share
// one connection reentrantly, SharedConn does not expose transactions
// at all; use Pool (or a bare sqlitekit.Conn) when a caller needs one.
//
// # Pool
//
// Pool hands out distinct, privately-owned connections — each borrowed
// connection supports the full Conn API, including transactions, for
// the duration of the borrow. The pool is bounded by MaxPoolSize: once
// that many connections exist, a caller that asks for one more waits
// until another caller returns one. Waiters are served in the order
// they arrived (first-in, first-out); an idle connection returned to
// the pool is reused before a new one is opened, so a lightly loaded
// pool tends to keep reusing the same handful of connections rather
// than cycling through all of them.
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//		Path:        "/var/lib/myapp/myapp.db",
//		MaxPoolSize: 8,
//		Logger:      logger,
//	})
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//		return err
//	}
//	defer pool.Put(conn)
package sqlitepool
