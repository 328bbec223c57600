// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitekit is a type-safe binding library over an embedded
// SQLite engine, linked through the raw C ABI in internal/sqliteh.
//
// The engine itself is an external collaborator; this package is the
// safe interaction layer around it: a Value variant for SQLite's
// dynamic storage types, a Builder for constructing injection-safe
// parameterized Query values, a non-copyable Stmt enforcing
// once-only terminal fetches and deterministic finalization, and
// Row/struct decoding with explicit coercion rules.
//
// Conn is a single-thread connection supporting transactions. The
// sqlitepool package builds two more connection models on top of it:
// SharedConn, a mutex-serialized connection any number of goroutines
// can share, and Pool, a bounded pool of private connections with
// fair FIFO waiting.
//
//	conn, err := sqlitekit.Open(":memory:", sqlitekit.OpenReadWrite(true), sqlitekit.PragmaProfile{}, nil)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	if err := conn.Execute("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
//		return err
//	}
//
//	q, err := sqlitekit.NewBuilder().
//		Text("INSERT INTO users (name) VALUES (").Bind("ada").Text(")").
//		Build()
//	if err != nil {
//		return err
//	}
//	if _, err := conn.Run(q); err != nil {
//		return err
//	}
package sqlitekit
