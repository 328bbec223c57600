// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"errors"
	"testing"
)

func TestTransactionCommits(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	err := conn.Transaction(TxImmediate, func(tx *Tx) error {
		if _, err := tx.Run(SQL("INSERT INTO t (id) VALUES (1)")); err != nil {
			return err
		}
		_, err := tx.Run(SQL("INSERT INTO t (id) VALUES (2)"))
		return err
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}

	rows, err := conn.FetchAll(SQL("SELECT id FROM t ORDER BY id"))
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	sentinel := errors.New("boom")
	err := conn.Transaction(TxDeferred, func(tx *Tx) error {
		if _, err := tx.Run(SQL("INSERT INTO t (id) VALUES (1)")); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Transaction error = %v, want sentinel", err)
	}

	rows, err := conn.FetchAll(SQL("SELECT id FROM t"))
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0 after rollback", len(rows))
	}
}

func TestTransactionRollsBackOnPanic(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic to propagate")
			}
		}()
		conn.Transaction(TxDeferred, func(tx *Tx) error {
			if _, err := tx.Run(SQL("INSERT INTO t (id) VALUES (1)")); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	rows, err := conn.FetchAll(SQL("SELECT id FROM t"))
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0 after rollback from panic", len(rows))
	}
}
