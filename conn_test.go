// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import "testing"

func openMemConn(t *testing.T) *Conn {
	t.Helper()
	conn, err := Open(":memory:", OpenReadWrite(true), PragmaProfile{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return conn
}

func TestConnRunAndFetch(t *testing.T) {
	conn := openMemConn(t)

	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT NOT NULL);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	q, err := NewBuilder().Text("INSERT INTO t (name) VALUES (").Bind("ada").Text(")").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	result, err := conn.Run(q)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.LastInsertRowID != 1 {
		t.Errorf("LastInsertRowID = %d, want 1", result.LastInsertRowID)
	}
	if result.RowsAffected != 1 {
		t.Errorf("RowsAffected = %d, want 1", result.RowsAffected)
	}

	row, err := conn.FetchOne(SQL("SELECT id, name FROM t"))
	if err != nil {
		t.Fatalf("FetchOne: %v", err)
	}
	name, err := Decode[string](row, 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if name != "ada" {
		t.Errorf("name = %q, want ada", name)
	}
}

func TestConnFetchOneNoRowsErrors(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	_, err := conn.FetchOne(SQL("SELECT id FROM t"))
	if !IsNoRows(err) {
		t.Fatalf("FetchOne error = %v, want no-rows-fetched", err)
	}
}

func TestConnFetchOptionalNoRows(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	row, err := conn.FetchOptional(SQL("SELECT id FROM t"))
	if err != nil {
		t.Fatalf("FetchOptional: %v", err)
	}
	if row != nil {
		t.Error("expected nil row")
	}
}

func TestConnBindingMismatchError(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	q := Query{text: "SELECT * FROM t WHERE id = ?", bindings: nil}
	_, err := conn.FetchAll(q)
	var target *Error
	if !isSqlitekitError(err, &target) || target.Kind != KindBindingMismatch {
		t.Fatalf("FetchAll error = %v, want binding-mismatch", err)
	}
}

func isSqlitekitError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}

func TestConnFetchAllIntoStruct(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT NOT NULL);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := conn.Execute("INSERT INTO t (name) VALUES ('a'), ('b');"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	var rows []row
	if err := conn.FetchAllInto(SQL("SELECT id, name FROM t ORDER BY id"), &rows); err != nil {
		t.Fatalf("FetchAllInto: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "a" || rows[1].Name != "b" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestConnPreparingFinalizesOnAllExits(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := conn.Execute("INSERT INTO t (id) VALUES (1), (2), (3);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var seen []int64
	err := conn.Preparing(SQL("SELECT id FROM t ORDER BY id"), func(s *Stmt) error {
		for {
			row, err := s.Step()
			if err != nil {
				return err
			}
			if row == nil {
				return nil
			}
			id, err := Decode[int64](row, 0)
			if err != nil {
				return err
			}
			seen = append(seen, id)
		}
	})
	if err != nil {
		t.Fatalf("Preparing: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("seen = %v, want 3 ids", seen)
	}
}

func TestConnFetchTupleVariants(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (a INTEGER, b TEXT);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := conn.Execute("INSERT INTO t (a, b) VALUES (1, 'x'), (2, 'y');"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var a int64
	var b string
	if err := conn.FetchOneTuple(SQL("SELECT a, b FROM t WHERE a = 1"), &a, &b); err != nil {
		t.Fatalf("FetchOneTuple: %v", err)
	}
	if a != 1 || b != "x" {
		t.Errorf("a=%d b=%q, want 1 x", a, b)
	}

	found, err := conn.FetchOptionalTuple(SQL("SELECT a, b FROM t WHERE a = 99"), &a, &b)
	if err != nil {
		t.Fatalf("FetchOptionalTuple: %v", err)
	}
	if found {
		t.Error("FetchOptionalTuple found = true, want false")
	}

	var ids []int64
	var names []string
	if err := conn.FetchAllTuple(SQL("SELECT a, b FROM t ORDER BY a"), &ids, &names); err != nil {
		t.Fatalf("FetchAllTuple: %v", err)
	}
	if len(ids) != 2 || len(names) != 2 {
		t.Fatalf("ids=%v names=%v, want 2 rows each", ids, names)
	}
}

func TestTxFetchTupleVariants(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Execute("CREATE TABLE t (a INTEGER, b TEXT);"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	err := conn.Transaction(TxImmediate, func(tx *Tx) error {
		if err := tx.Exec(SQL("INSERT INTO t (a, b) VALUES (1, 'x')")); err != nil {
			return err
		}
		var a int64
		var b string
		if err := tx.FetchOneTuple(SQL("SELECT a, b FROM t"), &a, &b); err != nil {
			return err
		}
		if a != 1 || b != "x" {
			t.Errorf("a=%d b=%q, want 1 x", a, b)
		}
		var ids []int64
		var names []string
		return tx.FetchAllTuple(SQL("SELECT a, b FROM t"), &ids, &names)
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
}

func TestConnCloseIdempotent(t *testing.T) {
	conn := openMemConn(t)
	if err := conn.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := conn.Execute("SELECT 1"); err == nil {
		t.Fatal("expected error using a closed connection")
	}
}
