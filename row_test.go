// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import "testing"

func newTestRow() *Row {
	return newRow(
		[]string{"id", "name", "id"},
		[]string{"INTEGER", "TEXT", "INTEGER"},
		[]Value{Integer(1), Text("ada"), Integer(99)},
	)
}

func TestRowAtAndColumnName(t *testing.T) {
	r := newTestRow()
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	if r.ColumnName(1) != "name" {
		t.Errorf("ColumnName(1) = %q, want name", r.ColumnName(1))
	}
	if !r.At(1).Equal(Text("ada")) {
		t.Errorf("At(1) = %v, want Text(ada)", r.At(1))
	}
}

func TestRowLookupFirstMatchWins(t *testing.T) {
	r := newTestRow()
	v, ok := r.Lookup("id")
	if !ok {
		t.Fatal("Lookup(id) not found")
	}
	if !v.Equal(Integer(1)) {
		t.Errorf("Lookup(id) = %v, want Integer(1) (first match)", v)
	}
}

func TestRowLookupMissing(t *testing.T) {
	r := newTestRow()
	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup(missing) found a column that does not exist")
	}
}

func TestRowColumnDeclType(t *testing.T) {
	r := newTestRow()
	if r.ColumnDeclType(1) != "TEXT" {
		t.Errorf("ColumnDeclType(1) = %q, want TEXT", r.ColumnDeclType(1))
	}
}

func TestDecodeGeneric(t *testing.T) {
	r := newTestRow()
	name, err := Decode[string](r, 1)
	if err != nil {
		t.Fatalf("Decode[string]: %v", err)
	}
	if name != "ada" {
		t.Errorf("Decode[string](1) = %q, want ada", name)
	}
}

func TestDecodeNamed(t *testing.T) {
	r := newTestRow()
	id, err := DecodeNamed[int64](r, "id")
	if err != nil {
		t.Fatalf("DecodeNamed: %v", err)
	}
	if id != 1 {
		t.Errorf("DecodeNamed(id) = %d, want 1", id)
	}

	if _, err := DecodeNamed[int64](r, "nope"); !IsDecodeError(err) {
		t.Errorf("DecodeNamed(nope) error = %v, want decode-key-not-found", err)
	}
}
