// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"testing"
	"time"
)

type person struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email *string
}

func TestDecodeKeyedStruct(t *testing.T) {
	r := newRow(
		[]string{"id", "name", "email"},
		[]string{"", "", ""},
		[]Value{Integer(1), Text("ada"), Null()},
	)
	var p person
	if err := r.Decode(&p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.ID != 1 || p.Name != "ada" || p.Email != nil {
		t.Errorf("Decode = %+v", p)
	}
}

func TestDecodeKeyedStructDefaultsSnakeCase(t *testing.T) {
	type withDefaultNames struct {
		UserName string
	}
	r := newRow([]string{"user_name"}, []string{""}, []Value{Text("ada")})
	var v withDefaultNames
	if err := r.Decode(&v); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.UserName != "ada" {
		t.Errorf("UserName = %q, want ada", v.UserName)
	}
}

func TestDecodeKeyedStructMissingColumnErrors(t *testing.T) {
	r := newRow([]string{"id"}, []string{""}, []Value{Integer(1)})
	var p person
	err := r.Decode(&p)
	if !IsDecodeError(err) {
		t.Fatalf("Decode error = %v, want decode error", err)
	}
}

func TestDecodeOptionalPointerField(t *testing.T) {
	r := newRow([]string{"id", "name", "email"}, []string{"", "", ""},
		[]Value{Integer(1), Text("ada"), Text("ada@example.com")})
	var p person
	if err := r.Decode(&p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Email == nil || *p.Email != "ada@example.com" {
		t.Errorf("Email = %v, want ada@example.com", p.Email)
	}
}

func TestDecodeSingleValueContainerPrimitive(t *testing.T) {
	r := newRow([]string{"count"}, []string{""}, []Value{Integer(5)})
	var n int64
	if err := r.Decode(&n); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != 5 {
		t.Errorf("n = %d, want 5", n)
	}
}

func TestDecodeSingleValueContainerTime(t *testing.T) {
	r := newRow([]string{"created_at"}, []string{""}, []Value{Integer(0)})
	var ts time.Time
	if err := r.Decode(&ts); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !ts.Equal(time.Unix(0, 0).UTC()) {
		t.Errorf("ts = %v, want unix epoch", ts)
	}
}

func TestDecodeSingleValueContainerRejectsMultiColumn(t *testing.T) {
	r := newRow([]string{"a", "b"}, []string{"", ""}, []Value{Integer(1), Integer(2)})
	var n int64
	if err := r.Decode(&n); !IsDecodeError(err) {
		t.Errorf("Decode error = %v, want decode-shape error", err)
	}
}

func TestDecodeUnkeyedContainerIsUnsupported(t *testing.T) {
	r := newRow([]string{"a", "b"}, []string{"", ""}, []Value{Integer(1), Integer(2)})
	var xs []int64
	err := r.Decode(&xs)
	if !IsDecodeError(err) {
		t.Fatalf("Decode error = %v, want decode-shape error", err)
	}
}

func TestDecodeRequiresNonNilPointer(t *testing.T) {
	r := newRow([]string{"a"}, []string{""}, []Value{Integer(1)})
	var n int64
	if err := r.Decode(n); err == nil {
		t.Error("Decode(non-pointer) succeeded, want error")
	}
}

type customDecoder struct {
	raw Value
}

func (c *customDecoder) DecodeSQLiteValue(v Value) error {
	c.raw = v
	return nil
}

func TestDecodeCustomDecoderAtRowLevel(t *testing.T) {
	r := newRow([]string{"x"}, []string{""}, []Value{Integer(9)})
	var c customDecoder
	if err := r.Decode(&c); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !c.raw.Equal(Integer(9)) {
		t.Errorf("raw = %v, want Integer(9)", c.raw)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ID":       "id",
		"UserName": "user_name",
		"Name":     "name",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
