// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import "time"

// Row is an immutable, ordered sequence of (column name, value) pairs
// of equal length, produced by stepping a Stmt. Column names were
// materialized once at statement preparation and are shared by every
// Row a given Stmt produces.
type Row struct {
	columns   []string
	declTypes []string
	values    []Value
}

// newRow is called only by Stmt after a successful Step.
func newRow(columns, declTypes []string, values []Value) *Row {
	return &Row{columns: columns, declTypes: declTypes, values: values}
}

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.values) }

// ColumnName returns the name of the column at index i.
func (r *Row) ColumnName(i int) string { return r.columns[i] }

// ColumnNames returns all column names, in column order.
func (r *Row) ColumnNames() []string { return r.columns }

// ColumnDeclType returns the declared type of the column at index i,
// as it appeared in the table's CREATE TABLE statement, or "" for an
// expression column with no declared type.
func (r *Row) ColumnDeclType(i int) string { return r.declTypes[i] }

// At returns the value at index i.
func (r *Row) At(i int) Value { return r.values[i] }

// Lookup returns the value of the first column named name, and
// whether such a column exists. Duplicate column names are legal in
// SQLite's result sets; only the first is addressable by name.
func (r *Row) Lookup(name string) (Value, bool) {
	for i, col := range r.columns {
		if col == name {
			return r.values[i], true
		}
	}
	return Value{}, false
}

// scanAny decodes v into the primitive type requested at runtime,
// dispatched by a zero value of that type. It backs both the
// positional and named generic decode helpers below.
func scanAny[T any](v Value) (T, error) {
	var zero T
	var out any
	var err error
	switch any(zero).(type) {
	case bool:
		out, err = DecodeBool(v)
	case int:
		out, err = DecodeInt(v)
	case int64:
		out, err = DecodeInt64(v)
	case float64:
		out, err = DecodeFloat64(v)
	case string:
		out, err = DecodeString(v)
	case []byte:
		out, err = DecodeBytes(v)
	case time.Time:
		out, err = DecodeTime(v)
	case Value:
		out, err = v, nil
	default:
		return zero, newError(KindDecodeTypeMismatch, "unsupported scan target type")
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// Decode decodes the value at column index i into T. T must be one of
// the primitive types the codec supports (bool, int, int64, float64,
// string, []byte, time.Time, Value).
func Decode[T any](r *Row, i int) (T, error) {
	return scanAny[T](r.At(i))
}

// DecodeNamed decodes the value of the first column named name into T.
// Returns a KindDecodeKeyNotFound error if no column has that name.
func DecodeNamed[T any](r *Row, name string) (T, error) {
	v, ok := r.Lookup(name)
	if !ok {
		var zero T
		return zero, &Error{Kind: KindDecodeKeyNotFound, Query: name}
	}
	return scanAny[T](v)
}

// Decode decodes the row into dest: a pointer to a struct whose
// fields are looked up by column name (the keyed-container shape), or
// a pointer to a single primitive (only legal when the row has
// exactly one column). An unkeyed container (slice or array) at row
// level is not supported and returns a KindDecodeShape error — for
// positional tuple decode, use ScanTuple or one of Stmt's tuple
// fetchers instead.
func (r *Row) Decode(dest any) error {
	return decodeInto(r, dest)
}
