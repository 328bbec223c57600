// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"reflect"
	"strings"
	"time"
)

// Decoder lets a type take full control of its own decoding from a
// single column value, bypassing the reflection-based struct decoder
// below. Implement it on a named type (e.g. a custom enum) to decode
// it from whatever storage class it was written as.
type Decoder interface {
	DecodeSQLiteValue(v Value) error
}

var timeType = reflect.TypeOf(time.Time{})
var byteSliceType = reflect.TypeOf([]byte(nil))
var valueType = reflect.TypeOf(Value{})

// decodeInto implements the three input shapes of spec §4.3.
func decodeInto(r *Row, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newError(KindDecodeShape, "decode destination must be a non-nil pointer")
	}
	elem := rv.Elem()

	if d, ok := dest.(Decoder); ok {
		if r.Len() != 1 {
			return newError(KindDecodeShape, "single-value container requires exactly one column")
		}
		return d.DecodeSQLiteValue(r.At(0))
	}

	switch elem.Kind() {
	case reflect.Struct:
		if elem.Type() == timeType {
			// time.Time is a single-value container at row level.
			if r.Len() != 1 {
				return newError(KindDecodeShape, "single-value container requires exactly one column")
			}
			return decodeScalarField(elem, r.At(0))
		}
		return decodeKeyedStruct(r, elem)
	case reflect.Slice, reflect.Array:
		return newError(KindDecodeShape, "unkeyed container decoding is not supported at row level")
	default:
		// Single primitive at row level.
		if r.Len() != 1 {
			return newError(KindDecodeShape, "single-value container requires exactly one column")
		}
		return decodeScalarField(elem, r.At(0))
	}
}

// decodeKeyedStruct implements shape 1: a struct whose fields are
// looked up by column name.
func decodeKeyedStruct(r *Row, structValue reflect.Value) error {
	structType := structValue.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		colName := columnNameForField(field)
		if colName == "-" {
			continue
		}
		value, ok := r.Lookup(colName)
		if !ok {
			return &Error{Kind: KindDecodeKeyNotFound, Query: colName}
		}
		if err := decodeField(structValue.Field(i), value); err != nil {
			return err
		}
	}
	return nil
}

// decodeField decodes a single struct field from a single column
// value. A field that is itself a multi-field struct is an error: a
// SQLite cell has no internal structure, so a keyed container cannot
// be nested inside another column's value.
func decodeField(field reflect.Value, v Value) error {
	if field.Kind() == reflect.Pointer {
		if v.IsNull() {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return decodeField(field.Elem(), v)
	}

	if field.CanAddr() {
		if d, ok := field.Addr().Interface().(Decoder); ok {
			return d.DecodeSQLiteValue(v)
		}
	}

	if field.Kind() == reflect.Struct && field.Type() != timeType {
		// A single-field struct is a single-value container that
		// delegates to primitive coercion; anything else nested
		// inside a column value is a shape error.
		if field.NumField() != 1 {
			return newError(KindDecodeShape, "nested keyed container inside a column value is not supported")
		}
		return decodeField(field.Field(0), v)
	}

	return decodeScalarField(field, v)
}

// decodeScalarField decodes v into a primitive reflect.Value (bool,
// any int/uint width, any float width, string, []byte, time.Time).
func decodeScalarField(field reflect.Value, v Value) error {
	switch {
	case field.Type() == timeType:
		t, err := DecodeTime(v)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))
		return nil
	case field.Type() == byteSliceType:
		b, err := DecodeBytes(v)
		if err != nil {
			return err
		}
		field.SetBytes(b)
		return nil
	case field.Type() == valueType:
		field.Set(reflect.ValueOf(v))
		return nil
	}

	switch field.Kind() {
	case reflect.Bool:
		b, err := DecodeBool(v)
		if err != nil {
			return err
		}
		field.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := DecodeInt64(v)
		if err != nil {
			return err
		}
		field.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := DecodeInt64(v)
		if err != nil {
			return err
		}
		field.SetUint(uint64(i))
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := DecodeFloat64(v)
		if err != nil {
			return err
		}
		field.SetFloat(f)
		return nil
	case reflect.String:
		s, err := DecodeString(v)
		if err != nil {
			return err
		}
		field.SetString(s)
		return nil
	default:
		return newError(KindDecodeShape, "unsupported decode field kind "+field.Kind().String())
	}
}

// columnNameForField resolves the column name for a struct field: an
// explicit `db:"name"` tag wins; otherwise the field name is
// converted from UpperCamelCase to snake_case, the prevailing SQLite
// naming convention.
func columnNameForField(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("db"); ok {
		name, _, _ := strings.Cut(tag, ",")
		return name
	}
	return toSnakeCase(field.Name)
}

func toSnakeCase(name string) string {
	runes := []rune(name)
	isUpper := func(r rune) bool { return r >= 'A' && r <= 'Z' }
	var b strings.Builder
	for i, r := range runes {
		if isUpper(r) {
			// A run of capitals (e.g. "ID") stays one word; the run
			// splits only where a capital starts a lowercase word.
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if i > 0 && (!isUpper(runes[i-1]) || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
