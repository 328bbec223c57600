// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

// Encode converts a host primitive into a Value. Supported inputs:
// bool, every built-in integer type, float32/float64, string, []byte,
// Blob, time.Time, nil (encodes as null), and a pointer to any of the
// above (nil pointer encodes as null, non-nil delegates to the
// pointee — this is how Optional is expressed in Go).
//
// Encode never panics: a type outside the supported set is reported
// as a KindDecodeTypeMismatch error, much as encoding/json's Marshal
// reports an unsupported type, since a Bound Query is built
// incrementally and a caller may want to recover from a bad fragment.
func Encode(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		if x {
			return Integer(1), nil
		}
		return Integer(0), nil
	case int:
		return Integer(int64(x)), nil
	case int8:
		return Integer(int64(x)), nil
	case int16:
		return Integer(int64(x)), nil
	case int32:
		return Integer(int64(x)), nil
	case int64:
		return Integer(x), nil
	case uint:
		return Integer(int64(x)), nil
	case uint8:
		return Integer(int64(x)), nil
	case uint16:
		return Integer(int64(x)), nil
	case uint32:
		return Integer(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, newError(KindDecodeTypeMismatch, fmt.Sprintf("uint64 value %d overflows int64", x))
		}
		return Integer(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return Text(x), nil
	case []byte:
		if len(x) == 0 {
			return BlobValue(EmptyBlob()), nil
		}
		return BlobValue(LoadedBlob(x)), nil
	case Blob:
		return BlobValue(x), nil
	case time.Time:
		return Text(x.UTC().Format("2006-01-02T15:04:05.000Z")), nil
	case *bool:
		return encodePtr(x)
	case *int:
		return encodePtr(x)
	case *int64:
		return encodePtr(x)
	case *float64:
		return encodePtr(x)
	case *string:
		return encodePtr(x)
	case *time.Time:
		return encodePtr(x)
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return Null(), nil
			}
			return Encode(rv.Elem().Interface())
		}
		return Value{}, newError(KindDecodeTypeMismatch, fmt.Sprintf("unsupported bind type %T", v))
	}
}

func encodePtr[T any](p *T) (Value, error) {
	if p == nil {
		return Null(), nil
	}
	return Encode(*p)
}

// DecodeBool implements the bool coercion rule from spec §4.1:
// integer 0 decodes to true, any other integer decodes to false. This
// is the inverse of the usual convention; it is preserved deliberately
// (see spec §9) rather than "fixed". No other Value kind coerces to
// bool.
func DecodeBool(v Value) (bool, error) {
	if v.Kind() != KindInteger {
		return false, typeMismatch(v, "bool")
	}
	return v.AsInteger() == 0, nil
}

// DecodeInt64 coerces v to an int64: directly from an integer value,
// or from a float value only when it is integral and representable
// without loss.
func DecodeInt64(v Value) (int64, error) {
	switch v.Kind() {
	case KindInteger:
		return v.AsInteger(), nil
	case KindFloat:
		f := v.AsFloat()
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot
		// hold, so the upper bound is exclusive.
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, typeMismatch(v, "int64")
		}
		return int64(f), nil
	default:
		return 0, typeMismatch(v, "int64")
	}
}

// DecodeInt decodes v as int64 and range-checks it against the host
// int width (relevant on 32-bit platforms).
func DecodeInt(v Value) (int, error) {
	i64, err := DecodeInt64(v)
	if err != nil {
		return 0, err
	}
	if int64(int(i64)) != i64 {
		return 0, typeMismatch(v, "int")
	}
	return int(i64), nil
}

// DecodeFloat64 coerces v to a float64: directly from a float value,
// or by exact conversion from an integer value (integers up to 2^53
// convert losslessly; this function does not additionally check that,
// matching spec §4.1's "exact conversion" wording for the integer ->
// float direction).
func DecodeFloat64(v Value) (float64, error) {
	switch v.Kind() {
	case KindFloat:
		return v.AsFloat(), nil
	case KindInteger:
		return float64(v.AsInteger()), nil
	default:
		return 0, typeMismatch(v, "float64")
	}
}

// DecodeString coerces v to a string. Only a text Value decodes to
// string; no coercion from other kinds.
func DecodeString(v Value) (string, error) {
	if v.Kind() != KindText {
		return "", typeMismatch(v, "string")
	}
	return v.AsText(), nil
}

// DecodeBytes coerces v to a byte slice. Only a blob Value decodes to
// []byte.
func DecodeBytes(v Value) ([]byte, error) {
	if v.Kind() != KindBlob {
		return nil, typeMismatch(v, "[]byte")
	}
	return v.AsBlob().Bytes(), nil
}

// DecodeTime coerces v to a time.Time per spec §6: integer and float
// values are Unix epoch seconds (float carries fractional seconds to
// millisecond resolution); text values are parsed with the permissive
// ISO-8601-ish grammar.
func DecodeTime(v Value) (time.Time, error) {
	switch v.Kind() {
	case KindInteger:
		return dateFromEpochSeconds(float64(v.AsInteger())), nil
	case KindFloat:
		return dateFromEpochSeconds(v.AsFloat()), nil
	case KindText:
		t, err := parseDateText(v.AsText())
		if err != nil {
			return time.Time{}, typeMismatchWith(v, "time.Time", err)
		}
		return t, nil
	default:
		return time.Time{}, typeMismatch(v, "time.Time")
	}
}

func typeMismatch(v Value, want string) error {
	return &Error{
		Kind: KindDecodeTypeMismatch,
		Msg:  fmt.Sprintf("cannot decode %s value as %s", v.Kind(), want),
	}
}

func typeMismatchWith(v Value, want string, cause error) error {
	return &Error{
		Kind: KindDecodeTypeMismatch,
		Msg:  fmt.Sprintf("cannot decode %s value as %s: %v", v.Kind(), want, cause),
		Err:  cause,
	}
}
