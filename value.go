// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import "fmt"

// ValueKind identifies which of SQLite's five dynamic storage classes
// a Value holds.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return "invalid"
	}
}

// Blob is a variant over an empty blob and a loaded (in-memory) blob.
// SQLite distinguishes a zero-length blob from a bound zeroblob of a
// given size for incremental-write purposes; this library treats both
// as the empty case since incremental blob I/O is out of scope.
type Blob struct {
	loaded bool
	bytes  []byte
}

// EmptyBlob returns the empty blob variant.
func EmptyBlob() Blob { return Blob{} }

// LoadedBlob wraps b as the loaded blob variant. b is not copied;
// callers must not mutate it after passing it in.
func LoadedBlob(b []byte) Blob { return Blob{loaded: true, bytes: b} }

// IsEmpty reports whether b holds no bytes.
func (b Blob) IsEmpty() bool { return !b.loaded || len(b.bytes) == 0 }

// Bytes returns the blob's contents. For the empty variant this is nil.
func (b Blob) Bytes() []byte { return b.bytes }

func (b Blob) equal(other Blob) bool {
	if b.IsEmpty() != other.IsEmpty() {
		return false
	}
	if len(b.bytes) != len(other.bytes) {
		return false
	}
	for i := range b.bytes {
		if b.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}

// Value is an immutable tagged variant over SQLite's dynamic storage
// types: null, 64-bit signed integer, 64-bit IEEE-754 float, UTF-8
// text, and blob. Equality is structural (see Value.Equal).
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	b    Blob
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Integer returns the integer value v.
func Integer(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float returns the float value v.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns the UTF-8 text value v.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// BlobValue returns the blob value v.
func BlobValue(v Blob) Value { return Value{kind: KindBlob, b: v} }

// Kind reports which storage class v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInteger returns v's integer payload. Valid only when Kind is
// KindInteger; callers should check Kind first or use the codec.
func (v Value) AsInteger() int64 { return v.i }

// AsFloat returns v's float payload. Valid only when Kind is KindFloat.
func (v Value) AsFloat() float64 { return v.f }

// AsText returns v's text payload. Valid only when Kind is KindText.
func (v Value) AsText() string { return v.s }

// AsBlob returns v's blob payload. Valid only when Kind is KindBlob.
func (v Value) AsBlob() Blob { return v.b }

// Equal reports whether v and other hold the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindText:
		return v.s == other.s
	case KindBlob:
		return v.b.equal(other.b)
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%v", v.f)
	case KindText:
		return v.s
	case KindBlob:
		return fmt.Sprintf("blob(%d bytes)", len(v.b.bytes))
	default:
		return "<invalid>"
	}
}
