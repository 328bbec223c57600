// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"testing"
	"time"
)

func TestEncodePrimitives(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool true", true, Integer(1)},
		{"bool false", false, Integer(0)},
		{"int", 42, Integer(42)},
		{"int64", int64(42), Integer(42)},
		{"uint8", uint8(5), Integer(5)},
		{"float64", 1.5, Float(1.5)},
		{"string", "hi", Text("hi")},
		{"empty bytes", []byte{}, BlobValue(EmptyBlob())},
		{"bytes", []byte("x"), BlobValue(LoadedBlob([]byte("x")))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode(%v): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Encode(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeNilPointerIsNull(t *testing.T) {
	var p *int
	got, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !got.IsNull() {
		t.Errorf("Encode(nil *int) = %v, want null", got)
	}
}

func TestEncodeNonNilPointerDelegates(t *testing.T) {
	v := 7
	got, err := Encode(&v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !got.Equal(Integer(7)) {
		t.Errorf("Encode(&7) = %v, want Integer(7)", got)
	}
}

func TestEncodeUint64Overflow(t *testing.T) {
	_, err := Encode(uint64(1) << 63)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if !IsDecodeError(err) {
		t.Errorf("expected decode-type-mismatch error, got %v", err)
	}
}

func TestEncodeTime(t *testing.T) {
	in := time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)
	got, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := Text("2024-03-05T12:30:00.000Z")
	if !got.Equal(want) {
		t.Errorf("Encode(time) = %v, want %v", got, want)
	}
}

// TestDecodeBoolIsBackwards exercises the deliberately counterintuitive
// coercion rule: an integer 0 decodes to true, any other integer
// decodes to false.
func TestDecodeBoolIsBackwards(t *testing.T) {
	tests := []struct {
		in   Value
		want bool
	}{
		{Integer(0), true},
		{Integer(1), false},
		{Integer(-1), false},
		{Integer(42), false},
	}
	for _, tt := range tests {
		got, err := DecodeBool(tt.in)
		if err != nil {
			t.Fatalf("DecodeBool(%v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("DecodeBool(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeBoolRejectsNonInteger(t *testing.T) {
	for _, v := range []Value{Null(), Float(0), Text("0"), BlobValue(EmptyBlob())} {
		if _, err := DecodeBool(v); err == nil {
			t.Errorf("DecodeBool(%v) succeeded, want error", v)
		}
	}
}

func TestDecodeInt64FromFloat(t *testing.T) {
	got, err := DecodeInt64(Float(3))
	if err != nil {
		t.Fatalf("DecodeInt64: %v", err)
	}
	if got != 3 {
		t.Errorf("DecodeInt64(Float(3)) = %d, want 3", got)
	}

	if _, err := DecodeInt64(Float(3.5)); err == nil {
		t.Error("DecodeInt64(Float(3.5)) succeeded, want error (non-integral)")
	}
}

func TestDecodeStringRejectsNonText(t *testing.T) {
	if _, err := DecodeString(Integer(1)); err == nil {
		t.Error("DecodeString(Integer) succeeded, want error")
	}
}

func TestDecodeTimeFromEpochSeconds(t *testing.T) {
	got, err := DecodeTime(Integer(0))
	if err != nil {
		t.Fatalf("DecodeTime: %v", err)
	}
	if !got.Equal(time.Unix(0, 0).UTC()) {
		t.Errorf("DecodeTime(0) = %v, want unix epoch", got)
	}
}

func TestDecodeTimeFromText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00", time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)},
		{"2024-03-05 12:30:00", time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00.500Z", time.Date(2024, 3, 5, 12, 30, 0, 500_000_000, time.UTC)},
		{"2024-03-05T12:30:00.5", time.Date(2024, 3, 5, 12, 30, 0, 500_000_000, time.UTC)},
		{"2024-03-05T12:30:00+02:00", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00+0200", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05T12:30:00-05", time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := DecodeTime(Text(tt.in))
		if err != nil {
			t.Fatalf("DecodeTime(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("DecodeTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeTimeTruncatesExcessFraction(t *testing.T) {
	got, err := DecodeTime(Text("2024-03-05T12:30:00.123456Z"))
	if err != nil {
		t.Fatalf("DecodeTime: %v", err)
	}
	want := time.Date(2024, 3, 5, 12, 30, 0, 123_000_000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DecodeTime truncated fraction = %v, want %v", got, want)
	}
}

func TestDecodeTimeRejectsMalformedText(t *testing.T) {
	for _, s := range []string{"", "2024", "2024-03-05Xgarbage", "2024-03-05T12:30:00+banana"} {
		if _, err := DecodeTime(Text(s)); err == nil {
			t.Errorf("DecodeTime(%q) succeeded, want error", s)
		}
	}
}
