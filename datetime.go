// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDateText parses the permissive ISO-8601-ish grammar from spec
// §6:
//
//	YYYY-MM-DD (T|space) HH:MM:SS (.fff)? (Z | ±HH(:MM|MM)? )?
//
// A bare YYYY-MM-DD (no time part) is also accepted, as midnight UTC.
// A missing zone suffix is treated as UTC. Fractional seconds have
// millisecond resolution; anything beyond three fractional digits is
// truncated rather than rounded, matching how the engine's own date
// functions treat excess precision.
func parseDateText(s string) (time.Time, error) {
	if len(s) < len("YYYY-MM-DD") {
		return time.Time{}, fmt.Errorf("date text too short: %q", s)
	}

	datePart := s[:10]
	rest := s[10:]
	if len(rest) == 0 {
		return parseDateOnly(datePart)
	}
	if rest[0] != 'T' && rest[0] != ' ' {
		return time.Time{}, fmt.Errorf("date text: expected T or space at position 10: %q", s)
	}
	rest = rest[1:]

	timePart, zonePart := splitTimeZone(rest)
	layout := "2006-01-02T15:04:05"
	frac := ""
	if dot := strings.IndexByte(timePart, '.'); dot >= 0 {
		frac = timePart[dot+1:]
		timePart = timePart[:dot]
	}

	loc := time.UTC
	var zoneOffsetLayout string
	switch {
	case zonePart == "" || zonePart == "Z":
		// UTC.
	case zonePart[0] == '+' || zonePart[0] == '-':
		zoneOffsetLayout = zonePart
	default:
		return time.Time{}, fmt.Errorf("date text: unrecognized zone suffix %q", zonePart)
	}

	combined := datePart + "T" + timePart
	t, err := time.Parse(layout, combined)
	if err != nil {
		return time.Time{}, fmt.Errorf("date text: %w", err)
	}

	if frac != "" {
		ms, err := parseFractionMillis(frac)
		if err != nil {
			return time.Time{}, err
		}
		t = t.Add(time.Duration(ms) * time.Millisecond)
	}

	if zoneOffsetLayout != "" {
		offsetSeconds, err := parseZoneOffset(zoneOffsetLayout)
		if err != nil {
			return time.Time{}, err
		}
		loc = time.FixedZone("", offsetSeconds)
		t = t.Add(-time.Duration(offsetSeconds) * time.Second)
	}

	return t.In(loc).UTC(), nil
}

func parseDateOnly(datePart string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("date text: %w", err)
	}
	return t.UTC(), nil
}

// splitTimeZone separates "HH:MM:SS(.fff)?" from an optional trailing
// zone suffix ("Z", "+HH:MM", "+HHMM", "+HH").
func splitTimeZone(s string) (timePart, zonePart string) {
	if strings.HasSuffix(s, "Z") {
		return s[:len(s)-1], "Z"
	}
	// Time-of-day is exactly HH:MM:SS (8 bytes) plus an optional
	// ".fff" fractional part; anything after that is zone.
	idx := 8
	if idx > len(s) {
		return s, ""
	}
	if idx < len(s) && s[idx] == '.' {
		idx++
		for idx < len(s) && s[idx] >= '0' && s[idx] <= '9' {
			idx++
		}
	}
	return s[:idx], s[idx:]
}

func parseFractionMillis(frac string) (int, error) {
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	ms, err := strconv.Atoi(frac)
	if err != nil {
		return 0, fmt.Errorf("date text: invalid fractional seconds: %w", err)
	}
	return ms, nil
}

func parseZoneOffset(z string) (int, error) {
	sign := 1
	if z[0] == '-' {
		sign = -1
	}
	z = z[1:]
	z = strings.Replace(z, ":", "", 1)
	var hh, mm int
	switch len(z) {
	case 2:
		hh64, err := strconv.Atoi(z)
		if err != nil {
			return 0, fmt.Errorf("date text: invalid zone offset: %w", err)
		}
		hh = hh64
	case 4:
		hh64, err := strconv.Atoi(z[:2])
		if err != nil {
			return 0, fmt.Errorf("date text: invalid zone offset: %w", err)
		}
		mm64, err := strconv.Atoi(z[2:])
		if err != nil {
			return 0, fmt.Errorf("date text: invalid zone offset: %w", err)
		}
		hh, mm = hh64, mm64
	default:
		return 0, fmt.Errorf("date text: invalid zone offset %q", z)
	}
	return sign * (hh*3600 + mm*60), nil
}

// dateFromEpochSeconds builds a time.Time from a (possibly fractional)
// Unix epoch seconds value, UTC, millisecond precision.
func dateFromEpochSeconds(seconds float64) time.Time {
	whole := int64(seconds)
	frac := seconds - float64(whole)
	return time.Unix(whole, 0).UTC().Add(time.Duration(frac*1000) * time.Millisecond)
}
