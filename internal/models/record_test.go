// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package models

import "testing"

func TestRecord_DatePrefix(t *testing.T) {
	t.Parallel()

	rec := Record{FieldLat: 1.0, FieldLong: 2.0, FieldTime: "2024-01-01T12:30:00Z"}
	prefix, ok := rec.DatePrefix()
	if !ok || prefix != "2024-01-01" {
		t.Fatalf("Expected prefix 2024-01-01, got %q (ok=%v)", prefix, ok)
	}
}

func TestRecord_DatePrefix_NotAString(t *testing.T) {
	t.Parallel()

	cases := []any{42, nil, true, []any{"2024-01-01"}}
	for _, val := range cases {
		rec := Record{FieldLat: 1.0, FieldLong: 2.0, FieldTime: val}
		if _, ok := rec.DatePrefix(); ok {
			t.Errorf("Expected no prefix for time %v", val)
		}
	}
}

func TestRecord_DatePrefix_ShortString(t *testing.T) {
	t.Parallel()

	// Short strings are returned whole rather than rejected; they can never
	// equal a YYYY-MM-DD date, so callers comparing against one drop them.
	rec := Record{FieldTime: "2024"}
	prefix, ok := rec.DatePrefix()
	if !ok || prefix != "2024" {
		t.Fatalf("Expected prefix 2024, got %q (ok=%v)", prefix, ok)
	}
}

func TestCloneBatch_Isolation(t *testing.T) {
	t.Parallel()

	original := []Record{{FieldLat: 1.0, FieldLong: 2.0, FieldTime: "t"}}
	cloned := CloneBatch(original)

	cloned[0][FieldLat] = 99.0
	if original[0][FieldLat] != 1.0 {
		t.Error("Mutating the clone changed the original")
	}
}
