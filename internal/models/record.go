// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package models defines the location record exchanged between trackers,
// the HTTP API, and the storage gateway.
package models

// Wire field names of a location record. The update contract is exact:
// a record carries these three fields and nothing else.
const (
	FieldLat  = "lat"
	FieldLong = "long"
	FieldTime = "time"
)

// datePrefixLen is the length of the YYYY-MM-DD prefix of a timestamp.
const datePrefixLen = len("2006-01-02")

// Record is one client-submitted location sample. Values are kept exactly
// as submitted (the validator checks field presence, not types, unless
// strict mode is enabled), so the record is an open map rather than a
// fixed struct.
type Record map[string]any

// Time returns the record's timestamp when it is a string.
func (r Record) Time() (string, bool) {
	s, ok := r[FieldTime].(string)
	return s, ok
}

// DatePrefix returns the first ten characters of the record's timestamp,
// the YYYY-MM-DD prefix of a well-formed one. A shorter string is returned
// whole; it simply never matches a calendar date. ok is false only when the
// timestamp is not a string.
func (r Record) DatePrefix() (string, bool) {
	s, ok := r.Time()
	if !ok {
		return "", false
	}
	if len(s) > datePrefixLen {
		return s[:datePrefixLen], true
	}
	return s, true
}

// Clone returns a shallow copy of the record. Values are the decoded JSON
// scalars, so a shallow copy is enough to isolate callers from each other.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneBatch copies a batch of records.
func CloneBatch(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
