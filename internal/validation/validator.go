// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package validation checks inbound update batches before they reach the
// storage gateway.
//
// The batch contract is structural: the body is a JSON array of objects,
// and every object carries exactly the fields {lat, long, time}. Field
// values are deliberately not type-checked by default; the original wire
// contract accepts whatever the tracker submits. Strict mode adds typed
// checks (numeric coordinates in range, RFC3339 timestamp) on top.
package validation

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/digital7/trackerd/internal/models"
)

// Error is a batch validation failure. Handlers translate it to a 400
// response; anything else is a server-side failure.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func errorf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Validator parses and validates update batches.
type Validator struct {
	strict   bool
	validate *validator.Validate
}

// New creates a batch validator. With strict enabled, field values are
// type-checked in addition to the structural field-set check.
func New(strict bool) *Validator {
	return &Validator{
		strict:   strict,
		validate: validator.New(),
	}
}

// ParseBatch parses raw JSON into a batch of location records, validating
// the whole batch. The batch is all-or-nothing: a single bad record
// invalidates every record.
func (v *Validator) ParseBatch(raw []byte) ([]models.Record, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		if !json.Valid(raw) {
			return nil, errorf("request body is not valid JSON")
		}
		return nil, errorf("update is not an array")
	}
	// A top-level null decodes into a nil slice without error; an actual
	// empty array decodes non-nil. Only the latter is a valid batch.
	if elems == nil {
		return nil, errorf("update is not an array")
	}

	records := make([]models.Record, 0, len(elems))
	for i, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			return nil, errorf("update contains invalid data: element %d is not an object", i)
		}
		if err := checkFieldSet(fields); err != nil {
			return nil, errorf("update contains invalid data: element %d: %s", i, err.Reason)
		}

		var rec models.Record
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, errorf("update contains invalid data: element %d: %v", i, err)
		}
		if v.strict {
			if err := v.checkValues(rec); err != nil {
				return nil, errorf("update contains invalid data: element %d: %s", i, err.Reason)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// checkFieldSet verifies, order-independently, that the field-name set is
// exactly {lat, long, time}.
func checkFieldSet(fields map[string]json.RawMessage) *Error {
	for _, name := range []string{models.FieldLat, models.FieldLong, models.FieldTime} {
		if _, ok := fields[name]; !ok {
			return errorf("missing field %q", name)
		}
	}
	if len(fields) != 3 {
		for name := range fields {
			switch name {
			case models.FieldLat, models.FieldLong, models.FieldTime:
			default:
				return errorf("unexpected field %q", name)
			}
		}
	}
	return nil
}

// checkValues applies strict-mode type checks to a single record.
func (v *Validator) checkValues(rec models.Record) *Error {
	lat, ok := rec[models.FieldLat].(float64)
	if !ok {
		return errorf("field %q is not a number", models.FieldLat)
	}
	if err := v.validate.Var(lat, "latitude"); err != nil {
		return errorf("field %q is out of range", models.FieldLat)
	}
	long, ok := rec[models.FieldLong].(float64)
	if !ok {
		return errorf("field %q is not a number", models.FieldLong)
	}
	if err := v.validate.Var(long, "longitude"); err != nil {
		return errorf("field %q is out of range", models.FieldLong)
	}
	ts, ok := rec.Time()
	if !ok {
		return errorf("field %q is not a string", models.FieldTime)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		return errorf("field %q is not an RFC3339 timestamp", models.FieldTime)
	}
	return nil
}
