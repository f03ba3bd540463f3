// Package schema contains the data model of a cvforge input file and the
// validator that turns a raw configuration tree into a Document.
//
// Validation never panics and never stops at the first problem: every
// failing field is collected as a RawFailure, and the aggregate is
// returned as a *ValidationError. Raw failures carry enough location
// information for the diagnostics package to produce user-facing output.
package schema

import (
	"fmt"
	"strings"
)

// RawFailure is one field-validation failure as produced by the validator.
//
// Loc segments may include internal markers (tagged-union, list, literal,
// int, constrained-str) that describe the model rather than the user's
// file; the diagnostics package strips them.
type RawFailure struct {
	Loc   []string
	Msg   string
	Input any

	// Cause holds the failures of the best candidate entry kind when a
	// polymorphic entry failed to match any kind.
	Cause []RawFailure

	// Field is set when the failure originated from a FieldError raised
	// by a sub-validator (theme resolution, reader-level checks).
	Field *FieldError
}

// FieldError is a structured error raised by sub-validators that know a
// better location for the problem than the surrounding model does.
// Message is user-facing, Loc is relative to the enclosing field, Value
// is the offending input.
type FieldError struct {
	Message string
	Loc     string
	Value   string
}

func (e *FieldError) Error() string {
	// The tuple form is kept for compatibility with tooling that parses
	// error strings; structured consumers should use the fields directly.
	return fmt.Sprintf("('%s', '%s', '%s')", e.Message, e.Loc, e.Value)
}

// ValidationError aggregates every raw failure found in one validation
// pass.
type ValidationError struct {
	Failures []RawFailure
}

func (e *ValidationError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("1 validation error: %s at %s", e.Failures[0].Msg, strings.Join(e.Failures[0].Loc, "."))
	}
	return fmt.Sprintf("%d validation errors", len(e.Failures))
}

// EntriesSentinel marks the aggregate failure of a polymorphic entry.
// The diagnostics package flattens the Cause list of failures carrying
// this message.
const EntriesSentinel = "There are problems with the entries."
