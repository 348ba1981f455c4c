// Package service holds the confirmation workflow and the read-side
// reporting used by the staff dashboard.
package service

import "fmt"

// ValidationError names the first request field that is missing or
// malformed.  Fields are checked in the order they appear on the wire.
type ValidationError struct {
	Field  string
	Reason string // empty when the field is missing
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("Missing required field: %s", e.Field)
	}
	return fmt.Sprintf("Invalid field: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func missing(field string) error { return &ValidationError{Field: field} }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
