// Package repository defines the persistence contract for bookings and
// donations and its SQL implementation.  Every failure leaving this package
// is a *PersistenceError so handlers can map it to a generic 500 without
// leaking driver details.
package repository

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDriver is returned by New for a driver without a dialect.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// PersistenceError wraps a store read or write failure.  Op names the
// operation (e.g. "create booking").
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
