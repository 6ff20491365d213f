// Package errs defines the error kinds shared by the domain services.
//
// Every error a service returns wraps exactly one of these kinds, so callers
// can decide how to present it with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers bad user input: empty or duplicate names, malformed colors.
	ErrValidation = errors.New("validation error")
	// ErrState covers calls made in the wrong state and broken invariants.
	ErrState = errors.New("state error")
	// ErrNotFound covers ids that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorage covers database failures. The operation failed but may be retried.
	ErrStorage = errors.New("storage error")
)

// Storage wraps a repository failure as ErrStorage, keeping the cause.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Kind returns the kind an error wraps, or nil for unclassified errors.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrState, ErrNotFound, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
