// Package common defines shared sentinel errors used across the intake
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrorConflict signals a duplicate email or national id. The insert
	// path maps unique-constraint violations to this value as well, so a
	// race past the pre-check still surfaces as a conflict.
	ErrorConflict = errors.New("already registered")

	// ErrorBackendUnavailable covers unreachable or misconfigured storage
	// and database backends. Internal detail is logged, never echoed to
	// the caller.
	ErrorBackendUnavailable = errors.New("backend unavailable")

	// ErrorValidation is the sentinel matched by validation.Violations, so
	// callers can branch without importing the validation package.
	ErrorValidation = errors.New("validation error")
)
