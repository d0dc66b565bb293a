package common

import "fmt"

// ConflictError reports which unique field collided. It matches
// ErrorConflict under errors.Is, so transport code can branch on the
// sentinel and still recover the field with errors.As.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already registered", e.Field)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrorConflict
}
