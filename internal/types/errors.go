package types

import (
	"errors"
	"fmt"
)

// Domain specific errors shared by the catalog, planner and request layers.
var (
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal server error")
	ErrCatalog    = errors.New("catalog unavailable")
)

// ValidationError describes a rejected preference field. It unwraps to ErrBadRequest
// so callers can branch with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrBadRequest
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
