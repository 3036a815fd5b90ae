package service

import (
	"errors"
	"fmt"
)

// ErrRecipeNotFound is returned when no recipe matches a lookup.
var ErrRecipeNotFound = errors.New("recipe not found")

// ValidationError reports a caller supplied value that is out of range.
// No query is run when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
