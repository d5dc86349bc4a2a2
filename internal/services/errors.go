// Package services contains the business logic of the platform
package services

import "fmt"

// ValidationError reports invalid input supplied by the caller
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
