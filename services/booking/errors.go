package booking

import (
	"errors"
	"fmt"
)

// Error codes for the booking engine. All are recoverable by the caller and
// map onto HTTP statuses at the handler layer.
const (
	CodeValidation   = "validation"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodePrecondition = "precondition"
)

// ServiceError is a typed, user-presentable booking engine error.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &ServiceError{Code: CodeValidation, Message: msg}
}

func NewConflictError(msg string) error {
	return &ServiceError{Code: CodeConflict, Message: msg}
}

func NewAuthorizationError(msg string) error {
	return &ServiceError{Code: CodeUnauthorized, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func NewPreconditionError(msg string) error {
	return &ServiceError{Code: CodePrecondition, Message: msg}
}

// CodeOf returns the ServiceError code of err, or "" for untyped errors.
func CodeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
