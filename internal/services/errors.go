package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindConflict      ErrorKind = "conflict"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
)

// Error is a caller-facing failure. Fields maps input names to messages.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrNotFound      = &Error{Kind: KindNotFound}
)

func (err *Error) Error() string {
	if err.Message != "" {
		return err.Message
	}
	for field, message := range err.Fields {
		return field + ": " + message
	}
	return string(err.Kind)
}

// Is matches any error of the same kind, so errors.Is(err, ErrConflict) works.
func (err *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == err.Kind
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func fieldError(field string, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: map[string]string{field: message}}
}

func conflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func forbiddenError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func notFoundError(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// fieldErrors collects per-field validation messages.
type fieldErrors map[string]string

func (errs fieldErrors) add(field string, message string) {
	if _, exists := errs[field]; !exists {
		errs[field] = message
	}
}

func (errs fieldErrors) err() error {
	if len(errs) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: map[string]string(errs)}
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
