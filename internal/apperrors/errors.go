package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAccessDenied       = errors.New("access to this record is not allowed for current user")
	ErrConflict           = errors.New("conflict")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMethodNotSupported = errors.New("method not supported")
)

// ValidationError describes a request payload that broke one or more field constraints.
// Fields maps the JSON field name to a human readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]string, len(keys))
	for i, k := range keys {
		messages[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// OrNil returns e when at least one field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// FieldErrors returns the field map of a wrapped *ValidationError, or nil.
func FieldErrors(err error) map[string]string {
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return validationError.Fields
	}
	return nil
}
