package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrUserInactive       = errors.New("user account is inactive")
)

// LoanErrors
var (
	ErrLoanNotFound = errors.New("loan application not found")
)

// StorageErrors
var (
	ErrObjectNotFound = errors.New("object not found in storage")
	ErrObjectExists   = errors.New("object already exists in storage")
)

// ValidationError carries per-field validation failures. It is always
// recoverable: the caller fixes the fields and re-submits.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidationError builds a ValidationError from a field error map
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// StoreError represents a failure reported by one of the two external
// backends (record store or object store). The backend message is kept
// verbatim so the caller can decide whether to retry the operation.
type StoreError struct {
	Backend string // "record-store" or "object-store"
	Op      string
	Status  int // HTTP status for the object store, 0 otherwise
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s failed with status %d: %s", e.Backend, e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s failed: %s", e.Backend, e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
