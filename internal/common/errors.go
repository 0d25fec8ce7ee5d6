// Package common defines shared constants and sentinel errors used across
// the SleeveKeeper server layers. Callers should use errors.Is / errors.As
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Stock-level errors.
	ErrorInsufficientStock = errors.New("insufficient stock")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ValidationError reports a malformed or out-of-range input field.
// It matches ErrorValidation under errors.Is.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}

// NewValidationError constructs a ValidationError for the given field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// InsufficientStockError reports a debit that would drive a sleeve's
// remaining count negative. Available is the count at the time of the
// failed attempt. It matches ErrorInsufficientStock under errors.Is.
type InsufficientStockError struct {
	SleeveID   int64
	SleeveName string
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for sleeve %q (id=%d): requested %d, available %d",
		e.SleeveName, e.SleeveID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrorInsufficientStock
}
