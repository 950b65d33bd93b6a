// Package apierror provides standardized error response structures for the API
// and the typed domain errors surfaced by the checkout coordinator.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// ── Domain errors ─────────────────────────────────────────────────────────────
// The checkout coordinator distinguishes three terminal failure classes.
// Anything else (driver errors, broken transactions) is a store failure and is
// surfaced as a generic envelope — never retried automatically.

// NotFoundError: a referenced product or loyalty member does not exist.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

func NewNotFound(entity, ref string) *NotFoundError {
	return &NotFoundError{Entity: entity, Ref: ref}
}

// InsufficientStockError: a cart line requests more units than are available
// at the instant of sale.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.Product)
}

// StatusFor maps a service error to its HTTP status code.
func StatusFor(err error) int {
	var nf *NotFoundError
	var is *InsufficientStockError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &is):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
