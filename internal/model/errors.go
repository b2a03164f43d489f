package model

import (
	"errors"
	"fmt"
	"strings"
)

// Domain error kinds. Concrete errors wrap or match one of these so callers
// can classify them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("store error")
)

// ValidationError lists the fields that were missing or malformed
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(names, ", "))
}

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationFailure returns nil when fields is empty
func NewValidationFailure(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// StoreError wraps a document store failure with the operation that hit it
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore, e.Op, e.Err)
}

// Is matches ErrStore
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err once; nil stays nil
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// ErrorCode represents bot error codes
type ErrorCode int

const (
	// Resource errors (3xxx)
	ErrCodeNotFound ErrorCode = 3001
	ErrCodeConflict ErrorCode = 3003

	// Validation errors (4xxx)
	ErrCodeValidation  ErrorCode = 4001
	ErrCodeRateLimited ErrorCode = 4004

	// Internal errors (5xxx)
	ErrCodeInternal ErrorCode = 5001
	ErrCodeDatabase ErrorCode = 5002
)

// ProblemDetails describes a failed command in a transport-neutral way.
// Detail is safe to show to the user; internal causes never end up in it.
type ProblemDetails struct {
	Code   ErrorCode    `json:"code"`
	Title  string       `json:"title"`
	Detail string       `json:"detail,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
	// RetryAfter is set for rate limited commands, in seconds
	RetryAfter int `json:"retry_after,omitempty"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Code, p.Title, p.Detail)
}

// IsInternal reports whether the problem came from infrastructure rather
// than the user's input
func (p *ProblemDetails) IsInternal() bool {
	return p.Code >= 5000
}

// Common error constructors

func NewNotFoundError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Code:   ErrCodeNotFound,
		Title:  "Not Found",
		Detail: detail,
	}
}

func NewValidationError(detail string, errors []FieldError) *ProblemDetails {
	if detail == "" {
		detail = "One or more fields failed validation"
		if len(errors) > 0 {
			detail = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
			if len(errors) > 1 {
				detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errors)-1)
			}
		}
	}
	return &ProblemDetails{
		Code:   ErrCodeValidation,
		Title:  "Validation Error",
		Detail: detail,
		Errors: errors,
	}
}

func NewConflictError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Code:   ErrCodeConflict,
		Title:  "Conflict",
		Detail: detail,
	}
}

func NewStoreFailure(detail string) *ProblemDetails {
	if detail == "" {
		detail = "The raid store is unavailable"
	}
	return &ProblemDetails{
		Code:   ErrCodeDatabase,
		Title:  "Store Error",
		Detail: detail,
	}
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return &ProblemDetails{
		Code:   ErrCodeInternal,
		Title:  "Internal Error",
		Detail: detail,
	}
}

func NewRateLimitError(retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Code:       ErrCodeRateLimited,
		Title:      "Too Many Requests",
		Detail:     fmt.Sprintf("Slow down! Try again in %d seconds.", retryAfter),
		RetryAfter: retryAfter,
	}
}
