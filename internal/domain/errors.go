package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every use case. Handlers map these with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAccessDenied    = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUpstream        = errors.New("upstream failure")
	ErrConflict        = errors.New("already exists")
)

var (
	ErrProfileNotFound        = fmt.Errorf("profile %w", ErrNotFound)
	ErrProfileAlreadyExists   = fmt.Errorf("profile %w", ErrConflict)
	ErrConversationNotFound   = fmt.Errorf("conversation %w", ErrNotFound)
	ErrCandidateNotFound      = fmt.Errorf("candidate %w", ErrNotFound)
	ErrShortlistEntryNotFound = fmt.Errorf("shortlist entry %w", ErrNotFound)

	// ErrAlreadyShortlisted is returned by the gateway on a duplicate shortlist insert.
	ErrAlreadyShortlisted = errors.New("already shortlisted")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Upstream wraps a gateway error so callers can match both ErrUpstream and the cause.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}
