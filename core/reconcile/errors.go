package reconcile

import (
	"errors"
	"fmt"
)

// Sentinel errors for the reconciliation engine.
var (
	// ErrNotFound indicates that a referenced casino, state or offer is missing.
	ErrNotFound = errors.New("not found")

	// ErrProvider indicates that the research provider failed or returned nothing usable.
	ErrProvider = errors.New("research provider failed")

	// ErrInvalidInput indicates that a caller supplied an unusable argument.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents a missing record.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ProviderError wraps a failure of the research provider.
type ProviderError struct {
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Err == nil {
		return ErrProvider.Error()
	}
	return fmt.Sprintf("%s: %v", ErrProvider.Error(), e.Err)
}

// Is implements errors.Is support.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}
