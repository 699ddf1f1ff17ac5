// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrAlreadyDone     = errors.New("already done")
	ErrExpired         = errors.New("expired")

	// Authorization errors
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidCredential = errors.New("invalid credentials")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrOptimisticLock         = errors.New("optimistic lock failure")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "user", "session", "achievement"
	Op      string // Operation that failed, e.g., "Create", "Resolve"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// User domain errors
var (
	ErrUserNotFound      = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists = NewDomainError("user", "Create", ErrAlreadyExists, "username already taken")
	ErrInvalidUsername   = NewDomainError("user", "Validate", ErrInvalidInput, "invalid username")
	ErrInvalidPassword   = NewDomainError("user", "Validate", ErrInvalidInput, "invalid password")
	ErrWrongCredentials  = NewDomainError("user", "Authenticate", ErrInvalidCredential, "wrong username or password")
)

// Session domain errors
var (
	ErrSessionNotFound     = NewDomainError("session", "Resolve", ErrNotFound, "session not found")
	ErrSessionInactive     = NewDomainError("session", "Resolve", ErrNotFound, "session no longer active")
	ErrSessionAlreadyEnded = NewDomainError("session", "Invalidate", ErrAlreadyDone, "session already ended")
	ErrInvalidToken        = NewDomainError("session", "Validate", ErrInvalidInput, "invalid session token")
)

// Progression domain errors
var (
	ErrEventNotFound   = NewDomainError("progression", "Find", ErrNotFound, "ledger event not found")
	ErrUnknownAction   = NewDomainError("progression", "Validate", ErrInvalidInput, "unknown action type")
	ErrNegativeBalance = NewDomainError("progression", "Append", ErrInvalidState, "score would go negative")
)

// Achievement domain errors
var (
	ErrAchievementNotFound = NewDomainError("achievement", "Find", ErrNotFound, "achievement not found")
	ErrAlreadyUnlocked     = NewDomainError("achievement", "Unlock", ErrAlreadyDone, "achievement already unlocked")
	ErrUnknownAchievement  = NewDomainError("achievement", "Validate", ErrInvalidID, "achievement not in catalog")
)

// External service errors
var (
	ErrRelocateAPIUnavailable = NewDomainError("relocate", "Request", ErrServiceUnavailable, "relocation API is unavailable")
	ErrRelocateAPITimeout     = NewDomainError("relocate", "Request", ErrTimeout, "relocation API request timeout")
	ErrRelocateInvalidData    = NewDomainError("relocate", "Parse", ErrInvalidFormat, "invalid response from relocation API")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsAlreadyDone checks if the error marks an idempotent repeat of a
// completed operation. Callers treat it as success.
func IsAlreadyDone(err error) bool {
	return errors.Is(err, ErrAlreadyDone)
}

// IsInvalidCredential checks if the error is an authentication failure.
// Unknown username and wrong password both map here so that callers
// cannot distinguish the two.
func IsInvalidCredential(err error) bool {
	return errors.Is(err, ErrInvalidCredential)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
