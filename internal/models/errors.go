// internal/models/errors.go
package models

import "fmt"

// ErrorKind classifies a domain failure so the transport layer can pick a
// status code and clients can decide whether retrying makes sense.
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "validation" // malformed input, fix and resend
	ErrKindForbidden  ErrorKind = "forbidden"  // wrong role or not the owner
	ErrKindNotFound   ErrorKind = "not_found"  // id does not resolve or is invisible to the caller
	ErrKindConflict   ErrorKind = "conflict"   // wrong state, duplicate, or lost precondition
	ErrKindDependency ErrorKind = "dependency" // document store or entity store failure, retryable
)

type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: ErrKindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewDependencyError(message string, err error) *DomainError {
	return &DomainError{Kind: ErrKindDependency, Message: message, Err: err}
}
