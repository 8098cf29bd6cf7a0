package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by gateways when a bookmark does not exist
// or is not owned by the caller.
var ErrNotFound = errors.New("bookmark not found")

// ValidationError rejects user input before any network call or state change.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ServiceError reports a failed gateway request.
// Message is safe to show to the user; Err carries the transport cause.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError wraps a gateway failure for the given operation.
func NewServiceError(op string, err error) *ServiceError {
	msg := "request failed"
	if err != nil {
		msg = "Error: " + err.Error()
	}
	return &ServiceError{Op: op, Message: msg, Err: err}
}

// FeedError reports a change feed subscription that failed or timed out.
type FeedError struct {
	Status FeedStatus
	Err    error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("change feed %s: %v", e.Status, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// UserMessage returns the text to show for err, or "" when err is nil.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var serr *ServiceError
	if errors.As(err, &serr) {
		return serr.Message
	}
	return err.Error()
}
