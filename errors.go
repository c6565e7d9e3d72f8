package uniquest

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates input failed validation (e.g. an empty question).
	ErrValidation = errors.New("validation error")

	// ErrUnauthenticated indicates no user identity is available.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrBusy indicates an operation was refused because another one is
	// still outstanding.
	ErrBusy = errors.New("request already in progress")

	// ErrNoFile indicates an upload was submitted without a selected file.
	ErrNoFile = errors.New("no file selected")

	// ErrFileTooLarge indicates a selected file exceeds MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrMalformedResponse indicates a service reply did not match the
	// expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// ServiceError is a non-success HTTP reply from the backend. Detail holds the
// human-readable message extracted from the reply body, if any.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// Texts shown to the user when a failure has no better description.
const (
	FallbackErrorText = "Sorry, an unexpected error occurred."
	TimeoutErrorText  = "The request timed out. Please try again."
	CanceledErrorText = "The request was canceled."
)

// ErrorText converts a failed turn into the text shown as the assistant's
// reply. A detail sent by the service wins; everything else collapses into
// a generic message.
func ErrorText(err error) string {
	return errorText(err, FallbackErrorText)
}

func errorText(err error, fallback string) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutErrorText
	}
	if errors.Is(err, context.Canceled) {
		return CanceledErrorText
	}
	return fallback
}
