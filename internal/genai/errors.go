package genai

import (
	"errors"
	"fmt"
)

// Generation failures. None of these are retried inside this package;
// retry policy belongs to the caller.
var (
	// ErrNotConfigured: backend credentials missing. Fatal for the
	// session, no retry will help.
	ErrNotConfigured = errors.New("generation backend is not configured")

	// ErrSafetyRejected: the content violated the backend's policies.
	ErrSafetyRejected = errors.New("content violated safety policies")

	// ErrRequestTooLarge: the content likely exceeds backend input limits.
	ErrRequestTooLarge = errors.New("invalid request: content might be too long")

	// ErrBackendUnavailable: transient backend failure, caller may retry.
	ErrBackendUnavailable = errors.New("generation backend temporarily unavailable")

	// ErrMalformedResponse: the backend answered but the payload failed
	// schema validation. No partial quiz is ever surfaced.
	ErrMalformedResponse = errors.New("the model returned a quiz with an invalid format")
)

// UnknownError is the fallback classification, carrying the raw backend
// message.
type UnknownError struct {
	Msg string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("quiz generation failed: %s", e.Msg)
}
