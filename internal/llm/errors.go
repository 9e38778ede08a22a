package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse indicates the response carried no choices.
	ErrEmptyResponse = errors.New("model returned no choices")
	// ErrUnauthorized indicates the endpoint rejected the credentials.
	ErrUnauthorized = errors.New("model endpoint rejected credentials")
)

// StatusError is a non-2xx response from the chat-completions endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model endpoint returned %d: %s", e.Code, e.Body)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	return e.Code == 429 || e.Code >= 500
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// IsTransient reports whether err is a network failure, a 429, or a 5xx.
func IsTransient(err error) bool {
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Transient()
}
