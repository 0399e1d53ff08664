package riza

import (
	"errors"
	"fmt"
)

// ErrRemoteService matches every *RemoteServiceError via errors.Is.
var ErrRemoteService = errors.New("remote service error")

// RemoteServiceError reports a failed remote call.
type RemoteServiceError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteServiceError) Error() string {
	msg := "riza " + e.Op + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

func (e *RemoteServiceError) Is(target error) bool { return target == ErrRemoteService }
