package domain

import (
	"errors"
	"fmt"
)

// Status messages attached to degraded results.
const (
	MsgBackendUnavailable = "API unavailable, showing demo data"
	MsgConnectionFailed   = "Connection failed, showing demo data"
	MsgUnexpectedResponse = "Unexpected API response format"
	MsgMockMode           = "Mock data mode enabled, showing demo data"
)

// ErrPredictionInFlight is returned when a prediction is requested while
// another one, for either model, has not settled yet.
var ErrPredictionInFlight = errors.New("a prediction is already in progress")

// UnknownModelError reports a model identifier missing from the registry.
type UnknownModelError struct {
	ModelID string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.ModelID)
}

// TransportError covers network failures, non-OK statuses, and bodies that
// are not valid JSON. StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusMessage is the user-facing text for this failure.
func (e *TransportError) StatusMessage() string {
	if e.StatusCode != 0 {
		return MsgBackendUnavailable
	}
	return MsgConnectionFailed
}

// ShapeMismatchError reports an OK response that lacks the success marker or
// a recognizable forecast field. Message is the backend's own explanation,
// if it sent one.
type ShapeMismatchError struct {
	Message string
	Err     error
}

func (e *ShapeMismatchError) Error() string {
	msg := "unexpected response shape"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShapeMismatchError) Unwrap() error { return e.Err }

// StatusMessage is the user-facing text for this failure.
func (e *ShapeMismatchError) StatusMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgUnexpectedResponse
}

// UnrecognizedShapeError is returned by Normalize for envelopes that match
// none of the known forecast shapes.
type UnrecognizedShapeError struct {
	Reason string
}

func (e *UnrecognizedShapeError) Error() string {
	return "unrecognized result shape: " + e.Reason
}
