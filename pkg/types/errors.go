package types

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record is absent upstream.
var ErrNotFound = errors.New("not found")

// DataIntegrityError reports a field that failed to parse or is out of range.
type DataIntegrityError struct {
	Field  string // field name as it appears upstream
	Value  string // offending raw value
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s=%q: %s", e.Field, e.Value, e.Reason)
}

// UpstreamError reports a network or protocol failure talking to an external service.
type UpstreamError struct {
	Endpoint   string
	Operation  string
	StatusCode int // 0 when no HTTP response was received
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg != "" {
			msg = msg + ": " + e.Err.Error()
		} else {
			msg = e.Err.Error()
		}
	}

	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s failed with status %d: %s", e.Operation, e.StatusCode, msg)
	}

	return fmt.Sprintf("upstream %s failed: %s", e.Operation, msg)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsDataIntegrity reports whether err wraps a DataIntegrityError.
func IsDataIntegrity(err error) bool {
	var target *DataIntegrityError
	return errors.As(err, &target)
}

// IsUpstream reports whether err wraps an UpstreamError.
func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}
