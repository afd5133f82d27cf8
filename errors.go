package ecoflow

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the EcoFlow client.
// All errors are defined here for easy discovery and consistent organization.
var (
	// Authentication errors
	ErrUnauthorized   = errors.New("ecoflow: unauthorized (invalid access key or signature)")
	ErrEmptyAccessKey = errors.New("ecoflow: access key cannot be empty")
	ErrEmptySecretKey = errors.New("ecoflow: secret key cannot be empty")

	// Resource errors
	ErrNotFound = errors.New("ecoflow: resource not found")

	// Request validation errors
	ErrEmptySerialNumber = errors.New("ecoflow: device serial number cannot be empty")
	ErrEmptyCommandCode  = errors.New("ecoflow: command code cannot be empty")
)

// TransportError reports a failure to complete the HTTP exchange: DNS, TCP,
// or TLS problems, a cancelled context, or a broken response stream.
type TransportError struct {
	Op  string // HTTP method
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("ecoflow: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that could not be parsed as JSON, or
// whose data payload did not match the expected shape.
type DecodeError struct {
	Resource string // what was being parsed, e.g. an endpoint path
	Body     string // truncated body preview for diagnostics
	Err      error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("ecoflow: failed to parse %s: %v (body: %s)", e.Resource, e.Err, e.Body)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error { return e.Err }

// APIError represents an error response from the EcoFlow API: either an HTTP
// error status, or a 200 response whose envelope code is non-zero.
type APIError struct {
	StatusCode int    // zero when the failure came from the envelope code
	Code       string // envelope code, e.g. "1001"
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ecoflow: API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ecoflow: API error code %s: %s", e.Code, e.Message)
}

// IsUnauthorized returns true if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsNotFound returns true if the error indicates the resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsTransport returns true if the error is a network-level failure.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsDecode returns true if the error came from parsing a response body.
func IsDecode(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
