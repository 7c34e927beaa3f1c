// Package fehres provides a Go client for the Fehres RAG backend API.
package fehres

import (
	"errors"
	"fmt"
)

// Sentinel errors for error checking with errors.Is().
var (
	// ErrServerRejected indicates the backend responded with an error status.
	ErrServerRejected = errors.New("server rejected request")

	// ErrNoResponse indicates the request was sent but no response arrived
	// (network failure or timeout).
	ErrNoResponse = errors.New("no response from server")

	// ErrRequestSetup indicates the request could not be constructed or
	// serialized before it was sent.
	ErrRequestSetup = errors.New("request setup failed")

	// ErrConfiguration indicates client configuration problems.
	ErrConfiguration = errors.New("configuration error")
)

// APIError represents an HTTP error response from the backend. The message
// is extracted from the backend's error body, preferring the signal field.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() checking.
func (e *APIError) Unwrap() error {
	return ErrServerRejected
}

// NoResponseError represents a transport failure after the request was sent.
// The caller cannot know whether the backend acted on the request.
type NoResponseError struct {
	Cause error
}

// Error implements the error interface with a user-facing message.
func (e *NoResponseError) Error() string {
	return "No response from server. Please check if the API is running."
}

// Unwrap returns the underlying cause and sentinel error.
func (e *NoResponseError) Unwrap() []error {
	return []error{ErrNoResponse, e.Cause}
}

// RequestError represents a client-side request construction failure.
type RequestError struct {
	Cause error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("failed to build request: %v", e.Cause)
}

// Unwrap returns the underlying cause and sentinel error.
func (e *RequestError) Unwrap() []error {
	return []error{ErrRequestSetup, e.Cause}
}

// ConfigurationError indicates client configuration issues.
type ConfigurationError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("fehres: %s", e.Message)
}

// Unwrap returns the sentinel error for errors.Is() checking.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// newAPIError creates a new APIError.
func newAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// newNoResponseError creates a new NoResponseError.
func newNoResponseError(cause error) *NoResponseError {
	return &NoResponseError{Cause: cause}
}

// newRequestError creates a new RequestError.
func newRequestError(cause error) *RequestError {
	return &RequestError{Cause: cause}
}
