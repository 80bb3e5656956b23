package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse is returned when a response body cannot be used at all
var ErrMalformedResponse = errors.New("malformed backend response")

// APIError is a rejection by the backend: a non-2xx status, or a 2xx response
// whose body carries success:false
type APIError struct {
	StatusCode int    `json:"status_code"`
	Endpoint   string `json:"endpoint"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// TransportError is a request that never produced a backend response
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the backend supplied message carried by err, or fallback.
// Transport failures and malformed responses always use fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusCode maps err to the status the console answers with. Backend
// rejections keep their client error status; everything else is a gateway
// failure.
func StatusCode(err error) int {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// IsNotFound returns true if the backend answered 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the backend answered 401
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
