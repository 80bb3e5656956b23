package models

// ErrorMessageResponse is the body written for every failed request. Message is
// safe to show to the user; Error carries the underlying cause.
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string
	Error   string
}

// MessageResponse is the body written by mutations that return nothing else
type MessageResponse struct {
	Message string `json:"message"`
}
