package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultMessage is shown when the API gives no message of its own.
const DefaultMessage = "Request failed. Please try again."

// NetworkError is a transport failure: the API was never heard from.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// newAPIError takes the message from the body's "message" field when present.
func newAPIError(status int, body []byte, fallback string) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return &APIError{Status: status, Message: payload.Message}
	}
	if fallback == "" {
		fallback = DefaultMessage
	}
	return &APIError{Status: status, Message: fallback}
}

// Message returns what a user should read for err: the API's message for an
// APIError, generic for anything else.
func Message(err error, generic string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return generic
}

func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsCanceled reports whether the call was abandoned because its request went away.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
