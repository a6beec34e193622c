package bookshop

import "fmt"

// APIError reports a failed remote call: either the backend answered
// with a non-zero error code or the transport/decoding itself broke
// down. It is surfaced to callers as-is and never retried here.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAPIError builds an APIError from a backend error code.
func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func (e *APIError) Error() string {
	if len(e.Message) == 0 {
		return fmt.Sprintf("api call failed with code %s", e.Code)
	}
	return e.Message
}

// ValidationError reports an input rejected by the mocked backend.
// It carries an HTTP-like status so callers can surface it inline
// near the offending form field.
type ValidationError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NewValidationError builds a ValidationError with the given status.
func NewValidationError(status int, message string) *ValidationError {
	return &ValidationError{Status: status, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}
