package errors

import "net/http"

// TryAgainMessage is shown to clients when a collaborator call failed.
const TryAgainMessage = "something went wrong, please try again"

type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func Internal(message string) *APIError {
	if message == "" {
		message = TryAgainMessage
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}

func BadRequest(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

func Validation(fields map[string]string) *APIError {
	err := New(http.StatusBadRequest, "validation_failed", "invalid request body")
	err.Details = fields
	return err
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "unauthorized"
	}
	return New(http.StatusUnauthorized, "unauthorized", message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string, details interface{}) *APIError {
	err := New(http.StatusConflict, code, message)
	err.Details = details
	return err
}

// Unavailable reports a failed call to an external collaborator.
func Unavailable(code, message string) *APIError {
	if message == "" {
		message = TryAgainMessage
	}
	return New(http.StatusBadGateway, code, message)
}
