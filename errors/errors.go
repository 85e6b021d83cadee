package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError           ErrorType = "VALIDATION_ERROR"
	UnsupportedMediaTypeError ErrorType = "UNSUPPORTED_MEDIA_TYPE"
	RateLimitError            ErrorType = "RATE_LIMIT_EXCEEDED"
	UpstreamError             ErrorType = "UPSTREAM_ERROR"
	ServerError               ErrorType = "SERVER_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"error"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status code the error renders with.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus == 0 {
		return getHTTPStatus(e.Type)
	}
	return e.HTTPStatus
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func UnsupportedMediaType(message string) *AppError {
	return &AppError{
		Type:       UnsupportedMediaTypeError,
		Message:    message,
		HTTPStatus: http.StatusUnsupportedMediaType,
	}
}

// RateLimitExceeded carries the retry window in Detail.
func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Upstream reports a failed call to an external dependency (LLM, geocoder).
func Upstream(message string, raw error) *AppError {
	appErr := &AppError{
		Type:       UpstreamError,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Raw:        raw,
	}
	if raw != nil {
		appErr.Detail = raw.Error()
	}
	return appErr
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case UnsupportedMediaTypeError:
		return http.StatusUnsupportedMediaType
	case RateLimitError:
		return http.StatusTooManyRequests
	case UpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
