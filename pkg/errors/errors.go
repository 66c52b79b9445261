// Package errors provides standardized error types for the querylab client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes shared by the transport, services and CLI layers.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeQueryFailed      = "QUERY_FAILED"
	CodeConnectionFailed = "CONNECTION_FAILED"
	CodeDecodeFailed     = "DECODE_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
	CodeUnavailable      = "UNAVAILABLE"
	CodeDeadlineExceeded = "DEADLINE_EXCEEDED"
	CodeCanceled         = "CANCELED"
	CodeSuperseded       = "SUPERSEDED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodePermissionDenied = "PERMISSION_DENIED"
)

// DetailBackendMessage marks a message taken verbatim from a backend error
// body.
const DetailBackendMessage = "backend_message"

// DetailPath records the backend path of a failed response.
const DetailPath = "path"

// ClientError is an error with a stable code, the HTTP status that produced
// it (0 when no response was received), and an optional cause.
type ClientError struct {
	Code    string                 `json:"code"`
	Status  int                    `json:"status,omitempty"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches on code only.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail adds a single detail to the error.
func (e *ClientError) WithDetail(key string, value interface{}) *ClientError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithStatus records the HTTP status code.
func (e *ClientError) WithStatus(status int) *ClientError {
	e.Status = status
	return e
}

// Common errors
var (
	ErrUnauthorized     = &ClientError{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: "session expired or not logged in"}
	ErrPermissionDenied = &ClientError{Code: CodePermissionDenied, Status: http.StatusForbidden, Message: "access denied"}
	ErrSuperseded       = &ClientError{Code: CodeSuperseded, Message: "request superseded by a newer one"}
	ErrEmptyQuery       = &ClientError{Code: CodeInvalidRequest, Message: "SQL must not be empty"}
)

// New creates a new ClientError with the given code and message.
func New(code, message string) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new ClientError with a formatted message.
func Newf(code, format string, args ...interface{}) *ClientError {
	return &ClientError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with a ClientError.
func Wrap(err error, code, message string) *ClientError {
	if err == nil {
		return nil
	}
	return &ClientError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, code, format string, args ...interface{}) *ClientError {
	if err == nil {
		return nil
	}
	return &ClientError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// CodeForStatus maps an HTTP status code onto an error code.
func CodeForStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return CodeInvalidRequest
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodePermissionDenied
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusConflict:
		return CodeConflict
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return CodeDeadlineExceeded
	case status >= 500:
		return CodeUnavailable
	default:
		return CodeInternal
	}
}

// IsUnauthorized checks if an error is a session-level authentication failure.
func IsUnauthorized(err error) bool {
	return GetCode(err) == CodeUnauthorized
}

// IsPermissionDenied checks if an error is an authorization failure.
func IsPermissionDenied(err error) bool {
	return GetCode(err) == CodePermissionDenied
}

// IsInvalidRequest checks if an error is an invalid request error.
func IsInvalidRequest(err error) bool {
	return GetCode(err) == CodeInvalidRequest
}

// IsSuperseded checks if a request was cancelled by a newer one.
func IsSuperseded(err error) bool {
	return GetCode(err) == CodeSuperseded
}

// GetCode extracts the error code from an error.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Code
	}
	return CodeInternal
}

// BackendMessage returns the message the backend put in its error body, or
// "" when the failure produced none.
func BackendMessage(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		if msg, ok := clientErr.Details[DetailBackendMessage].(string); ok {
			return msg
		}
	}
	return ""
}

// IsSessionRejected reports whether err is a 401 for a request made on
// behalf of a session, as opposed to rejected credentials at login or
// registration.
func IsSessionRejected(err error) bool {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Code != CodeUnauthorized {
		return false
	}
	path, _ := clientErr.Details[DetailPath].(string)
	return !strings.HasPrefix("/"+strings.TrimLeft(path, "/"), "/auth/")
}

// GetMessage extracts the error message from an error.
func GetMessage(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return err.Error()
}
