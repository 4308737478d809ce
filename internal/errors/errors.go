package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for clients.
type Kind int

const (
	// KindInternal covers anything unexpected; details never reach the client.
	KindInternal Kind = iota
	// KindInvalidInput is returned when a payload fails a validation rule.
	KindInvalidInput
	// KindAuthenticationRequired is returned when an operation needs an identity and has none.
	KindAuthenticationRequired
	// KindPermissionDenied is returned when the identity lacks the role or ownership required.
	KindPermissionDenied
	// KindNotFound is returned when a referenced entity or natural key is absent.
	KindNotFound
	// KindConflict is returned on uniqueness violations.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindAuthenticationRequired:
		return "AUTHENTICATION_REQUIRED"
	case KindPermissionDenied:
		return "PERMISSION_DENIED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error is a classified domain error. Fields carries per-field messages for
// InvalidInput and Conflict failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// Invalid creates an InvalidInput error scoped to one field.
func Invalid(field, message string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Message: "validation failed",
		Fields:  map[string][]string{field: {message}},
	}
}

// InvalidFields creates an InvalidInput error from a set of field messages.
func InvalidFields(fields map[string][]string) *Error {
	return &Error{Kind: KindInvalidInput, Message: "validation failed", Fields: fields}
}

// Unauthenticated creates an AuthenticationRequired error.
func Unauthenticated() *Error {
	return &Error{Kind: KindAuthenticationRequired, Message: "authentication credentials were not provided"}
}

// Forbidden creates a PermissionDenied error.
func Forbidden(message string) *Error {
	if message == "" {
		message = "you do not have permission to perform this action"
	}
	return &Error{Kind: KindPermissionDenied, Message: message}
}

// NotFound creates a NotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict creates a Conflict error scoped to one field.
func Conflict(field, message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// Merge folds the field messages of several InvalidInput errors into one.
// Nil entries are skipped; it returns nil when nothing is left.
func Merge(errs ...*Error) *Error {
	fields := make(map[string][]string)
	for _, e := range errs {
		if e == nil {
			continue
		}
		for field, messages := range e.Fields {
			fields[field] = append(fields[field], messages...)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return InvalidFields(fields)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string][]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unclassified errors
// become a generic 500 so storage details never leak.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", KindInternal.String())
	}

	var status int
	switch domainErr.Kind {
	case KindInvalidInput:
		status = http.StatusBadRequest
	case KindAuthenticationRequired:
		status = http.StatusUnauthorized
	case KindPermissionDenied:
		status = http.StatusForbidden
	case KindNotFound:
		status = http.StatusNotFound
	case KindConflict:
		status = http.StatusConflict
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", KindInternal.String())
	}

	httpErr := NewHTTPError(status, domainErr.Message, domainErr.Kind.String())
	httpErr.Fields = domainErr.Fields
	return httpErr
}
