// Package apierror defines the error taxonomy for all backend interaction.
//
// Every failed operation returns an *Error that wraps one of the kind
// sentinels, so callers can branch with errors.Is without inspecting HTTP
// status codes themselves.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindNetwork       Kind = "network"
	KindAuthorization Kind = "authorization"
	KindValidation    Kind = "validation"
	KindRateLimited   Kind = "rate_limited"
	KindServer        Kind = "server"
	KindNotFound      Kind = "not_found"
	KindInvalidInput  Kind = "invalid_input"
)

// Sentinels for errors.Is checks. Every *Error unwraps to exactly one of
// these.
var (
	ErrNetwork       = errors.New("no response received from the server")
	ErrAuthorization = errors.New("not authorized")
	ErrValidation    = errors.New("the submitted data is invalid")
	ErrRateLimited   = errors.New("too many requests")
	ErrServer        = errors.New("the server could not process the request")
	ErrNotFound      = errors.New("the requested resource does not exist")
	ErrInvalidInput  = errors.New("invalid input")
)

var sentinels = map[Kind]error{
	KindNetwork:       ErrNetwork,
	KindAuthorization: ErrAuthorization,
	KindValidation:    ErrValidation,
	KindRateLimited:   ErrRateLimited,
	KindServer:        ErrServer,
	KindNotFound:      ErrNotFound,
	KindInvalidInput:  ErrInvalidInput,
}

// Error is the concrete error type for all failed backend operations.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for client-side failures
	Message string // server-provided message or a fallback

	// Fields holds field-level validation messages for KindValidation.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return sentinels[e.Kind].Error()
}

func (e *Error) Unwrap() error {
	return sentinels[e.Kind]
}

// New returns an *Error of the given kind with a formatted message.
func New(kind Kind, format string, a ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
	}
}

// Network wraps a transport-level failure where no response was received.
func Network(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("request failed: %v", err),
	}
}

// ErrorBody is the error shape the backend returns for failed requests.
type ErrorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// FromStatus maps an HTTP error status and the decoded response body to an
// *Error. It must only be called for statuses >= 400.
func FromStatus(status int, body ErrorBody) *Error {
	var kind Kind

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuthorization
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusUnprocessableEntity:
		kind = KindValidation
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status >= 500:
		kind = KindServer
	default:
		// 4xx without a more specific meaning is treated as validation,
		// matching how the backend uses 400 for malformed payloads.
		kind = KindValidation
	}

	return &Error{
		Kind:    kind,
		Status:  status,
		Message: body.Message,
		Fields:  body.Errors,
	}
}
