package vra

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents one error entry from the vRA API error envelope.
type APIError struct {
	Code          int    `json:"code"                    yaml:"code"`
	Message       string `json:"message"                 yaml:"message"`
	SystemMessage string `json:"systemMessage,omitempty" yaml:"systemMessage,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.SystemMessage != "" && e.SystemMessage != e.Message {
		return fmt.Sprintf("%s: %s (code: %d)", e.Message, e.SystemMessage, e.Code)
	}

	return fmt.Sprintf("%s (code: %d)", e.Message, e.Code)
}

// ResponseError represents a non-2xx response from the vRA API. It always
// carries the HTTP status and the raw body; Errors is populated when the body
// parses as the standard error envelope.
type ResponseError struct {
	StatusCode int        `json:"-"      yaml:"-"`
	Body       []byte     `json:"-"      yaml:"-"`
	Errors     []APIError `json:"errors" yaml:"errors"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Errors[0].Error())
	}

	if len(e.Errors) > 1 {
		return fmt.Sprintf("HTTP %d: multiple errors: %v", e.StatusCode, e.Errors)
	}

	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, string(e.Body))
}

// FirstError returns the first parsed error entry or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// ParseResponseError builds a ResponseError from a non-2xx response body,
// keeping the raw body even when it is not the standard error envelope.
func ParseResponseError(statusCode int, body []byte) *ResponseError {
	respErr := &ResponseError{StatusCode: statusCode, Body: body}

	// Best effort; failures leave only status and raw body populated.
	_ = json.Unmarshal(body, respErr)

	return respErr
}

// Static errors for err113 compliance.
var (
	ErrNotFound             = errors.New("not found")
	ErrAmbiguousMatch       = errors.New("ambiguous match")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrProvisioningFailed   = errors.New("provisioning failed")
	ErrConfigRequired       = errors.New("config is required")
	ErrEndpointRequired     = errors.New("API endpoint is required")
	ErrCredentialsRequired  = errors.New("username and password are required")
	ErrNoToken              = errors.New("no token available")
	ErrEmptyTemplate        = errors.New("template is empty")
	ErrNoMoreItems          = errors.New("no more items")
)

// NotFoundError reports a name-based lookup that matched nothing.
type NotFoundError struct {
	Kind string
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Unwrap makes the error match ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AmbiguousMatchError reports a name-based lookup expected to be unique that
// matched more than one entity.
type AmbiguousMatchError struct {
	Kind  string
	Name  string
	Count int
}

// Error implements the error interface.
func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("found %d %ss matching %q, expected exactly one", e.Count, e.Kind, e.Name)
}

// Unwrap makes the error match ErrAmbiguousMatch.
func (e *AmbiguousMatchError) Unwrap() error {
	return ErrAmbiguousMatch
}

// AuthenticationError reports a login response that carried no bearer token.
// Body holds the raw server response for debugging.
type AuthenticationError struct {
	Body []byte
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("no bearer token in login response: %s", string(e.Body))
}

// Unwrap makes the error match ErrAuthenticationFailed.
func (e *AuthenticationError) Unwrap() error {
	return ErrAuthenticationFailed
}

// ProvisioningError reports a provisioning request that reached a terminal
// failure state. Request holds the last-seen request body.
type ProvisioningError struct {
	State   string
	Request *Request
}

// Error implements the error interface.
func (e *ProvisioningError) Error() string {
	detail, err := json.Marshal(e.Request)
	if err != nil {
		return fmt.Sprintf("request entered state %s", e.State)
	}

	return fmt.Sprintf("request entered state %s: %s", e.State, string(detail))
}

// Unwrap makes the error match ErrProvisioningFailed.
func (e *ProvisioningError) Unwrap() error {
	return ErrProvisioningFailed
}

// IsNotFound checks whether the error is a failed name lookup or an HTTP 404.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}

	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsAmbiguous checks whether the error is an ambiguous name lookup.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousMatch)
}

// IsAuthenticationFailed checks whether the error is a login failure or an
// HTTP 401.
func IsAuthenticationFailed(err error) bool {
	if errors.Is(err, ErrAuthenticationFailed) {
		return true
	}

	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsProvisioningFailed checks whether the error is a terminal provisioning
// failure.
func IsProvisioningFailed(err error) bool {
	return errors.Is(err, ErrProvisioningFailed)
}
