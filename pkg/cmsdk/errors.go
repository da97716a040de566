package cmsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Backend error codes surfaced in the CMS error envelope.
const (
	ErrorCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrorCodeInvalidToken       = "INVALID_TOKEN"
	ErrorCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrorCodeInvalidPayload     = "INVALID_PAYLOAD"
	ErrorCodeForbidden          = "FORBIDDEN"
	ErrorCodeRecordNotFound     = "RECORD_NOT_FOUND"
	ErrorCodeServerError        = "INTERNAL_SERVER_ERROR"
)

// ErrNoSession is returned by RestoreSession when the token storage holds
// nothing to restore.
var ErrNoSession = errors.New("cmsdk: no stored session")

// APIError represents an error response from the CMS backend.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Code is the backend error code (e.g. "INVALID_CREDENTIALS")
	Code string

	// Message is the human-readable description from the backend
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err represents a missing record. Callers treat
// this as "no data" rather than a failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrorCodeRecordNotFound || apiErr.StatusCode == http.StatusNotFound
}

// parseErrorResponse converts a non-2xx response body into a typed error.
// The backend wraps errors as {"errors":[{"message","extensions":{"code"}}]}.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var envelope struct {
		Errors []struct {
			Message    string `json:"message"`
			Extensions struct {
				Code string `json:"code"`
			} `json:"extensions"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		code := first.Extensions.Code
		if code == "" {
			code = ErrorCodeServerError
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       code,
			Message:    first.Message,
		}
	}

	// Fallback: create a generic error from the status code
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
