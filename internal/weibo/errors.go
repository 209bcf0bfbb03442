package weibo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotLoggedIn is returned by token requests when the account has no
	// access token.
	ErrNotLoggedIn = errors.New("weibo: account has no access token")

	// ErrNoUID is returned by the OAuth flow when neither the token response
	// nor the account carried a user id, so user info could not be loaded.
	ErrNoUID = errors.New("weibo: account has no uid")
)

// APIError is a non-2xx response from the Weibo API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Code       int    // error_code from the response body, 0 if absent
	Message    string // error from the response body
	Request    string // request path echoed by the API
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("weibo %s: HTTP %d: %d %s", e.Endpoint, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("weibo %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// TokenExpired reports whether the server rejected the access token.
// Weibo answers 403 once a token has expired or been revoked.
func (e *APIError) TokenExpired() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsTokenExpired reports whether err wraps an APIError with an expired token.
func IsTokenExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.TokenExpired()
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	e := &APIError{Endpoint: endpoint, StatusCode: status}
	var payload struct {
		Error     string `json:"error"`
		ErrorCode int    `json:"error_code"`
		Request   string `json:"request"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Code = payload.ErrorCode
		e.Message = payload.Error
		e.Request = payload.Request
	}
	if e.Message == "" {
		e.Message = truncateBytes(body, 200)
	}
	return e
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
