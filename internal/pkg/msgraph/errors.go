package msgraph

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoCredential indicates the user never linked a Microsoft identity
	// (or the linkage was removed). Only a fresh sign-in can fix this.
	ErrNoCredential = errors.New("msgraph: no credential for user")

	// ErrRefreshFailed indicates the refresh token was rejected or the token
	// endpoint could not be reached. The stored credential is left untouched;
	// callers at the HTTP boundary must ask the user to sign in again.
	ErrRefreshFailed = errors.New("msgraph: token refresh failed")

	// ErrAuthExpired indicates Graph rejected the access token. The client
	// retries once with a forced refresh before surfacing this.
	ErrAuthExpired = errors.New("msgraph: access token rejected")

	// ErrForbidden indicates the user is authenticated but not authorized for
	// the specific resource. Must not be conflated with an empty result.
	ErrForbidden = errors.New("msgraph: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("msgraph: not found")
)

// RefreshError wraps ErrRefreshFailed with the provider's error payload so
// the boundary can log what the token endpoint actually said.
type RefreshError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RefreshError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("msgraph: token refresh failed: %v", e.Err)
	}
	return fmt.Sprintf("msgraph: token refresh failed: status %d: %s", e.StatusCode, e.Body)
}

func (e *RefreshError) Unwrap() error { return ErrRefreshFailed }

// GatewayError carries the raw Graph error body for any non-2xx response that
// does not map to a sentinel above.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("msgraph: graph request failed: status %d: %s", e.StatusCode, e.Body)
}

// wrapStatus converts a Graph HTTP status to the portal's error taxonomy.
// Returns nil for 2xx.
func wrapStatus(statusCode int, body string) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized:
		return ErrAuthExpired
	case statusCode == http.StatusForbidden:
		return ErrForbidden
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return &GatewayError{StatusCode: statusCode, Body: body}
	}
}
