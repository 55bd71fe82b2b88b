package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrAuthenticationFailed is returned when the login endpoint rejects the credentials
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrMissingAccessToken is returned when the login response carries no access token
	ErrMissingAccessToken = errors.New("access token missing from authentication response")
)

// AuthProvider applies authentication to HTTP requests
type AuthProvider interface {
	// Apply adds authentication to the request
	Apply(req *http.Request) error

	// Type returns the authentication type identifier
	Type() string

	// Validate checks if the configuration is valid
	Validate() error

	// Redact returns a copy with sensitive data hidden (for logging)
	Redact() AuthProvider
}

// NoAuth is used for the login request itself
type NoAuth struct{}

func (n *NoAuth) Apply(req *http.Request) error {
	return nil
}

func (n *NoAuth) Type() string {
	return "none"
}

func (n *NoAuth) Validate() error {
	return nil
}

func (n *NoAuth) Redact() AuthProvider {
	return n
}

// RedactString hides sensitive data for logging
func RedactString(s string) string {
	if len(s) == 0 {
		return "<empty>"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
