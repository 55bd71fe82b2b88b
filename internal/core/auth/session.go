package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/tidwall/gjson"
)

const accessTokenField = "accessToken"

// Session is the bearer token obtained once per run. It is applied to
// every request after login and never refreshed.
type Session struct {
	Token string `json:"token"`

	// Subject and ExpiresAt are read from the token claims when the token is a JWT.
	// Both stay zero for opaque tokens.
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// NewSession wraps a token and reads its claims if it is a JWT
func NewSession(token string) *Session {
	s := &Session{Token: token}
	if claims, err := InspectToken(token); err == nil {
		s.Subject = claims.Subject
		if claims.ExpiresAt != 0 {
			s.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
		}
	}
	return s
}

// Apply adds the Bearer token to the Authorization header
func (s *Session) Apply(req *http.Request) error {
	if err := s.Validate(); err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	return nil
}

func (s *Session) Type() string {
	return "bearer"
}

// Validate checks if the token is present
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Token) == "" {
		return errors.New("session token cannot be empty")
	}
	return nil
}

// Redact returns a copy with the token redacted
func (s *Session) Redact() AuthProvider {
	return &Session{
		Token:     RedactString(s.Token),
		Subject:   s.Subject,
		ExpiresAt: s.ExpiresAt,
	}
}

// Expired reports whether the token claims say it has expired at now.
// Tokens without an expiry never expire.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

func (s *Session) String() string {
	return fmt.Sprintf("Bearer Token (%s)", RedactString(s.Token))
}

// ParseAccessToken extracts the access token from a login response body.
// A missing, null or empty field is an error rather than an empty token.
func ParseAccessToken(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: response is not JSON", ErrMissingAccessToken)
	}
	field := gjson.GetBytes(body, accessTokenField)
	if !field.Exists() || field.Type != gjson.String {
		return "", fmt.Errorf("%w: no %q field", ErrMissingAccessToken, accessTokenField)
	}
	token := strings.TrimSpace(field.String())
	if token == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrMissingAccessToken, accessTokenField)
	}
	return token, nil
}

// InspectToken decodes JWT claims without verifying the signature. The
// signing key belongs to the remote service, so this is for logging only.
func InspectToken(token string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}
	return claims, nil
}
