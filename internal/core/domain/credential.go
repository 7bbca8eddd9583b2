package domain

import (
	"strings"
	"time"
)

// TokenTypeBearer is the only token type the API issues.
const TokenTypeBearer = "Bearer"

// Credential is the login response: an opaque bearer token plus its type.
type Credential struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// Valid reports whether the credential carries a usable token.
func (c Credential) Valid() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

// Type returns the token type, defaulting to Bearer.
func (c Credential) Type() string {
	if c.TokenType == "" {
		return TokenTypeBearer
	}
	return c.TokenType
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate rejects blank usernames or passwords before any request is made.
func (r LoginRequest) Validate() error {
	var problems []string
	if strings.TrimSpace(r.Username) == "" {
		problems = append(problems, "username is required")
	}
	if r.Password == "" {
		problems = append(problems, "password is required")
	}
	if len(problems) > 0 {
		return ErrValidation.WithDetails(strings.Join(problems, "; "))
	}
	return nil
}

// TokenClaims are the display-only claims decoded from a JWT access token.
// They are never verified and never used to decide authorization.
type TokenClaims struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the claimed expiry is before now.
// A zero expiry never expires.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
