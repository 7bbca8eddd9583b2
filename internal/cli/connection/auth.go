package connection

import (
	"context"

	"github.com/yndnr/roster-go/internal/core/domain"
)

// LoginPath is the login endpoint relative to the API root.
const LoginPath = "/auth/login"

// AuthClient calls the authentication endpoint.
type AuthClient struct {
	http *HTTPClient
}

// NewAuthClient creates an AuthClient.
func NewAuthClient(c *HTTPClient) *AuthClient {
	return &AuthClient{http: c}
}

// Login posts the credentials and decodes the token response. It does
// not check that the token is present.
func (a *AuthClient) Login(ctx context.Context, req domain.LoginRequest) (domain.Credential, error) {
	resp, err := a.http.Post(ctx, LoginPath, req)
	if err != nil {
		return domain.Credential{}, err
	}
	var cred domain.Credential
	if err := ParseResponse(resp, &cred); err != nil {
		return domain.Credential{}, err
	}
	return cred, nil
}
