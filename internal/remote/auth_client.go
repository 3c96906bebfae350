package remote

import (
	"context"
	"net/http"
)

// User is the account profile the backend returns after a successful
// sign-in or registration.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   string `json:"age"`
}

// AuthClient exchanges credentials and federated tokens for account profiles.
type AuthClient struct {
	transport *Transport
}

// NewAuthClient constructs an AuthClient.
func NewAuthClient(transport *Transport) *AuthClient {
	return &AuthClient{transport: transport}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginByPassword signs in an existing account. An unknown email yields an
// error of KindNotFound.
func (c *AuthClient) LoginByPassword(ctx context.Context, email, password string) (User, error) {
	var user User
	err := c.transport.do(ctx, http.MethodPost, "/api/login", nil, credentialsRequest{Email: email, Password: password}, &user)
	return user, err
}

// RegisterByPassword creates an account and returns its profile.
func (c *AuthClient) RegisterByPassword(ctx context.Context, email, password string) (User, error) {
	var user User
	err := c.transport.do(ctx, http.MethodPost, "/api/register", nil, credentialsRequest{Email: email, Password: password}, &user)
	return user, err
}

// LoginByFederatedToken exchanges a Google ID token for the matching account.
func (c *AuthClient) LoginByFederatedToken(ctx context.Context, idToken string) (User, error) {
	var user User
	err := c.transport.do(ctx, http.MethodPost, "/api/google-login", nil, map[string]string{"idToken": idToken}, &user)
	return user, err
}
