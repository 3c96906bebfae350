package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleIssuer is the OIDC issuer for Google accounts.
const GoogleIssuer = "https://accounts.google.com"

// ErrNoIDToken is returned when the token endpoint omits the id_token.
var ErrNoIDToken = errors.New("no id_token in response")

// GoogleClaims contains the relevant claims from a Google ID token.
type GoogleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Identity is a verified ID token together with its raw form.
type Identity struct {
	RawIDToken string
	Claims     GoogleClaims
}

// GoogleAuthenticator drives the consent half of Google OAuth 2.0 / OIDC:
// it builds consent URLs and exchanges authorization codes for ID tokens.
type GoogleAuthenticator struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleAuthenticator discovers Google's OIDC configuration and builds an authenticator.
func NewGoogleAuthenticator(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	return &GoogleAuthenticator{
		config:   config,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// AuthURL generates the Google OAuth consent URL with the given state.
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.config.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// RedirectURL returns the callback address registered with Google.
func (g *GoogleAuthenticator) RedirectURL() string {
	return g.config.RedirectURL
}

// Exchange swaps the authorization code for tokens and returns the verified identity.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrNoIDToken
	}

	claims, err := verify(ctx, g.verifier, rawIDToken)
	if err != nil {
		return nil, err
	}
	return &Identity{RawIDToken: rawIDToken, Claims: *claims}, nil
}

// TokenVerifier checks Google ID tokens presented to the API and applies
// the optional domain and email allowlists.
type TokenVerifier struct {
	verifier       *oidc.IDTokenVerifier
	allowedDomains map[string]struct{}
	allowedEmails  map[string]struct{}
}

// NewTokenVerifier discovers Google's signing keys and builds a verifier for clientID.
func NewTokenVerifier(ctx context.Context, clientID string, allowedDomains, allowedEmails []string) (*TokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}
	return &TokenVerifier{
		verifier:       provider.Verifier(&oidc.Config{ClientID: clientID}),
		allowedDomains: lowerSet(allowedDomains),
		allowedEmails:  lowerSet(allowedEmails),
	}, nil
}

// Verify validates the raw ID token and returns its claims.
func (v *TokenVerifier) Verify(ctx context.Context, rawIDToken string) (*GoogleClaims, error) {
	return verify(ctx, v.verifier, rawIDToken)
}

// IsEmailAllowed checks if the given email is allowed based on domain/email allowlists.
func (v *TokenVerifier) IsEmailAllowed(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, ok := v.allowedEmails[email]; ok {
		return true
	}

	if _, domain, found := strings.Cut(email, "@"); found {
		if _, ok := v.allowedDomains[domain]; ok {
			return true
		}
	}

	// No allowlist configured means every verified account is accepted.
	return len(v.allowedDomains) == 0 && len(v.allowedEmails) == 0
}

// HasAllowlist returns true if any allowlist restrictions are configured.
func (v *TokenVerifier) HasAllowlist() bool {
	return len(v.allowedDomains) > 0 || len(v.allowedEmails) > 0
}

// GenerateState generates a cryptographically secure random state string.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func verify(ctx context.Context, verifier *oidc.IDTokenVerifier, rawIDToken string) (*GoogleClaims, error) {
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}

	var claims GoogleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	return &claims, nil
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
