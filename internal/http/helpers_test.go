package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"narrator/internal/accounts"
	"narrator/internal/auth"
	"narrator/internal/config"
	"narrator/internal/projects"
)

type verifierStub struct {
	verify         func(ctx context.Context, raw string) (*auth.GoogleClaims, error)
	isEmailAllowed func(email string) bool
}

func (v *verifierStub) Verify(ctx context.Context, raw string) (*auth.GoogleClaims, error) {
	if v.verify != nil {
		return v.verify(ctx, raw)
	}
	return &auth.GoogleClaims{Sub: "sub", Email: "user@example.com", EmailVerified: true}, nil
}

func (v *verifierStub) IsEmailAllowed(email string) bool {
	if v.isEmailAllowed != nil {
		return v.isEmailAllowed(email)
	}
	return true
}

type testServer struct {
	handler  http.Handler
	accounts *accounts.Service
	projects *projects.Service
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, verifier idTokenVerifier, seedProjects []projects.Project) testServer {
	t.Helper()
	accountSvc := accounts.NewService(accounts.NewInMemoryRepository(nil),
		accounts.WithHasher(accounts.BcryptHasher{Cost: bcrypt.MinCost}))
	projectSvc := projects.NewService(projects.NewInMemoryRepository(seedProjects))

	cfg := config.Config{Environment: "development", AllowedOrigins: []string{"http://localhost:5173"}}
	handler := NewRouter(cfg, Services{
		Accounts: accountSvc,
		Projects: projectSvc,
		Verifier: verifier,
	}, discardLogger())
	return testServer{handler: handler, accounts: accountSvc, projects: projectSvc}
}

func (s testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, rec)["error"]
}
