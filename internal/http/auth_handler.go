package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"narrator/internal/accounts"
	"narrator/internal/auth"
	"narrator/internal/platform/metrics"
)

type idTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*auth.GoogleClaims, error)
	IsEmailAllowed(email string) bool
}

// AuthHandler exposes password and federated sign-in endpoints.
type AuthHandler struct {
	accounts *accounts.Service
	verifier idTokenVerifier
	logger   *slog.Logger
}

// NewAuthHandler creates a handler. A nil verifier disables Google sign-in.
func NewAuthHandler(accountSvc *accounts.Service, verifier idTokenVerifier, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accountSvc, verifier: verifier, logger: logger}
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), accounts.RegisterInput{
		Email:    payload.Email,
		Password: payload.Password,
		Name:     payload.Name,
	})
	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeSuccess).Inc()
		h.logger.Info("account registered", "user_id", user.ID)
		writeJSON(w, http.StatusOK, user.Profile())
	case errors.Is(err, accounts.ErrValidation):
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, accounts.ErrAlreadyExists):
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusConflict, "User already exists")
	default:
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeError).Inc()
		h.logger.Error("register", "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
	}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}
	if strings.TrimSpace(payload.Email) == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := h.accounts.Login(r.Context(), payload.Email, payload.Password)
	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("password_login", metrics.OutcomeSuccess).Inc()
		writeJSON(w, http.StatusOK, user.Profile())
	case errors.Is(err, accounts.ErrNotFound):
		metrics.AuthAttemptsTotal.WithLabelValues("password_login", metrics.OutcomeNotFound).Inc()
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, accounts.ErrInvalidPassword):
		metrics.AuthAttemptsTotal.WithLabelValues("password_login", metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, accounts.ErrPasswordRequired):
		metrics.AuthAttemptsTotal.WithLabelValues("password_login", metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusUnauthorized, "Password required")
	default:
		metrics.AuthAttemptsTotal.WithLabelValues("password_login", metrics.OutcomeError).Inc()
		h.logger.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
	}
}

// GoogleLogin handles POST /api/google-login: it verifies a Google ID token
// and returns the matching account, creating it on first sign-in.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		writeError(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	var payload struct {
		IDToken string `json:"idToken"`
	}
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}
	if strings.TrimSpace(payload.IDToken) == "" {
		writeError(w, http.StatusUnauthorized, "Missing ID token")
		return
	}

	claims, err := h.verifier.Verify(r.Context(), payload.IDToken)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("google", metrics.OutcomeRejected).Inc()
		h.logger.Warn("google login: token verification failed", "error", err)
		writeError(w, http.StatusUnauthorized, "Invalid ID token")
		return
	}

	if !claims.EmailVerified {
		metrics.AuthAttemptsTotal.WithLabelValues("google", metrics.OutcomeRejected).Inc()
		h.logger.Warn("google login: email not verified", "email", claims.Email)
		writeError(w, http.StatusForbidden, "Please verify your Google email address")
		return
	}

	if !h.verifier.IsEmailAllowed(claims.Email) {
		metrics.AuthAttemptsTotal.WithLabelValues("google", metrics.OutcomeRejected).Inc()
		h.logger.Warn("google login: email not allowed", "email", claims.Email)
		writeError(w, http.StatusForbidden, "Your account is not authorized to access this application")
		return
	}

	user, err := h.accounts.LoginFederated(r.Context(), accounts.FederatedIdentity{
		Provider: accounts.ProviderGoogle,
		Subject:  claims.Sub,
		Email:    claims.Email,
		Name:     claims.Name,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("google", metrics.OutcomeError).Inc()
		if errors.Is(err, accounts.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("google login: account lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user account")
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("google", metrics.OutcomeSuccess).Inc()
	h.logger.Info("google login successful", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user.Profile())
}
