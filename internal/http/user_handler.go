package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"narrator/internal/accounts"
)

// UserHandler exposes profile updates.
type UserHandler struct {
	accounts *accounts.Service
	logger   *slog.Logger
}

// NewUserHandler creates a handler.
func NewUserHandler(accountSvc *accounts.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accountSvc, logger: logger}
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name *string `json:"name"`
		Age  *string `json:"age"`
	}
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), chi.URLParam(r, "id"), accounts.ProfileInput{
		Name: payload.Name,
		Age:  payload.Age,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, user.Profile())
	case errors.Is(err, accounts.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, accounts.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("update user", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
