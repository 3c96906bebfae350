package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"narrator/internal/platform/metrics"
	"narrator/internal/projects"
)

// ProjectHandler exposes the project list, save, and delete endpoints.
type ProjectHandler struct {
	service *projects.Service
	logger  *slog.Logger
}

// NewProjectHandler creates a handler.
func NewProjectHandler(service *projects.Service, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{service: service, logger: logger}
}

// List handles GET /api/projects?userId=.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		h.logger.Error("list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Save handles POST /api/projects, creating or updating by id.
func (h *ProjectHandler) Save(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID         string          `json:"id"`
		UserID     string          `json:"userId"`
		Title      string          `json:"title"`
		Date       string          `json:"date"`
		CoverImage string          `json:"coverImage"`
		Pages      json.RawMessage `json:"pages"`
	}
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	project, err := h.service.Save(r.Context(), projects.SaveInput{
		ID:         payload.ID,
		OwnerID:    payload.UserID,
		Title:      payload.Title,
		Date:       payload.Date,
		CoverImage: payload.CoverImage,
		Pages:      payload.Pages,
	})
	if err != nil {
		h.handleError(w, err, "save project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, err, "delete project")
		return
	}
	metrics.ProjectsDeletedTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

func (h *ProjectHandler) handleError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, projects.ErrNotFound):
		writeError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, projects.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
