package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"narrator/internal/accounts"
	"narrator/internal/config"
	"narrator/internal/platform/metrics"
	"narrator/internal/projects"
)

// Services groups the domain services the router exposes.
type Services struct {
	Accounts *accounts.Service
	Projects *projects.Service
	// Verifier checks Google ID tokens; nil disables /api/google-login.
	Verifier idTokenVerifier
}

// NewRouter wires application routes and middleware using chi.
func NewRouter(cfg config.Config, svc Services, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newMetricsMiddleware())
	r.Use(newSlogMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})
	r.Handle("/metrics", metrics.Handler())

	if svc.Verifier == nil {
		logger.Warn("Google sign-in disabled; /api/google-login will report unavailable")
	}

	authHandler := NewAuthHandler(svc.Accounts, svc.Verifier, logger)
	userHandler := NewUserHandler(svc.Accounts, logger)
	projectHandler := NewProjectHandler(svc.Projects, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/google-login", authHandler.GoogleLogin)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Post("/", projectHandler.Save)
			r.Delete("/{id}", projectHandler.Delete)
		})

		r.Put("/users/{id}", userHandler.Update)
	})

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}
