package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"narrator/internal/accounts"
	"narrator/internal/auth"
	"narrator/internal/config"
	transporthttp "narrator/internal/http"
	"narrator/internal/platform/database"
	"narrator/internal/platform/logging"
	"narrator/internal/platform/migrate"
	"narrator/internal/projects"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	accountRepo, projectRepo, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	services := transporthttp.Services{
		Accounts: accounts.NewService(accountRepo),
		Projects: projects.NewService(projectRepo),
	}

	if cfg.FederatedLoginEnabled() {
		verifier, err := auth.NewTokenVerifier(ctx, cfg.GoogleClientID, cfg.GoogleAllowedDomains, cfg.GoogleAllowedEmails)
		if err != nil {
			logger.Error("failed to initialize Google token verifier", "error", err)
			os.Exit(1)
		}
		services.Verifier = verifier
		logger.Info("Google sign-in enabled", "allowlist", verifier.HasAllowlist())
	}

	router := transporthttp.NewRouter(cfg, services, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("Narrator API listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (accounts.Repository, projects.Repository, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repository")
		demoUsers, err := seedLocalAccounts()
		if err != nil {
			return nil, nil, nil, err
		}
		return accounts.NewInMemoryRepository(demoUsers), projects.NewInMemoryRepository(seedLocalProjects(demoUsers)), nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, database.WithMaxConns(cfg.DatabaseMaxConns))
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db, logger); err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	logger.Info("connected to postgres")
	return accounts.NewPostgresRepository(db), projects.NewPostgresRepository(db), cleanup, nil
}
