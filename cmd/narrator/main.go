package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"narrator/internal/auth"
	"narrator/internal/config"
	"narrator/internal/federated"
	"narrator/internal/platform/logging"
	"narrator/internal/remote"
	"narrator/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: os.Stderr})

	transport := remote.NewTransport(cfg.APIURL, remote.WithTimeout(cfg.RequestTimeout))

	var identity federated.Capability
	if cfg.GoogleEnabled() {
		authenticator, err := auth.NewGoogleAuthenticator(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RedirectURL)
		if err != nil {
			logger.Warn("Google sign-in unavailable", "error", err)
		} else {
			identity = federated.NewLoopback(authenticator, consentPrompt(os.Stdout), logger)
		}
	}

	resolver := session.NewResolver(remote.NewAuthClient(transport), identity, logger)
	a := newApp(session.NewManager(resolver), remote.NewProjectClient(transport), logger, os.Stdin, os.Stdout)
	a.run(ctx)
}
