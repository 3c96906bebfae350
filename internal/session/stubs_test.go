package session

import (
	"context"
	"io"
	"log/slog"

	"narrator/internal/federated"
	"narrator/internal/remote"
)

type backendStub struct {
	loginByPassword       func(ctx context.Context, email, password string) (remote.User, error)
	registerByPassword    func(ctx context.Context, email, password string) (remote.User, error)
	loginByFederatedToken func(ctx context.Context, idToken string) (remote.User, error)

	loginCalls     int
	registerCalls  int
	federatedCalls int
}

func (b *backendStub) LoginByPassword(ctx context.Context, email, password string) (remote.User, error) {
	b.loginCalls++
	if b.loginByPassword != nil {
		return b.loginByPassword(ctx, email, password)
	}
	return remote.User{ID: "u1", Email: email}, nil
}

func (b *backendStub) RegisterByPassword(ctx context.Context, email, password string) (remote.User, error) {
	b.registerCalls++
	if b.registerByPassword != nil {
		return b.registerByPassword(ctx, email, password)
	}
	return remote.User{ID: "new", Email: email, Name: "Explorer"}, nil
}

func (b *backendStub) LoginByFederatedToken(ctx context.Context, idToken string) (remote.User, error) {
	b.federatedCalls++
	if b.loginByFederatedToken != nil {
		return b.loginByFederatedToken(ctx, idToken)
	}
	return remote.User{ID: "fed", Email: "fed@example.com"}, nil
}

func (b *backendStub) calls() int {
	return b.loginCalls + b.registerCalls + b.federatedCalls
}

type capabilityStub struct {
	acquire func(ctx context.Context) (federated.Assertion, error)
}

func (c *capabilityStub) Acquire(ctx context.Context) (federated.Assertion, error) {
	if c.acquire != nil {
		return c.acquire(ctx)
	}
	return federated.Assertion{IDToken: "tok", Profile: federated.Profile{Subject: "sub", Name: "Asha", Email: "asha@example.com"}}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
