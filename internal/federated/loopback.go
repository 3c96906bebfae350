package federated

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"narrator/internal/auth"
)

// ConsentFlow is the provider half of an authorization-code login.
// auth.GoogleAuthenticator satisfies it.
type ConsentFlow interface {
	AuthURL(state string) string
	RedirectURL() string
	Exchange(ctx context.Context, code string) (*auth.Identity, error)
}

// Prompt presents the consent URL to the person signing in.
type Prompt func(consentURL string) error

var (
	// ErrStateMismatch is returned when the callback state does not match the request.
	ErrStateMismatch = errors.New("state mismatch")
	// ErrMissingCode is returned when the callback carries no authorization code.
	ErrMissingCode = errors.New("missing authorization code")
)

// Loopback completes the consent flow by listening on the redirect URL of
// the local machine for the provider's callback.
type Loopback struct {
	flow     ConsentFlow
	prompt   Prompt
	logger   *slog.Logger
	listen   func(network, address string) (net.Listener, error)
	newState func() (string, error)
}

// LoopbackOption configures a Loopback during construction.
type LoopbackOption func(*Loopback)

// WithListener serves the callback on an existing listener instead of
// binding the redirect address.
func WithListener(ln net.Listener) LoopbackOption {
	return func(l *Loopback) {
		l.listen = func(string, string) (net.Listener, error) { return ln, nil }
	}
}

// NewLoopback constructs a Loopback capability.
func NewLoopback(flow ConsentFlow, prompt Prompt, logger *slog.Logger, opts ...LoopbackOption) *Loopback {
	l := &Loopback{
		flow:     flow,
		prompt:   prompt,
		logger:   logger,
		listen:   net.Listen,
		newState: auth.GenerateState,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type callbackResult struct {
	code string
	err  error
}

// Acquire runs one consent round trip and returns the verified assertion.
func (l *Loopback) Acquire(ctx context.Context) (Assertion, error) {
	redirect, err := url.Parse(l.flow.RedirectURL())
	if err != nil {
		return Assertion{}, fmt.Errorf("parse redirect url: %w", err)
	}

	state, err := l.newState()
	if err != nil {
		return Assertion{}, fmt.Errorf("generate state: %w", err)
	}

	ln, err := l.listen("tcp", redirect.Host)
	if err != nil {
		return Assertion{}, fmt.Errorf("listen on %s: %w", redirect.Host, err)
	}

	results := make(chan callbackResult, 1)
	var once sync.Once
	deliver := func(res callbackResult) {
		once.Do(func() { results <- res })
	}

	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		res := parseCallback(r.URL.Query(), state)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, "Sign-in failed: %v\n", res.err)
		} else {
			_, _ = fmt.Fprintln(w, "Signed in. You can close this window and return to the terminal.")
		}
		deliver(res)
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			deliver(callbackResult{err: fmt.Errorf("callback server: %w", serveErr)})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := l.prompt(l.flow.AuthURL(state)); err != nil {
		return Assertion{}, fmt.Errorf("present consent url: %w", err)
	}
	l.logger.Debug("waiting for consent callback", "address", ln.Addr().String())

	var res callbackResult
	select {
	case <-ctx.Done():
		return Assertion{}, fmt.Errorf("sign-in cancelled: %w", ctx.Err())
	case res = <-results:
	}
	if res.err != nil {
		return Assertion{}, res.err
	}

	identity, err := l.flow.Exchange(ctx, res.code)
	if err != nil {
		return Assertion{}, err
	}

	return Assertion{
		IDToken: identity.RawIDToken,
		Profile: Profile{
			Subject: identity.Claims.Sub,
			Name:    identity.Claims.Name,
			Email:   identity.Claims.Email,
		},
	}, nil
}

func parseCallback(query url.Values, expectedState string) callbackResult {
	if providerErr := query.Get("error"); providerErr != "" {
		if desc := query.Get("error_description"); desc != "" {
			return callbackResult{err: fmt.Errorf("provider returned %s: %s", providerErr, desc)}
		}
		return callbackResult{err: fmt.Errorf("provider returned %s", providerErr)}
	}
	if subtle.ConstantTimeCompare([]byte(query.Get("state")), []byte(expectedState)) != 1 {
		return callbackResult{err: ErrStateMismatch}
	}
	code := query.Get("code")
	if code == "" {
		return callbackResult{err: ErrMissingCode}
	}
	return callbackResult{code: code}
}
