package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 15 * time.Second
	maxErrorBodySize = 64 << 10
)

// Transport issues JSON requests against the Narrator API.
type Transport struct {
	client  *http.Client
	baseURL string
}

// Option configures the Transport during construction.
type Option func(*Transport)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Transport) {
		if timeout > 0 {
			t.client = &http.Client{Timeout: timeout}
		}
	}
}

// NewTransport constructs a Transport rooted at baseURL.
func NewTransport(baseURL string, opts ...Option) *Transport {
	t := &Transport{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transport) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := t.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return &Error{Kind: KindUnavailable, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindOther, Status: resp.StatusCode, Err: fmt.Errorf("decode %s %s: %w", method, path, err)}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	remoteErr := &Error{Kind: classifyStatus(resp.StatusCode), Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		remoteErr.Err = err
		return remoteErr
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		remoteErr.Message = strings.TrimSpace(payload.Error)
		if remoteErr.Message == "" {
			remoteErr.Message = strings.TrimSpace(payload.Message)
		}
	}
	if remoteErr.Message == "" {
		remoteErr.Err = errors.New(http.StatusText(resp.StatusCode))
	}
	return remoteErr
}
