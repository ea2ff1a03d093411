// Package api is the client's HTTP layer: it talks JSON to the backend under
// <base>/api, attaches the session's bearer token to every request and maps
// non-success responses onto a small error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

const maxErrorBody = 4 << 10

// TokenSource yields the current bearer token. It is consulted on every
// request so a logout or re-login takes effect immediately.
type TokenSource interface {
	Token() (string, bool)
}

// Client sends requests to the backend.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Client for the backend at baseURL (scheme://host[:port]).
// tokens may be nil for an anonymous client.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		tokens:  tokens,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends in (if non-nil) as JSON to path with method and decodes a success
// body into out (if non-nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: ErrValidation, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: ErrNetwork, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &Error{Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Status:  resp.StatusCode,
			Message: readErrorMessage(resp.Body),
			Kind:    kindForStatus(resp.StatusCode),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Kind: ErrServer, Err: fmt.Errorf("invalid response: %w", err)}
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} or falls back to the raw text.
func readErrorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
