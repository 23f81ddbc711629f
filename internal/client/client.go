// Package client is the Go rendition of the web app's data hooks: thin
// fetch/mutate wrappers over the REST API with a keyed read cache that is
// invalidated on successful mutations. There are no automatic retries;
// failures surface to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultCacheTTL = 30 * time.Second

// TokenSource supplies the bearer token for authenticated calls.
// session.Provider satisfies it.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// FetchError carries the status and body of a non-2xx response.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Prepilot API.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	cache    *Cache
	cacheTTL time.Duration
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock injects the clock used for cache expiry and derived helpers.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithCacheTTL overrides how long cached reads stay fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		http:     http.DefaultClient,
		tokens:   tokens,
		cacheTTL: defaultCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = NewCache(c.now)
	return c
}

// Invalidate exposes cache invalidation for callers that learn about
// staleness out of band.
func (c *Client) Invalidate(key Key) {
	c.cache.Invalidate(key)
}

// dataEnvelope is the API's success envelope.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// do performs one authenticated request and decodes the {data} envelope
// into out. Non-2xx responses become *FetchError.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("no authentication token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	// Responses wrap payloads as {"data": ...}; tolerate bare payloads the
	// way the web client does (result.data || result).
	var envelope dataEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(raw, out)
}
