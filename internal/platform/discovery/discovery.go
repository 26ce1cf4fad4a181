// Package discovery talks to the cluster discovery services used during
// parameter extraction: the coreos discovery-token service and the public
// swarm discovery service.
package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/imamik/baystack/internal/util/retry"
)

// Client fetches discovery tokens.
type Client interface {
	// Token GETs tokenURL and returns the last path segment of the body.
	Token(ctx context.Context, tokenURL string) (string, error)

	// RegisterSwarm POSTs to the public swarm discovery service and returns
	// the token it hands out.
	RegisterSwarm(ctx context.Context, serviceURL string) (string, error)
}

// HTTPClient implements Client over HTTP with retries on transient
// failures. 4xx responses are not retried.
type HTTPClient struct {
	http       *http.Client
	retryOpts  []retry.Option
	maxBodyLen int64
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithRetryOptions overrides the retry settings.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(c *HTTPClient) {
		c.retryOpts = opts
	}
}

// NewHTTPClient returns a discovery client with a 30s request timeout.
func NewHTTPClient(opts ...Option) *HTTPClient {
	c := &HTTPClient{
		http:       &http.Client{Timeout: 30 * time.Second},
		maxBodyLen: 64 << 10,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

// Token fetches a coreos discovery URL from tokenURL and returns its last
// path segment. A body of "https://discovery.etcd.io/h1/h2/h3" yields "h3".
func (c *HTTPClient) Token(ctx context.Context, tokenURL string) (string, error) {
	body, err := c.fetch(ctx, http.MethodGet, tokenURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch discovery token from %s: %w", tokenURL, err)
	}
	token := LastPathSegment(body)
	if token == "" {
		return "", fmt.Errorf("discovery service at %s returned no token", tokenURL)
	}
	return token, nil
}

// RegisterSwarm creates a new swarm cluster id at the public discovery
// service.
func (c *HTTPClient) RegisterSwarm(ctx context.Context, serviceURL string) (string, error) {
	body, err := c.fetch(ctx, http.MethodPost, serviceURL)
	if err != nil {
		return "", fmt.Errorf("failed to register swarm cluster at %s: %w", serviceURL, err)
	}
	token := strings.TrimSpace(body)
	if token == "" {
		return "", fmt.Errorf("swarm discovery service at %s returned no token", serviceURL)
	}
	return token, nil
}

func (c *HTTPClient) fetch(ctx context.Context, method, rawURL string) (string, error) {
	var body string
	err := retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return retry.Fatal(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyLen))
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		case resp.StatusCode >= 300:
			return retry.Fatal(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
		}
		body = string(data)
		return nil
	}, c.retryOpts...)
	return body, err
}

// LastPathSegment returns the final non-empty path element of a URL or
// path, ignoring surrounding whitespace and a trailing slash.
func LastPathSegment(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	raw = strings.TrimRight(raw, "/")
	if raw == "" {
		return ""
	}
	return path.Base(raw)
}
