// Package fetch performs the bounded-timeout JSON GET requests that command
// handlers make to third-party services.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultTimeout         = 5 * time.Second
	DefaultMaxResponseSize = 1 << 20
	DefaultUserAgent       = "cqbot/1.0"
)

// ErrStatus is returned for non-2xx responses.
var ErrStatus = errors.New("unexpected HTTP status")

// Client issues GET requests with a fixed timeout.
type Client struct {
	http            *http.Client
	timeout         time.Duration
	maxResponseSize int64
	userAgent       string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMaxResponseSize caps the number of body bytes read.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) { c.maxResponseSize = n }
}

// New creates a client whose requests give up after timeout.
func New(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		http:            &http.Client{},
		timeout:         timeout,
		maxResponseSize: DefaultMaxResponseSize,
		userAgent:       DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches url and decodes the JSON body into v.
// Any transport error, timeout, non-2xx status, oversized or non-JSON body is
// returned as an error.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("url must start with http:// or https://")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		return fmt.Errorf("response exceeds %d bytes limit", c.maxResponseSize)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
