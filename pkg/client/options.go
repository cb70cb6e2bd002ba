package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-loanform/internal/logger"
)

// Metrics receives one observation per finished request. status is 0 when
// the request failed before a response arrived.
type Metrics interface {
	ObserveRequest(operation string, status int, elapsed time.Duration)
}

// Option configures the API client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout on a copy of the configured HTTP
// client. Zero keeps the client's own behaviour.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics attaches a request metrics sink.
func WithMetrics(m Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHeader adds a static header to every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		c.headers.Set(name, value)
	}
}
