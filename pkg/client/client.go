package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-loanform/internal/logger"
	"github.com/goliatone/go-loanform/pkg/loan"
)

// Operation names used in errors, logs and metrics.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client talks to the /api/loans collection endpoint.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	headers    http.Header
	log        logger.Logger
	metrics    Metrics
}

// New builds a client rooted at baseURL, e.g. http://localhost:8080/api/loans.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, ErrBaseURL
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
		log:        logger.NewNoOpLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.timeout > 0 {
		clone := *c.httpClient
		clone.Timeout = c.timeout
		c.httpClient = &clone
	}

	return c, nil
}

// BaseURL returns the collection endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List fetches the full collection. Anything but 200 is an HTTPError.
func (c *Client) List(ctx context.Context) ([]loan.Record, error) {
	resp, err := c.do(ctx, OpList, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return nil, &HTTPError{Op: OpList, StatusCode: resp.StatusCode}
	}

	var records []loan.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &NetworkError{Op: OpList, Err: fmt.Errorf("decode: %w", err)}
	}
	if records == nil {
		records = []loan.Record{}
	}
	return records, nil
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, id int64) (loan.Record, error) {
	resp, err := c.do(ctx, OpGet, http.MethodGet, c.recordURL(id), nil)
	if err != nil {
		return loan.Record{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return loan.Record{}, &HTTPError{Op: OpGet, StatusCode: resp.StatusCode}
	}

	var record loan.Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return loan.Record{}, &NetworkError{Op: OpGet, Err: fmt.Errorf("decode: %w", err)}
	}
	return record, nil
}

// Create posts a new record to the collection. Any 2xx is success.
func (c *Client) Create(ctx context.Context, record loan.Record) error {
	record.ID = 0
	return c.send(ctx, OpCreate, http.MethodPost, c.collectionURL(), record)
}

// Update replaces the record identified by id. Any 2xx is success.
func (c *Client) Update(ctx context.Context, id int64, record loan.Record) error {
	record.ID = 0
	return c.send(ctx, OpUpdate, http.MethodPut, c.recordURL(id), record)
}

// Delete removes a record. Only 204 No Content counts as success.
func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, OpDelete, http.MethodDelete, c.recordURL(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return &HTTPError{Op: OpDelete, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) send(ctx context.Context, op, method, target string, record loan.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("client: %s: encode: %w", op, err)
	}

	resp, err := c.do(ctx, op, method, target, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Op: op, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	log := c.log.WithFields(map[string]interface{}{
		"op":         op,
		"method":     method,
		"url":        target,
		"request_id": requestID,
	})

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(started)
	if err != nil {
		c.observe(op, 0, elapsed)
		log.WithError(err).Warn("loan api request failed", nil)
		return nil, &NetworkError{Op: op, Err: err}
	}

	c.observe(op, resp.StatusCode, elapsed)
	log.Debug("loan api request", map[string]interface{}{
		"status":  resp.StatusCode,
		"elapsed": elapsed.String(),
	})
	return resp, nil
}

func (c *Client) observe(op string, status int, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveRequest(op, status, elapsed)
	}
}

func (c *Client) collectionURL() string {
	return c.baseURL.String()
}

func (c *Client) recordURL(id int64) string {
	return c.baseURL.JoinPath(strconv.FormatInt(id, 10)).String()
}

// drain lets the transport reuse the connection.
func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
}
