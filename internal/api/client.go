package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 15 * time.Second
	userAgent      = "jobhunter-cli/1.0"
	requestIDKey   = "X-Request-ID"
	userIDParam    = "clerk_user_id"
)

// Client for requests to the JobHunter backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	token      string
}

// Option customises a Client
type Option func(*Client)

// WithToken sends the identity token as a bearer credential
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for baseURL. A zero timeout falls back to 15s.
func New(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest sends one request; there is no retry, callers retry manually
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body io.Reader, contentType string) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDKey, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("successful request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
		)
		return data, nil
	}

	apiErr := newError(resp.StatusCode, method, path, data)
	c.logger.Error("API error",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.String("detail", apiErr.Detail),
	)
	return nil, apiErr
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, path, params, nil, "")
}

func (c *Client) delete(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.doRequest(ctx, http.MethodDelete, path, params, nil, "")
}

// sendJSON encodes payload (nil sends no body) and issues method
func (c *Client) sendJSON(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	if payload == nil {
		return c.doRequest(ctx, method, path, params, nil, "")
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.doRequest(ctx, method, path, params, bytes.NewReader(buf), "application/json")
}

// parseResponse decodes a JSON response
func (c *Client) parseResponse(data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func userParams(userID string) url.Values {
	params := url.Values{}
	if userID != "" {
		params.Set(userIDParam, userID)
	}
	return params
}
