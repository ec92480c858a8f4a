// Package gateway is the HTTP client for the Inner Bloom platform API. It is
// the only component that talks to the network; callers treat every error it
// returns as "no data".
package gateway

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

	"go.uber.org/zap"
)

// ErrNoData is returned when the platform answers with a non-2xx status or
// with {"success": false}.
var ErrNoData = errors.New("gateway: no data")

// ErrBodyTooLarge is returned when a response body exceeds the client limit.
var ErrBodyTooLarge = errors.New("gateway: response body too large")

const maxBodyBytes = 10 << 20

// Client talks to a single API base, e.g. https://host/api/real.
type Client struct {
	base    string
	http    *http.Client
	logger  *zap.Logger
	maxBody int64
}

// New creates a Client with the given request timeout.
func New(base string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		maxBody: maxBodyBytes,
	}
}

// Base returns the API base the client was configured with.
func (c *Client) Base() string { return c.base }

type envelope struct {
	Success bool `json:"success"`
}

func (c *Client) url(path string, query url.Values) string {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do issues the request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, string, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return nil, "", fmt.Errorf("building %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading %s %s: %w", method, path, err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, "", fmt.Errorf("%s %s: %w", method, path, ErrBodyTooLarge)
	}
	c.logger.Debug("platform request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%s %s returned status %d: %w", method, path, resp.StatusCode, ErrNoData)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// explicitFailure reports whether a plain object body carries success=false.
func explicitFailure(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var status struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(trimmed, &status); err != nil {
		return false
	}
	return status.Success != nil && !*status.Success
}

// getJSON decodes a plain (non-enveloped) JSON response.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	data, _, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if explicitFailure(data) {
		return fmt.Errorf("GET %s reported failure: %w", path, ErrNoData)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding GET %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest any) error {
	data, _, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if explicitFailure(data) {
		return fmt.Errorf("POST %s reported failure: %w", path, ErrNoData)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding POST %s: %w", path, err)
	}
	return nil
}

// enveloped decodes a {success, ...payload} response, rejecting success=false.
func enveloped(path string, data []byte, dest any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if !env.Success {
		return fmt.Errorf("%s reported failure: %w", path, ErrNoData)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) getEnvelope(ctx context.Context, path string, query url.Values, dest any) error {
	data, _, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return enveloped(path, data, dest)
}

func (c *Client) postEnvelope(ctx context.Context, path string, body, dest any) error {
	data, _, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return enveloped(path, data, dest)
}
