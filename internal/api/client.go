package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Response is the uniform envelope every wrapper returns. Failure never
// escapes a wrapper as an error or a panic; callers branch on Success.
type Response[T any] struct {
	Data    T
	Success bool
	Message string
}

func ok[T any](data T) Response[T] {
	return Response[T]{Data: data, Success: true}
}

func fail[T any](msg string) Response[T] {
	var zero T
	return Response[T]{Data: zero, Success: false, Message: msg}
}

// Client talks to the evidence-investigation backend. All calls are
// JSON-over-HTTPS (multipart for uploads) with bearer-token auth.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient constructs a backend client. baseURL is required; token may be
// empty for unauthenticated deployments.
func NewClient(baseURL, token string, logger *log.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    base,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}, nil
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds an authenticated request against the backend.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doJSON issues a request with an optional JSON body and decodes the response
// into out. A nil out discards the body. Returns the status code so callers
// can distinguish not-found from other failures.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("api: marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return resp.StatusCode, fmt.Errorf("api: %s %s: status %d: %s",
			method, path, resp.StatusCode, truncateBody(extractError(raw), 300))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("api: %s %s: decode response: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func decodeJSON(raw []byte, out interface{}) error {
	return json.Unmarshal(raw, out)
}

// extractError pulls a human-readable message out of an error body when the
// backend sends one; otherwise the raw body is returned.
func extractError(raw []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			return parsed.Message
		case parsed.Error != "":
			return parsed.Error
		case parsed.Detail != "":
			return parsed.Detail
		}
	}
	return string(raw)
}

func truncateBody(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
