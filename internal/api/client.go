// ABOUTME: HTTP client for the posts backend API
// ABOUTME: Holds the base URL, bearer token, and shared request plumbing

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Sentinel errors for the auth taxonomy. Callers match these with errors.Is
// to decide whether to clear the session or just surface a message.
var (
	// ErrNoToken means an operation that needs authentication was attempted
	// without a token. No request is made in that case.
	ErrNoToken = errors.New("not signed in")

	// ErrSessionExpired means the backend rejected the bearer token with 401.
	ErrSessionExpired = errors.New("session expired")
)

// ValidationError is a local pre-flight failure; nothing was sent over the
// wire when one of these is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Client is the API client for the posts backend. The token is guarded by
// mu: one goroutine may clear a rejected token while another is still
// issuing requests with it.
type Client struct {
	baseURL    string
	mu         sync.RWMutex
	token      string
	httpClient *http.Client
}

// New creates a new API client with the given base URL, e.g.
// http://127.0.0.1:8000/api
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewWithTimeout creates a client with a custom request timeout
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	c := New(baseURL)
	c.httpClient.Timeout = timeout
	return c
}

// SetToken sets the bearer token used for authenticated requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently held bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the configured API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a JSON request; body may be nil. The bearer header is
// attached whenever a token is held.
func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do executes the request and returns the response body and status code.
// Transport failures are mapped to user-friendly messages.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, c.handleRequestError(req.Context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("invalid response from backend: %w", err)
	}

	return body, resp.StatusCode, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// is2xx reports whether the status code indicates success
func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// requireToken short-circuits authenticated operations when no token is
// held. Nothing touches the network after a failure here.
func (c *Client) requireToken() error {
	if c.Token() == "" {
		return ErrNoToken
	}
	return nil
}
