// ABOUTME: Posts CRUD calls against the backend posts endpoints
// ABOUTME: Validates input locally before any request leaves the client

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Post is a server-owned post record. Timestamps stay raw strings; the
// backend's format has drifted before and display code copes with that.
type Post struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// validatePostInput enforces trimmed non-empty title and description.
// Runs before any network call.
func validatePostInput(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	return nil
}

// ListPosts fetches all posts. A 401 is reported as ErrSessionExpired so
// callers can drop the dead token.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/posts", nil)
	if err != nil {
		return nil, err
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrSessionExpired
	}
	if !is2xx(status) {
		return nil, fmt.Errorf("failed to fetch posts: backend returned status %d", status)
	}

	// Accept both a bare array and a data envelope
	payload := body
	if v := gjson.GetBytes(body, "data"); v.IsArray() {
		payload = []byte(v.Raw)
	}

	var posts []Post
	if err := json.Unmarshal(payload, &posts); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}

	return posts, nil
}

// CreatePost creates a post from the given title and description
func (c *Client) CreatePost(ctx context.Context, title, description string) (*Post, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if err := validatePostInput(title, description); err != nil {
		return nil, err
	}

	payload := map[string]string{
		"title":       strings.TrimSpace(title),
		"description": strings.TrimSpace(description),
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/posts", payload)
	if err != nil {
		return nil, err
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrSessionExpired
	}
	if !is2xx(status) {
		return nil, errors.New(extractErrorMessage(body, "failed to create post"))
	}

	return decodePost(body)
}

// UpdatePost updates the post with the given id
func (c *Client) UpdatePost(ctx context.Context, id int, title, description string) (*Post, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if err := validatePostInput(title, description); err != nil {
		return nil, err
	}

	payload := map[string]string{
		"title":       strings.TrimSpace(title),
		"description": strings.TrimSpace(description),
	}

	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), payload)
	if err != nil {
		return nil, err
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrSessionExpired
	}
	if !is2xx(status) {
		return nil, errors.New(extractErrorMessage(body, "failed to update post"))
	}

	return decodePost(body)
}

// DeletePost deletes the post with the given id. Confirmation is the
// caller's responsibility; this always issues the request.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil)
	if err != nil {
		return err
	}

	body, status, err := c.do(req)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if !is2xx(status) {
		return errors.New(extractErrorMessage(body, "failed to delete post"))
	}

	return nil
}

// decodePost unmarshals a single post, unwrapping a data envelope if present
func decodePost(body []byte) (*Post, error) {
	payload := body
	if v := gjson.GetBytes(body, "data"); v.IsObject() {
		payload = []byte(v.Raw)
	}

	var post Post
	if err := json.Unmarshal(payload, &post); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &post, nil
}
