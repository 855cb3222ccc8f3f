// ABOUTME: Authentication calls against the backend auth endpoints
// ABOUTME: Tolerates the several token and error response shapes the backend emits

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// User is the profile returned by the me endpoint
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// tokenPaths is the precedence order for locating a token in an auth
// response. The backend has shipped all three shapes at one point or
// another, so all are tolerated.
var tokenPaths = []string{"access_token", "token", "data.access_token"}

// extractToken pulls the bearer token out of an auth response body.
// Absence of every known shape is a hard error.
func extractToken(body []byte) (string, error) {
	for _, path := range tokenPaths {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.Str != "" {
			return v.Str, nil
		}
	}
	return "", errors.New("no token returned")
}

// extractErrorMessage finds the most specific user-facing message in an
// error response: message, then error, then the first field entry of an
// errors map. Falls back to the supplied generic message.
func extractErrorMessage(body []byte, fallback string) string {
	if v := gjson.GetBytes(body, "message"); v.Type == gjson.String && v.Str != "" {
		return v.Str
	}
	if v := gjson.GetBytes(body, "error"); v.Type == gjson.String && v.Str != "" {
		return v.Str
	}
	if v := gjson.GetBytes(body, "errors"); v.IsObject() {
		msg := ""
		v.ForEach(func(_, value gjson.Result) bool {
			switch {
			case value.IsArray():
				arr := value.Array()
				if len(arr) > 0 && arr[0].Str != "" {
					msg = arr[0].Str
					return false
				}
			case value.Type == gjson.String && value.Str != "":
				msg = value.Str
				return false
			}
			return true
		})
		if msg != "" {
			return msg
		}
	}
	return fallback
}

// Register creates an account and returns the issued bearer token
func (c *Client) Register(ctx context.Context, name, email, password, confirmation string) (string, error) {
	payload := map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/register", payload)
	if err != nil {
		return "", err
	}

	body, status, err := c.do(req)
	if err != nil {
		return "", err
	}
	if !is2xx(status) {
		return "", errors.New(extractErrorMessage(body, "registration failed"))
	}

	return extractToken(body)
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return "", err
	}

	body, status, err := c.do(req)
	if err != nil {
		return "", err
	}
	if !is2xx(status) {
		return "", errors.New(extractErrorMessage(body, "login failed"))
	}

	return extractToken(body)
}

// Me fetches the profile for the held token. Any failure means the token
// did not resolve; callers clear their session on error.
func (c *Client) Me(ctx context.Context) (*User, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", nil)
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
		return nil, fmt.Errorf("backend returned status %d", status)
	}

	// Some deployments wrap the profile in a data envelope
	profile := body
	if v := gjson.GetBytes(body, "data"); v.IsObject() {
		profile = []byte(v.Raw)
	}

	var user User
	if id := gjson.GetBytes(profile, "id"); id.Exists() {
		user.ID = int(id.Int())
	}
	user.Name = gjson.GetBytes(profile, "name").Str
	user.Email = gjson.GetBytes(profile, "email").Str

	return &user, nil
}

// Logout notifies the backend, best effort. The response, and any failure
// to reach the server, is ignored; callers clear local state regardless.
func (c *Client) Logout(ctx context.Context) {
	if c.Token() == "" {
		return
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
