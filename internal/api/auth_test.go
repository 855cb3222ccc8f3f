// ABOUTME: Tests for authentication calls and response shape tolerance
// ABOUTME: Uses httptest to mock the several backend response variants

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("expected path /auth/login, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	token, err := c.Login(context.Background(), "a@b.test", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("expected token tok-123, got %s", token)
	}
}

func TestLogin_TokenShapeFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "access_token",
			body:     `{"access_token":"a"}`,
			expected: "a",
		},
		{
			name:     "token",
			body:     `{"token":"b"}`,
			expected: "b",
		},
		{
			name:     "nested data.access_token",
			body:     `{"data":{"access_token":"c"}}`,
			expected: "c",
		},
		{
			name:     "access_token wins over token",
			body:     `{"access_token":"a","token":"b"}`,
			expected: "a",
		},
		{
			name:     "token wins over nested",
			body:     `{"token":"b","data":{"access_token":"c"}}`,
			expected: "b",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			c := New(server.URL)
			token, err := c.Login(context.Background(), "a@b.test", "secret")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tc.expected {
				t.Errorf("expected token %s, got %s", tc.expected, token)
			}
		})
	}
}

func TestLogin_NoTokenInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":1}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Login(context.Background(), "a@b.test", "secret")
	if err == nil {
		t.Fatal("expected error for missing token, got nil")
	}
	if err.Error() != "no token returned" {
		t.Errorf("expected 'no token returned', got %q", err.Error())
	}
}

func TestLogin_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "message field",
			status:   http.StatusUnprocessableEntity,
			body:     `{"message":"These credentials do not match our records."}`,
			expected: "These credentials do not match our records.",
		},
		{
			name:     "error field",
			status:   http.StatusBadRequest,
			body:     `{"error":"invalid request"}`,
			expected: "invalid request",
		},
		{
			name:     "field errors map",
			status:   http.StatusUnprocessableEntity,
			body:     `{"errors":{"email":["The email field is required."]}}`,
			expected: "The email field is required.",
		},
		{
			name:     "message wins over errors map",
			status:   http.StatusUnprocessableEntity,
			body:     `{"message":"top level","errors":{"email":["field level"]}}`,
			expected: "top level",
		},
		{
			name:     "no recognizable shape",
			status:   http.StatusInternalServerError,
			body:     `{"weird":true}`,
			expected: "login failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			c := New(server.URL)
			_, err := c.Login(context.Background(), "a@b.test", "bad")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, err.Error())
			}
		})
	}
}

func TestRegister_SendsConfirmation(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("expected path /auth/register, got %s", r.URL.Path)
		}
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"token":"new-tok"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	token, err := c.Register(context.Background(), "Ann", "ann@b.test", "secret", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "new-tok" {
		t.Errorf("expected token new-tok, got %s", token)
	}
	for _, field := range []string{"name", "email", "password", "password_confirmation"} {
		if !containsJSONKey(gotBody, field) {
			t.Errorf("expected request body to contain %q, got %s", field, gotBody)
		}
	}
}

func TestMe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"id":7,"name":"Ann","email":"ann@b.test"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("tok")
	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 7 || user.Name != "Ann" || user.Email != "ann@b.test" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestMe_DataEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":3,"name":"Bo","email":"bo@b.test"}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("tok")
	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 3 || user.Name != "Bo" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestMe_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("dead")
	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
}

func TestMe_NoToken(t *testing.T) {
	c := New("http://localhost:99999")
	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestLogout_IgnoresServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("tok")
	// Must not panic or block; the result is intentionally discarded
	c.Logout(context.Background())
}

func TestLogout_NoTokenNoCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := New(server.URL)
	c.Logout(context.Background())
	if calls != 0 {
		t.Errorf("expected zero requests without a token, got %d", calls)
	}
}

// containsJSONKey is a loose check that a marshaled body carries a key
func containsJSONKey(body, key string) bool {
	return strings.Contains(body, `"`+key+`"`)
}
