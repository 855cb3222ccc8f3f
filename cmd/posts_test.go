// ABOUTME: Tests for the post CRUD commands
// ABOUTME: Verifies output, exit codes, and session expiry handling

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mlowther/postdeck/internal/api"
	"github.com/mlowther/postdeck/internal/session"
)

func seedToken(t *testing.T, token string) {
	t.Helper()
	if err := session.NewStore(configDir).Save(token); err != nil {
		t.Fatalf("seed token: %v", err)
	}
}

func TestRunPostsList_NewestFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer list-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		json.NewEncoder(w).Encode([]api.Post{
			{ID: 1, Title: "older", CreatedAt: "2026-08-01T10:00:00Z"},
			{ID: 2, Title: "newer", CreatedAt: "2026-08-20T10:00:00Z"},
		})
	}))
	defer server.Close()

	useTestEnv(t, server.URL)
	seedToken(t, "list-token")

	var buf bytes.Buffer
	exitCode := runPostsList(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}

	out := buf.String()
	if strings.Index(out, "newer") > strings.Index(out, "older") {
		t.Errorf("expected newest post printed first:\n%s", out)
	}
}

func TestRunPostsList_NotSignedIn(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	useTestEnv(t, server.URL)

	var buf bytes.Buffer
	exitCode := runPostsList(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if calls != 0 {
		t.Errorf("expected no backend calls without a token, got %d", calls)
	}
}

func TestRunPostsList_ExpiredSessionClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	useTestEnv(t, server.URL)
	seedToken(t, "stale-token")

	var buf bytes.Buffer
	exitCode := runPostsList(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if token := session.NewStore(configDir).Load(); token != "" {
		t.Errorf("expected stale token cleared, got %q", token)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Session expired")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRunPostsCreate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/posts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.Post{ID: 5, Title: "fresh"})
	}))
	defer server.Close()

	useTestEnv(t, server.URL)
	seedToken(t, "create-token")

	var buf bytes.Buffer
	exitCode := runPostsCreate(context.Background(), &buf, "fresh", "a brand new post")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Created post #5")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRunPostsCreate_RejectsBlankTitleLocally(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	useTestEnv(t, server.URL)
	seedToken(t, "create-token")

	var buf bytes.Buffer
	exitCode := runPostsCreate(context.Background(), &buf, "   ", "body")

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if calls != 0 {
		t.Errorf("expected validation to fail before any request, got %d calls", calls)
	}
	if !bytes.Contains(buf.Bytes(), []byte("title")) {
		t.Errorf("expected field name in error, got %s", buf.String())
	}
}

func TestRunPostsUpdate_TargetsIDPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/posts/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.Post{ID: 42, Title: "renamed"})
	}))
	defer server.Close()

	useTestEnv(t, server.URL)
	seedToken(t, "update-token")

	var buf bytes.Buffer
	exitCode := runPostsUpdate(context.Background(), &buf, "42", "renamed", "still here")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Updated post #42")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRunPostsUpdate_InvalidID(t *testing.T) {
	useTestEnv(t, "http://localhost:1")

	var buf bytes.Buffer
	exitCode := runPostsUpdate(context.Background(), &buf, "not-a-number", "t", "d")

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

func TestRunPostsDelete_Force(t *testing.T) {
	deletes := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/posts/7" {
			deletes++
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	useTestEnv(t, server.URL)
	seedToken(t, "delete-token")

	var buf bytes.Buffer
	exitCode := runPostsDelete(context.Background(), &buf, "7", true)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if deletes != 1 {
		t.Errorf("expected exactly one DELETE, got %d", deletes)
	}
}

func TestRunPostsDelete_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "not your post"})
	}))
	defer server.Close()

	useTestEnv(t, server.URL)
	seedToken(t, "delete-token")

	var buf bytes.Buffer
	exitCode := runPostsDelete(context.Background(), &buf, "7", true)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("not your post")) {
		t.Errorf("expected backend message, got %s", buf.String())
	}
}

func TestRunPostsList_JSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Post{{ID: 1, Title: "only", CreatedAt: "2026-08-01T10:00:00Z"}})
	}))
	defer server.Close()

	useTestEnv(t, server.URL)
	seedToken(t, "json-token")
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	if exitCode := runPostsList(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}

	var parsed []api.Post
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(parsed) != 1 || parsed[0].Title != "only" {
		t.Errorf("unexpected JSON payload: %s", buf.String())
	}
}
