// ABOUTME: Tests for environment-driven configuration
// ABOUTME: Covers defaults, overrides, and validation limits

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTDECK_API_URL", "")
	t.Setenv("POSTDECK_TIMEOUT", "")
	t.Setenv("POSTDECK_PROFILE_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:8000/api" {
		t.Errorf("unexpected default API URL: %s", cfg.APIURL)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.RequestTimeout)
	}
	if cfg.ProfileTTL != 60 {
		t.Errorf("expected default profile TTL 60, got %d", cfg.ProfileTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTDECK_API_URL", "https://posts.example.com/api")
	t.Setenv("POSTDECK_TIMEOUT", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "https://posts.example.com/api" {
		t.Errorf("unexpected API URL: %s", cfg.APIURL)
	}
	if cfg.RequestTimeout != 5 {
		t.Errorf("expected timeout 5, got %d", cfg.RequestTimeout)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("POSTDECK_TIMEOUT", "0")

	if _, err := Load(); err == nil {
		t.Error("expected error for out-of-range timeout")
	}
}

func TestEnsureScheme(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"localhost:8000/api", "http://localhost:8000/api"},
		{"https://api.example.com", "https://api.example.com"},
		{"http://127.0.0.1:8000/api/", "http://127.0.0.1:8000/api"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := ensureScheme(tc.in); got != tc.expected {
			t.Errorf("ensureScheme(%q) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}
