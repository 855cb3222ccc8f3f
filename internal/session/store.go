// ABOUTME: Durable bearer-token storage in the XDG config directory
// ABOUTME: One token string under a fixed key; survives restarts

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const sessionFileName = "session.json"

// Store persists the bearer token between runs
type Store struct {
	configDir string
}

type sessionData struct {
	Token string `json:"token"`
}

// NewStore creates a token store rooted at the given config directory
func NewStore(configDir string) *Store {
	return &Store{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "postdeck")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "postdeck")
}

// sessionFile returns the path to the persisted session JSON
func (s *Store) sessionFile() string {
	return filepath.Join(s.configDir, sessionFileName)
}

// Load reads the persisted token. A missing or unreadable file means
// signed out, never an error the caller has to handle.
func (s *Store) Load() string {
	data, err := os.ReadFile(s.sessionFile())
	if err != nil {
		return ""
	}

	var sess sessionData
	if err := json.Unmarshal(data, &sess); err != nil {
		return ""
	}
	return sess.Token
}

// Save persists the token to disk. The file is user-only since the token
// is a credential.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sessionData{Token: token}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.sessionFile(), data, 0600)
}

// Clear removes the persisted token. Clearing an absent session is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.sessionFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
