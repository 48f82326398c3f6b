// Package session manages the opaque user identifier that scopes the cart
// and the orders the dashboard drives.
package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// New generates a fresh opaque user ID.
func New() string {
	return "user-" + uuid.NewString()[:8]
}

// LoadOrCreate returns the user ID persisted at path, generating and saving
// a new one when no usable file exists. An empty path skips persistence and
// yields a fresh ID for this run only.
func LoadOrCreate(path string) (string, error) {
	if path == "" {
		return New(), nil
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(raw)); id != "" {
			return id, nil
		}
		// Empty file: fall through and regenerate.
	case !os.IsNotExist(err):
		return "", errors.Wrap(err, "read session file")
	}

	id := New()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(err, "create session dir")
		}
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", errors.Wrap(err, "write session file")
	}
	return id, nil
}
