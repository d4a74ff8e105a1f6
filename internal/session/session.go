// Package session persists the local user identity and UI preferences.
// The session marker is stored in ~/.config/nomadex/session.toml.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Session identifies the authoring user and remembers UI preferences.
type Session struct {
	UserID int64  `toml:"user_id"`
	Theme  string `toml:"theme"`
}

const (
	defaultSessionPath = "~/.config/nomadex/session.toml"
	defaultUserID      = 1
	defaultTheme       = "Nightfox"
)

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Load reads the session from the given path, falling back to defaults if
// missing or unreadable. A corrupt session must never block startup.
func Load(path string) (Session, error) {
	fallback := Session{UserID: defaultUserID, Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return fallback, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback, nil
		}
		return fallback, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fallback, nil // Graceful degradation
	}

	sess := fallback
	if err := toml.Unmarshal(bytes, &sess); err != nil {
		return fallback, nil // Graceful degradation
	}

	if sess.UserID <= 0 {
		sess.UserID = defaultUserID
	}
	if strings.TrimSpace(sess.Theme) == "" {
		sess.Theme = defaultTheme
	}

	return sess, nil
}

// Save writes the session to the given path, creating directories as needed.
func Save(path string, s Session) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	bytes, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
