// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/bookdesk/internal/core/book"
)

// Credentials is what bookctl remembers between runs.
type Credentials struct {
	Gateway   string    `yaml:"gateway"`
	Username  string    `yaml:"username"`
	Token     string    `yaml:"token"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

// Valid reports whether the stored session can still be used at now.
func (c *Credentials) Valid(now time.Time) bool {
	return c != nil && c.Token != "" && (c.ExpiresAt.IsZero() || now.Before(c.ExpiresAt))
}

// DefaultCredentialsPath is ~/.config/bookdesk/credentials.yaml, or a file in
// the working directory when the config directory is unknown.
func DefaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "bookdesk-credentials.yaml"
	}
	return filepath.Join(dir, "bookdesk", "credentials.yaml")
}

// LoadCredentials reads path. A missing file yields empty credentials.
func LoadCredentials(path string) (*Credentials, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Credentials{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cli: read credentials: %w", err)
	}

	var credentials Credentials
	if err := yaml.Unmarshal(raw, &credentials); err != nil {
		return nil, fmt.Errorf("cli: parse credentials %s: %w", path, err)
	}
	return &credentials, nil
}

// SaveCredentials writes credentials to path, readable by the owner only.
func SaveCredentials(path string, credentials *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("cli: create credentials dir: %w", err)
	}

	raw, err := yaml.Marshal(credentials)
	if err != nil {
		return fmt.Errorf("cli: encode credentials: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("cli: write credentials: %w", err)
	}
	return nil
}

// ClearCredentials removes path. A missing file is not an error.
func ClearCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cli: remove credentials: %w", err)
	}
	return nil
}

// LoadEntry reads a book creation payload from a YAML (or JSON) file.
func LoadEntry(path string) (book.Entry, error) {
	var entry book.Entry
	raw, err := os.ReadFile(path)
	if err != nil {
		return entry, fmt.Errorf("cli: read entry: %w", err)
	}
	if err := yaml.Unmarshal(raw, &entry); err != nil {
		return entry, fmt.Errorf("cli: parse entry %s: %w", path, err)
	}
	return entry, nil
}
