// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: github-token.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// GitHubToken is the key of the token sent when fetching a remote catalog.
const GitHubToken = "github-token"

// Secrets maps key names to values.
type Secrets map[string]string

// Lookup returns override when it is non-empty, otherwise the stored value
// for key, otherwise "".
func (s Secrets) Lookup(key, override string) string {
	if override != "" {
		return override
	}
	return s[key]
}

// Load reads the secrets directory dir. A missing directory yields an
// empty set. Files that cannot be read are reported on stderr and skipped.
func Load(dir string) (Secrets, error) {
	s, err := loadFS(os.DirFS(dir), os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	return s, nil
}

// loadFS collects every key file at the root of fsys.
func loadFS(fsys fs.FS, warn io.Writer) (Secrets, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return Secrets{}, nil
	}
	if err != nil {
		return nil, err
	}

	s := Secrets{}
	for _, e := range entries {
		if !isKeyFile(e) {
			continue
		}
		value, err := readKey(fsys, e.Name())
		if err != nil {
			fmt.Fprintf(warn, "warning: skipping secret %s: %v\n", e.Name(), err)
			continue
		}
		if value != "" {
			s[e.Name()] = value
		}
	}
	return s, nil
}

// isKeyFile excludes directories and dotfiles such as .gitkeep.
// Symlinked keys count.
func isKeyFile(e fs.DirEntry) bool {
	return !e.IsDir() && !strings.HasPrefix(e.Name(), ".")
}

func readKey(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
