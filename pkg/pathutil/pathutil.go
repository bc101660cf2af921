// Package pathutil resolves user supplied file paths.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" path element with the user's home
// directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Resolve expands "~" and makes a relative path relative to dir.
// An empty path stays empty.
func Resolve(dir, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	path, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(path) || dir == "" {
		return path, nil
	}
	return filepath.Join(dir, path), nil
}

// Relative returns path relative to dir when possible, else path unchanged.
func Relative(dir, path string) string {
	if path == "" || dir == "" || !filepath.IsAbs(path) {
		return path
	}
	if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
