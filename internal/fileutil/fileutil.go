// Package fileutil provides small filesystem helpers shared by the
// generation pipeline and the CLI.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Exists reports whether path refers to an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// WriteText writes text to path as UTF-8, creating parent directories as
// needed and overwriting any existing file.
func WriteText(path, text string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
