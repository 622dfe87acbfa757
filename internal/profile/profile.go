// Package profile provides the built-in mihomo profile written out when the
// user has no configuration of their own.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed clash.yaml
var clash string

// Clash returns the default profile document. It is never parsed here.
func Clash() string {
	return clash
}

// WriteIfMissing writes the default profile to path unless a file already
// exists there. With force an existing file is replaced. It reports whether
// the file was written.
func WriteIfMissing(path string, force bool) (bool, error) {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("failed to stat profile: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(clash), 0o644); err != nil {
		return false, fmt.Errorf("failed to write profile: %w", err)
	}
	return true, nil
}
