package gateway

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ResolveFile confirms path exists, resolves it to its real path (following
// symlinks and fixing case on case-insensitive systems) and checks that the
// result is a regular file.
func ResolveFile(path string) (string, os.FileInfo, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	// Existence is already confirmed, so a failed resolution keeps the
	// original spelling instead of aborting.
	resolved := path
	if real, err := filepath.EvalSymlinks(path); err == nil {
		resolved = real
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s", ErrNotFound, resolved)
		}
		return "", nil, fmt.Errorf("failed to stat %s: %w", resolved, err)
	}
	if !info.Mode().IsRegular() {
		return "", nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, resolved)
	}

	return resolved, info, nil
}
