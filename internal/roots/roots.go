// SPDX-License-Identifier: MIT
package roots

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
)

// ErrNoRoots is returned when no usable directory is left after normalization.
var ErrNoRoots = errors.New("no allowed roots")

// Standard returns the user's media directories in allow-list order:
// videos, downloads, home, desktop, documents.
func Standard() []string {
	return []string{
		xdg.UserDirs.Videos,
		xdg.UserDirs.Download,
		xdg.Home,
		xdg.UserDirs.Desktop,
		xdg.UserDirs.Documents,
	}
}

// Discover computes the allowed roots once at startup from the standard
// user directories plus any configured extras.
func Discover(extra []string) ([]string, error) {
	return Normalize(append(Standard(), extra...))
}

// Normalize expands ~, makes every entry absolute and clean, and drops
// blanks and duplicates while keeping the first occurrence's position.
func Normalize(dirs []string) ([]string, error) {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))

	for _, dir := range dirs {
		if dir == "" {
			continue
		}

		expanded, err := homedir.Expand(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", dir, err)
		}

		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
		}

		if seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, abs)
	}

	if len(out) == 0 {
		return nil, ErrNoRoots
	}
	return out, nil
}
