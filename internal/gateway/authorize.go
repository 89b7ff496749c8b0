package gateway

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
)

// CaseInsensitiveFS reports whether the host's default filesystem folds case.
func CaseInsensitiveFS() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "windows"
}

// IsPathAllowed reports whether path lies inside one of roots. Both sides are
// cleaned first, so ".." segments cannot walk out of a root, and a root only
// admits itself and paths below it on a segment boundary.
func IsPathAllowed(path string, roots []string, caseInsensitive bool) bool {
	p := filepath.Clean(path)
	if !filepath.IsAbs(p) {
		return false
	}

	for _, root := range roots {
		if root == "" {
			continue
		}
		if hasPathPrefix(p, filepath.Clean(root), caseInsensitive) {
			return true
		}
	}
	return false
}

func hasPathPrefix(p, root string, caseInsensitive bool) bool {
	if caseInsensitive {
		p = strings.ToLower(p)
		root = strings.ToLower(root)
	}
	if p == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(p, root)
}

// Authorizer holds the allowed roots computed at startup.
type Authorizer struct {
	roots           []string
	resolved        []string
	caseInsensitive bool
}

// NewAuthorizer validates roots and records their symlink-resolved forms so
// that real paths under a symlinked root (macOS /var -> /private/var) match.
func NewAuthorizer(roots []string, caseInsensitive bool) (*Authorizer, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one allowed root is required")
	}

	a := &Authorizer{caseInsensitive: caseInsensitive}
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			return nil, fmt.Errorf("allowed root %q is not absolute", root)
		}
		clean := filepath.Clean(root)
		a.roots = append(a.roots, clean)
		a.resolved = append(a.resolved, clean)

		if real, err := filepath.EvalSymlinks(clean); err == nil && real != clean {
			a.resolved = append(a.resolved, real)
		}
	}
	return a, nil
}

// Allowed checks a requested path before any filesystem access.
func (a *Authorizer) Allowed(path string) bool {
	return IsPathAllowed(path, a.roots, a.caseInsensitive)
}

// AllowedReal checks a symlink-resolved path.
func (a *Authorizer) AllowedReal(path string) bool {
	return IsPathAllowed(path, a.resolved, a.caseInsensitive)
}

// AllowedDir checks a directory that may not exist yet, such as a download
// target. Both the path as given and the real location of its nearest
// existing ancestor must lie inside the roots.
func (a *Authorizer) AllowedDir(path string) bool {
	if !a.Allowed(path) {
		return false
	}
	real, err := resolveExisting(filepath.Clean(path))
	if err != nil {
		return false
	}
	return a.AllowedReal(real)
}

// resolveExisting follows symlinks in the longest existing prefix of path and
// re-appends the missing tail.
func resolveExisting(path string) (string, error) {
	rest := ""
	for p := path; ; {
		real, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(real, rest), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", err
		}
		rest = filepath.Join(filepath.Base(p), rest)
		p = parent
	}
}

// Roots returns a copy of the configured roots.
func (a *Authorizer) Roots() []string {
	out := make([]string, len(a.roots))
	copy(out, a.roots)
	return out
}
