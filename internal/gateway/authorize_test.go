package gateway

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPathAllowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path fixtures")
	}
	roots := []string{"/home/me/Videos", "/home/me/Downloads"}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"file in root", "/home/me/Videos/clip.mp4", true},
		{"nested", "/home/me/Downloads/a/b/c.mkv", true},
		{"root itself", "/home/me/Videos", true},
		{"dot segments inside", "/home/me/Videos/./x/../clip.mp4", true},
		{"traversal out", "/home/me/Videos/../../../etc/passwd", false},
		{"traversal to sibling root", "/home/me/Videos/../Downloads/x.mp4", true},
		{"outside", "/etc/passwd", false},
		{"sibling with shared prefix", "/home/me/VideosPrivate/x.mp4", false},
		{"relative", "home/me/Videos/clip.mp4", false},
		{"case differs", "/home/me/videos/clip.mp4", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPathAllowed(tt.path, roots, false))
		})
	}
}

func TestIsPathAllowedCaseInsensitive(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path fixtures")
	}
	roots := []string{"/Users/Me/Movies"}

	assert.True(t, IsPathAllowed("/users/me/movies/Clip.mov", roots, true))
	assert.True(t, IsPathAllowed("/USERS/ME/MOVIES", roots, true))
	assert.False(t, IsPathAllowed("/users/me/moviesx/clip.mov", roots, true))
	assert.False(t, IsPathAllowed("/users/me/movies/../../etc/hosts", roots, true))
}

func TestIsPathAllowedFilesystemRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path fixtures")
	}
	assert.True(t, IsPathAllowed("/anything/at/all", []string{"/"}, false))
}

func TestIsPathAllowedNeverAdmitsOutsidePaths(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path fixtures")
	}
	roots := []string{"/srv/media"}
	outside := []string{
		"/srv/media/../secret",
		"/srv/media/../../",
		"/srv/./media/../etc",
		"/srv/mediax",
		"/srv",
		"/",
	}
	for _, p := range outside {
		assert.False(t, IsPathAllowed(p, roots, false), p)
		assert.False(t, IsPathAllowed(p, roots, true), p)
	}
}

func TestNewAuthorizerValidation(t *testing.T) {
	_, err := NewAuthorizer(nil, false)
	assert.Error(t, err)

	_, err = NewAuthorizer([]string{"relative/dir"}, false)
	assert.Error(t, err)
}

func TestAuthorizerResolvesSymlinkedRoots(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "real")
	require.NoError(t, os.Mkdir(real, 0755))
	link := filepath.Join(base, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	a, err := NewAuthorizer([]string{link}, false)
	require.NoError(t, err)

	realBase, err := filepath.EvalSymlinks(real)
	require.NoError(t, err)

	assert.True(t, a.Allowed(filepath.Join(link, "clip.mp4")))
	assert.False(t, a.Allowed(filepath.Join(realBase, "clip.mp4")))
	assert.True(t, a.AllowedReal(filepath.Join(realBase, "clip.mp4")))
	assert.Equal(t, []string{link}, a.Roots())
}

func TestAuthorizerAllowedDir(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(root, "Downloads"), 0755))
	if err := os.Symlink(outside, filepath.Join(root, "escape")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	a, err := NewAuthorizer([]string{root}, false)
	require.NoError(t, err)

	assert.True(t, a.AllowedDir(root))
	assert.True(t, a.AllowedDir(filepath.Join(root, "Downloads")))
	assert.True(t, a.AllowedDir(filepath.Join(root, "Downloads", "new", "deeper")))

	assert.False(t, a.AllowedDir(outside))
	assert.False(t, a.AllowedDir(filepath.Join(root, "escape")))
	assert.False(t, a.AllowedDir(filepath.Join(root, "escape", "not-yet-created")))
	assert.False(t, a.AllowedDir(filepath.Join(root, "..")))
}
