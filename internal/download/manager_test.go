package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidmin/vidmin/internal/db"
	"github.com/vidmin/vidmin/internal/gateway"
	"github.com/vidmin/vidmin/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeDownloader runs this test binary as the yt-dlp child process.
func fakeDownloader(output string, exitCode int) commandFunc {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_OUTPUT="+output,
			"HELPER_EXIT="+strconv.Itoa(exitCode),
		)
		return cmd
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	output := os.Getenv("HELPER_OUTPUT")
	if output == "hang" {
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	fmt.Fprint(os.Stdout, output)
	code, _ := strconv.Atoi(os.Getenv("HELPER_EXIT"))
	os.Exit(code)
}

func newTestManager(t *testing.T, output string, exitCode int, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithDefaultDir(t.TempDir())}, opts...)
	m := NewManager("yt-dlp", opts...)
	m.command = fakeDownloader(output, exitCode)
	return m
}

func TestStartCompletes(t *testing.T) {
	output := strings.Join([]string{
		"[youtube] abc: Downloading webpage",
		"[download] Destination: /videos/Clip.mp4",
		"[download]  45.3% of 10.00MiB at 1.50MiB/s ETA 00:05",
		"[download] 100.0% of 10.00MiB at 2.00MiB/s ETA 00:00",
		"",
	}, "\n")

	var mu sync.Mutex
	var updates []models.Download
	m := newTestManager(t, output, 0, WithOnUpdate(func(d models.Download) {
		mu.Lock()
		updates = append(updates, d)
		mu.Unlock()
	}))

	id, err := m.Start(Options{URL: "https://www.youtube.com/watch?v=abc"})
	require.NoError(t, err)
	m.Wait()

	d, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, models.DownloadCompleted, d.Status)
	assert.Equal(t, float64(100), d.Progress)
	assert.Equal(t, "/videos/Clip.mp4", d.Filename)
	assert.Equal(t, "youtube", d.Source)
	assert.Empty(t, d.Error)
	assert.Empty(t, m.Active())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, updates)
	assert.Equal(t, models.DownloadCompleted, updates[len(updates)-1].Status)

	sawProgress := false
	for _, u := range updates {
		if u.Status == models.DownloadDownloading && u.Progress == 45.3 {
			sawProgress = true
		}
	}
	assert.True(t, sawProgress, "expected an intermediate progress update")
}

func TestStartFails(t *testing.T) {
	m := newTestManager(t, "ERROR: Unsupported URL\n", 1)

	id, err := m.Start(Options{URL: "https://example.com/page"})
	require.NoError(t, err)
	m.Wait()

	d, _ := m.Get(id)
	assert.Equal(t, models.DownloadError, d.Status)
	assert.Contains(t, d.Error, "download failed")
}

func TestStartRejectsInvalidURL(t *testing.T) {
	m := newTestManager(t, "", 0)

	_, err := m.Start(Options{URL: "file:///etc/passwd"})
	assert.True(t, errors.Is(err, ErrInvalidURL))
	assert.Empty(t, m.All())
}

func TestStartRejectsDirectoryOutsideRoots(t *testing.T) {
	root := t.TempDir()
	auth, err := gateway.NewAuthorizer([]string{root}, false)
	require.NoError(t, err)

	m := newTestManager(t, "", 0, WithAuthorizer(auth.AllowedDir))

	_, err = m.Start(Options{URL: "https://example.com/a.mp4", OutputDir: t.TempDir()})
	assert.True(t, errors.Is(err, ErrOutsideRoots))

	_, err = m.Start(Options{URL: "https://example.com/a.mp4", OutputDir: filepath.Join(root, "sub")})
	require.NoError(t, err)
	m.Wait()
}

func TestStartRejectsSymlinkOutOfRoots(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "Downloads")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	auth, err := gateway.NewAuthorizer([]string{root}, false)
	require.NoError(t, err)
	m := newTestManager(t, "", 0, WithAuthorizer(auth.AllowedDir))

	_, err = m.Start(Options{URL: "https://example.com/a.mp4", OutputDir: link})
	assert.True(t, errors.Is(err, ErrOutsideRoots))

	_, err = m.Start(Options{URL: "https://example.com/a.mp4", OutputDir: filepath.Join(link, "later")})
	assert.True(t, errors.Is(err, ErrOutsideRoots))
	assert.Empty(t, m.All())
}

func TestCancel(t *testing.T) {
	m := newTestManager(t, "hang", 0)

	id, err := m.Start(Options{URL: "https://example.com/a.mp4"})
	require.NoError(t, err)
	assert.Len(t, m.Active(), 1)

	require.NoError(t, m.Cancel(id))
	m.Wait()

	d, _ := m.Get(id)
	assert.Equal(t, models.DownloadCanceled, d.Status)

	// Cancelling a finished download is a no-op
	assert.NoError(t, m.Cancel(id))
}

func TestCancelUnknown(t *testing.T) {
	m := newTestManager(t, "", 0)
	assert.True(t, errors.Is(m.Cancel("nope"), ErrUnknownDownload))
}

func TestShutdownCancelsRunning(t *testing.T) {
	m := newTestManager(t, "hang", 0)

	first, err := m.Start(Options{URL: "https://example.com/a.mp4"})
	require.NoError(t, err)
	second, err := m.Start(Options{URL: "https://example.com/b.mp4"})
	require.NoError(t, err)

	m.Shutdown()

	for _, id := range []string{first, second} {
		d, _ := m.Get(id)
		assert.Equal(t, models.DownloadCanceled, d.Status)
	}
}

func TestAllOrderedByCreation(t *testing.T) {
	m := newTestManager(t, "", 0)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first, err := m.Start(Options{URL: "https://example.com/a.mp4"})
	require.NoError(t, err)
	m.Wait()
	second, err := m.Start(Options{URL: "https://example.com/b.mp4"})
	require.NoError(t, err)
	m.Wait()

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0].ID)
	assert.Equal(t, second, all[1].ID)
}

func TestDownloadArgs(t *testing.T) {
	args := downloadArgs(Options{
		URL:                "https://example.com/a",
		Format:             "137",
		CookiesFromBrowser: "firefox",
	}, "/out/%(title)s.%(ext)s")

	assert.Equal(t, "https://example.com/a", args[0])
	assert.Contains(t, args, "137/bestvideo*+bestaudio/best")
	assert.Contains(t, args, "--newline")
	assert.Contains(t, args, "--no-playlist")
	assert.Contains(t, args, "firefox")

	plain := downloadArgs(Options{URL: "https://example.com/a", CookiesFromBrowser: "none"}, "/out/x")
	assert.Contains(t, plain, "bestvideo*+bestaudio/best")
	assert.NotContains(t, plain, "--cookies-from-browser")
}

func TestPersistAndRestore(t *testing.T) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	sqlDB, err := database.DB()
	require.NoError(t, err)
	// every pooled connection would get its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	m := newTestManager(t, "[download]  10.0% at 1.00MiB/s ETA 00:10\n", 0, WithDB(database))
	done, err := m.Start(Options{URL: "https://example.com/a.mp4"})
	require.NoError(t, err)
	m.Wait()

	stale := models.Download{
		ID:        "stale",
		URL:       "https://example.com/b.mp4",
		Status:    models.DownloadDownloading,
		CreatedAt: time.Now(),
	}
	require.NoError(t, database.Create(&stale).Error)

	restored := NewManager("yt-dlp", WithDB(database))
	require.NoError(t, restored.Restore())

	d, ok := restored.Get(done)
	require.True(t, ok)
	assert.Equal(t, models.DownloadCompleted, d.Status)

	s, ok := restored.Get("stale")
	require.True(t, ok)
	assert.Equal(t, models.DownloadError, s.Status)
	assert.Equal(t, "interrupted", s.Error)
	assert.Empty(t, restored.Active())
}

func TestFetchFormats(t *testing.T) {
	m := newTestManager(t, `{"formats":[{"format_id":"18","ext":"mp4","resolution":"640x360","vcodec":"avc1","acodec":"mp4a"}]}`, 0)

	formats, err := m.FetchFormats(context.Background(), "https://example.com/watch", "")
	require.NoError(t, err)
	require.Len(t, formats, 1)
	assert.Equal(t, "18", formats[0].FormatID)

	_, err = m.FetchFormats(context.Background(), "nope", "")
	assert.True(t, errors.Is(err, ErrInvalidURL))
}
