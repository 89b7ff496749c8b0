// SPDX-License-Identifier: MIT
package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/vidmin/vidmin/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrInvalidURL is returned for anything but an http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrOutsideRoots is returned when the output directory could not be
	// served back by the gateway afterwards.
	ErrOutsideRoots = errors.New("output directory is outside the allowed roots")
	// ErrUnknownDownload is returned for an id the manager never issued.
	ErrUnknownDownload = errors.New("unknown download")
)

// extractorArgs mirrors what the player has always passed to yt-dlp.
const extractorArgs = "generic:impersonate;youtube:player_client=web"

// Options describes one download request
type Options struct {
	URL                string `json:"url" binding:"required"`
	OutputDir          string `json:"output_dir"`
	Format             string `json:"format"`
	CookiesFromBrowser string `json:"cookies_from_browser"`
}

// commandFunc builds the child process; tests swap it for a helper process.
type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Manager runs yt-dlp downloads and tracks their progress
type Manager struct {
	binary     string
	defaultDir string
	authorize  func(path string) bool
	db         *gorm.DB
	log        hclog.Logger
	onUpdate   func(models.Download)
	command    commandFunc
	now        func() time.Time

	mu        sync.RWMutex
	downloads map[string]*models.Download
	cancels   map[string]context.CancelFunc
	wg        sync.WaitGroup
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(l hclog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithDB persists download records
func WithDB(db *gorm.DB) Option {
	return func(m *Manager) { m.db = db }
}

// WithAuthorizer restricts output directories. The gateway authorizer's
// AllowedDir is passed here so that finished downloads are always playable,
// including when the directory is reached through a symlink.
func WithAuthorizer(allowed func(path string) bool) Option {
	return func(m *Manager) { m.authorize = allowed }
}

// WithDefaultDir is used when a request carries no output directory
func WithDefaultDir(dir string) Option {
	return func(m *Manager) { m.defaultDir = dir }
}

// WithOnUpdate is called with a snapshot after every change
func WithOnUpdate(fn func(models.Download)) Option {
	return func(m *Manager) { m.onUpdate = fn }
}

// NewManager creates a download manager for the given yt-dlp binary
func NewManager(binary string, opts ...Option) *Manager {
	m := &Manager{
		binary:    binary,
		authorize: func(string) bool { return true },
		log:       hclog.NewNullLogger(),
		command:   exec.CommandContext,
		now:       time.Now,
		downloads: make(map[string]*models.Download),
		cancels:   make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches a download in the background and returns its id
func (m *Manager) Start(opts Options) (string, error) {
	if !ValidateURL(opts.URL) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, opts.URL)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = m.defaultDir
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if !m.authorize(dir) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoots, dir)
	}

	now := m.now()
	d := &models.Download{
		ID:         uuid.NewString(),
		URL:        opts.URL,
		Source:     DetectSource(opts.URL),
		OutputPath: filepath.Join(dir, "%(title)s.%(ext)s"),
		Format:     opts.Format,
		Status:     models.DownloadPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.downloads[d.ID] = d
	m.cancels[d.ID] = cancel
	m.mu.Unlock()
	m.persist(d)

	cmd := m.command(ctx, m.binary, downloadArgs(opts, d.OutputPath)...)
	stdout, err := cmd.StdoutPipe()
	if err == nil {
		err = cmd.Start()
	}
	if err != nil {
		cancel()
		m.finish(d.ID, models.DownloadError, err.Error())
		return "", fmt.Errorf("failed to start %s: %w", m.binary, err)
	}

	m.update(d.ID, func(d *models.Download) bool {
		d.Status = models.DownloadDownloading
		return true
	})
	m.log.Info("download started", "id", d.ID, "url", d.URL, "source", d.Source)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			m.update(d.ID, func(d *models.Download) bool {
				return applyLine(d, line)
			})
		}

		waitErr := cmd.Wait()
		switch {
		case ctx.Err() != nil:
			m.finish(d.ID, models.DownloadCanceled, "")
		case waitErr != nil:
			m.finish(d.ID, models.DownloadError, fmt.Sprintf("download failed: %v", waitErr))
		default:
			m.finish(d.ID, models.DownloadCompleted, "")
		}
	}()

	return d.ID, nil
}

// downloadArgs builds the yt-dlp command line
func downloadArgs(opts Options, output string) []string {
	formatSpec := "bestvideo*+bestaudio/best"
	if opts.Format != "" {
		formatSpec = opts.Format + "/" + formatSpec
	}

	args := []string{
		opts.URL,
		"--format", formatSpec,
		"--output", output,
		"--newline",
		"--no-playlist",
		"--extractor-args", extractorArgs,
		"--no-check-certificates",
	}
	if opts.CookiesFromBrowser != "" && opts.CookiesFromBrowser != "none" {
		args = append(args, "--cookies-from-browser", opts.CookiesFromBrowser)
	}
	return args
}

// Cancel stops a running download
func (m *Manager) Cancel(id string) error {
	m.mu.RLock()
	cancel, running := m.cancels[id]
	_, known := m.downloads[id]
	m.mu.RUnlock()

	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownDownload, id)
	}
	if running {
		cancel()
	}
	return nil
}

// Get returns a snapshot of one download
func (m *Manager) Get(id string) (models.Download, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.downloads[id]
	if !ok {
		return models.Download{}, false
	}
	return *d, true
}

// All returns every download, oldest first
func (m *Manager) All() []models.Download {
	return m.list(func(*models.Download) bool { return true })
}

// Active returns pending and running downloads
func (m *Manager) Active() []models.Download {
	return m.list(func(d *models.Download) bool { return !d.Finished() })
}

func (m *Manager) list(keep func(*models.Download) bool) []models.Download {
	m.mu.RLock()
	out := make([]models.Download, 0, len(m.downloads))
	for _, d := range m.downloads {
		if keep(d) {
			out = append(out, *d)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Wait blocks until every started download has finished
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Shutdown cancels all running downloads and waits for them to exit
func (m *Manager) Shutdown() {
	m.mu.RLock()
	for _, cancel := range m.cancels {
		cancel()
	}
	m.mu.RUnlock()
	m.wg.Wait()
}

// update applies fn under the lock and publishes the result if it changed
func (m *Manager) update(id string, fn func(*models.Download) bool) {
	m.mu.Lock()
	d, ok := m.downloads[id]
	if !ok || !fn(d) {
		m.mu.Unlock()
		return
	}
	d.UpdatedAt = m.now()
	snapshot := *d
	m.mu.Unlock()

	if m.onUpdate != nil {
		m.onUpdate(snapshot)
	}
}

func (m *Manager) finish(id, status, msg string) {
	m.update(id, func(d *models.Download) bool {
		d.Status = status
		d.Error = msg
		if status == models.DownloadCompleted {
			d.Progress = 100
		}
		return true
	})

	m.mu.Lock()
	delete(m.cancels, id)
	d := m.downloads[id]
	m.mu.Unlock()

	switch status {
	case models.DownloadError:
		m.log.Error("download failed", "id", id, "error", msg)
	default:
		m.log.Info("download finished", "id", id, "status", status)
	}
	m.persist(d)
}

func (m *Manager) persist(d *models.Download) {
	if m.db == nil || d == nil {
		return
	}
	m.mu.RLock()
	snapshot := *d
	m.mu.RUnlock()

	if err := m.db.Save(&snapshot).Error; err != nil {
		m.log.Warn("failed to persist download", "id", snapshot.ID, "error", err)
	}
}

// Restore loads persisted downloads. Anything left unfinished by a previous
// run is marked as failed since its process is gone.
func (m *Manager) Restore() error {
	if m.db == nil {
		return nil
	}

	var records []models.Download
	if err := m.db.Order("created_at ASC").Find(&records).Error; err != nil {
		return fmt.Errorf("failed to load downloads: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range records {
		d := records[i]
		if !d.Finished() {
			d.Status = models.DownloadError
			d.Error = "interrupted"
			if err := m.db.Save(&d).Error; err != nil {
				return fmt.Errorf("failed to update download %s: %w", d.ID, err)
			}
		}
		m.downloads[d.ID] = &d
	}
	return nil
}
