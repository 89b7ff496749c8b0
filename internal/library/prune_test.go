package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidmin/vidmin/internal/media"
)

func recordFile(t *testing.T, s *Store, path string) {
	t.Helper()
	_, err := s.RecordOpen(&media.Metadata{Path: path, Filename: filepath.Base(path), Format: media.FormatOf(path)})
	require.NoError(t, err)
}

func TestPruneMissingFiles(t *testing.T) {
	s := setupStore(t)
	dir := t.TempDir()

	present := filepath.Join(dir, "here.mp4")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0644))
	recordFile(t, s, present)
	recordFile(t, s, filepath.Join(dir, "gone.mp4"))

	n, err := s.Prune(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	files, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, present, files[0].Path)
}

func TestPruneKeepsNewest(t *testing.T) {
	s := setupStore(t)
	dir := t.TempDir()

	var paths []string
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		recordFile(t, s, p)
		paths = append(paths, p)
	}

	n, err := s.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	files, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, paths[2], files[0].Path)
	assert.Equal(t, paths[1], files[1].Path)
}

func TestPruneNothingToDo(t *testing.T) {
	s := setupStore(t)

	n, err := s.Prune(10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPrunerRunsImmediatelyAndStops(t *testing.T) {
	s := setupStore(t)
	recordFile(t, s, filepath.Join(t.TempDir(), "gone.mp4"))

	p := NewPruner(s, 0, time.Hour, nil)
	done := p.Start()

	require.Eventually(t, func() bool {
		files, err := s.Recent(0)
		return err == nil && len(files) == 0
	}, time.Second, 10*time.Millisecond)

	p.Stop()
	p.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop within timeout")
	}
}

func TestPrunerWithoutIntervalRunsOnce(t *testing.T) {
	s := setupStore(t)
	recordFile(t, s, filepath.Join(t.TempDir(), "gone.mp4"))

	for _, interval := range []time.Duration{0, -time.Minute} {
		p := NewPruner(s, 10, interval, nil)

		var done <-chan struct{}
		require.NotPanics(t, func() { done = p.Start() })

		require.Eventually(t, func() bool {
			files, err := s.Recent(0)
			return err == nil && len(files) == 0
		}, time.Second, 10*time.Millisecond)

		p.Stop()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("pruner with interval %v did not stop", interval)
		}
	}
}
