// SPDX-License-Identifier: MIT
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Metadata describes a local video file as shown to the player
type Metadata struct {
	Filename     string    `json:"filename"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	Format       string    `json:"format"`
	MimeType     string    `json:"mime_type"`
	DetectedType string    `json:"detected_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// Probe stats a file and collects its metadata.
// DetectedType comes from the file's magic bytes and may differ from MimeType,
// which is derived from the extension the same way the gateway does it.
func Probe(path string) (*Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	meta := &Metadata{
		Filename:   filepath.Base(path),
		Path:       path,
		Size:       info.Size(),
		Format:     FormatOf(path),
		MimeType:   MimeType(path),
		CreatedAt:  birthTime(info),
		ModifiedAt: info.ModTime(),
	}

	// Sniffing is best effort, an unreadable header should not fail the probe
	if detected, err := mimetype.DetectFile(path); err == nil {
		meta.DetectedType = detected.String()
	}

	return meta, nil
}

// FormatOf returns the lowercased extension without the dot.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
