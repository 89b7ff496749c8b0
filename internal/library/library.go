// SPDX-License-Identifier: MIT
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vidmin/vidmin/internal/media"
	"github.com/vidmin/vidmin/internal/models"
	"gorm.io/gorm"
)

// Store keeps the recently-opened history
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates a history store on top of db
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// RecordOpen inserts or refreshes the history entry for a probed file
func (s *Store) RecordOpen(meta *media.Metadata) (*models.MediaFile, error) {
	var file models.MediaFile
	err := s.db.Where("path = ?", meta.Path).First(&file).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		file = models.MediaFile{Path: meta.Path}
	case err != nil:
		return nil, fmt.Errorf("failed to look up %s: %w", meta.Path, err)
	}

	file.Filename = meta.Filename
	file.Format = meta.Format
	file.MimeType = meta.MimeType
	file.Size = meta.Size
	file.OpenCount++
	file.LastOpenedAt = s.now()

	if err := s.db.Save(&file).Error; err != nil {
		return nil, fmt.Errorf("failed to save history entry: %w", err)
	}
	return &file, nil
}

// Recent returns up to limit entries, most recently opened first
func (s *Store) Recent(limit int) ([]models.MediaFile, error) {
	var files []models.MediaFile
	q := s.db.Order("last_opened_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return files, nil
}

// Forget removes a single path from the history
func (s *Store) Forget(path string) error {
	if err := s.db.Where("path = ?", path).Delete(&models.MediaFile{}).Error; err != nil {
		return fmt.Errorf("failed to forget %s: %w", path, err)
	}
	return nil
}

// Clear empties the history
func (s *Store) Clear() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.MediaFile{}).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// ImportDirectory scans dir for video files and adds the ones not yet known.
// Returns count of imported files
func (s *Store) ImportDirectory(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !media.IsVideoFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		// Check if already known
		var existing models.MediaFile
		if err := s.db.Where("path = ?", path).First(&existing).Error; err == nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // Skip if can't get info
		}

		file := models.MediaFile{
			Path:         path,
			Filename:     entry.Name(),
			Format:       media.FormatOf(path),
			MimeType:     media.MimeType(path),
			Size:         info.Size(),
			LastOpenedAt: info.ModTime(),
		}
		if err := s.db.Create(&file).Error; err != nil {
			return count, fmt.Errorf("failed to import %s: %w", path, err)
		}
		count++
	}

	return count, nil
}
