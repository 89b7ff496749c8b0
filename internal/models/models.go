package models

import (
	"time"
)

// MediaFile is a local video the user has opened
type MediaFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Path         string    `gorm:"size:768;uniqueIndex;not null" json:"path"`
	Filename     string    `gorm:"not null" json:"filename"`
	Format       string    `json:"format"` // Extension without the dot
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	OpenCount    int       `gorm:"default:0" json:"open_count"`
	LastOpenedAt time.Time `gorm:"index" json:"last_opened_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Download statuses
const (
	DownloadPending     = "pending"
	DownloadDownloading = "downloading"
	DownloadCompleted   = "completed"
	DownloadError       = "error"
	DownloadCanceled    = "canceled"
)

// Download tracks one run of the external downloader
type Download struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	URL        string    `gorm:"not null" json:"url"`
	Source     string    `json:"source"` // "youtube", "direct" or "other"
	OutputPath string    `json:"output_path"`
	Format     string    `json:"format,omitempty"`
	Status     string    `gorm:"index;not null;default:pending" json:"status"`
	Progress   float64   `json:"progress"`
	Speed      float64   `json:"speed"` // Bytes per second
	ETA        int       `json:"eta"`   // Seconds
	Filename   string    `json:"filename,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Finished reports whether the download has reached a terminal status.
func (d *Download) Finished() bool {
	return d.Status == DownloadCompleted || d.Status == DownloadError || d.Status == DownloadCanceled
}

// TableName overrides
func (MediaFile) TableName() string {
	return "media_files"
}

func (Download) TableName() string {
	return "downloads"
}
