// SPDX-License-Identifier: MIT
package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMimeType is served for extensions missing from the table.
const DefaultMimeType = "video/mp4"

var mimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".m4v":  "video/mp4",
	".flv":  "video/x-flv",
	".wmv":  "video/x-ms-wmv",
	".ts":   "video/mp2t",
	".m2ts": "video/mp2t",
	".mts":  "video/mp2t",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".vob":  "video/mpeg",
}

// MimeType returns the content type for a file based only on its extension.
func MimeType(path string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return DefaultMimeType
}

// IsVideoFile checks if the file has one of the playable video extensions
func IsVideoFile(path string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// VideoExtensions lists the playable extensions without the leading dot.
func VideoExtensions() []string {
	exts := make([]string, 0, len(mimeTypes))
	for ext := range mimeTypes {
		exts = append(exts, ext[1:])
	}
	sort.Strings(exts)
	return exts
}
