// SPDX-License-Identifier: MIT
package media

import (
	"net/url"
	"path/filepath"
	"strings"
)

// FileURL builds the playback URL for a local file.
//
// The single-slash form (vidmin:/path) keeps the first path segment from being
// parsed as a host and lowercased. Segments are percent-encoded so names with
// spaces, '#' or '?' survive the round trip through the gateway decoder.
func FileURL(scheme, path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return scheme + ":" + strings.Join(segments, "/")
}
