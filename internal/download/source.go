package download

import (
	"net/url"
	"regexp"
	"strings"
)

var directVideoRe = regexp.MustCompile(`(?i)\.(mp4|webm|mkv|avi|mov)$`)

// ValidateURL accepts only absolute http and https URLs
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// DetectSource classifies a URL as "youtube", "direct" or "other"
func DetectSource(raw string) string {
	if strings.Contains(raw, "youtube.com") || strings.Contains(raw, "youtu.be") {
		return "youtube"
	}
	if directVideoRe.MatchString(raw) {
		return "direct"
	}
	return "other"
}
