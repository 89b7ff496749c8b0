package gateway

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// DecodeURL turns a scheme-qualified URL (vidmin:/home/me/a%20b.mp4) into the
// filesystem path it names. It does not check existence or authorization.
func DecodeURL(scheme, raw string) (string, error) {
	rest := raw
	if len(rest) >= len(scheme)+1 && strings.EqualFold(rest[:len(scheme)+1], scheme+":") {
		rest = rest[len(scheme)+1:]
	}
	rest = strings.TrimLeft(rest, "/")
	rest = "/" + rest

	decoded, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return decoded, nil
}

// nativePath converts a decoded slash path into the platform's form.
// On Windows "/C:/Users/me" becomes `C:\Users\me`.
func nativePath(p string) string {
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}
