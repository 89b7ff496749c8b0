package download

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

var lookPath = exec.LookPath

// minBinarySize guards against truncated or placeholder yt-dlp files.
const minBinarySize = 1024 * 1024

// BinaryStatus reports whether the downloader is usable
type BinaryStatus struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// ResolveBinary finds the downloader either as a path or on $PATH.
func ResolveBinary(binary string) (string, error) {
	if filepath.IsAbs(binary) || filepath.Base(binary) != binary {
		return binary, nil
	}
	return lookPath(binary)
}

// CheckBinary verifies the downloader exists, is a regular file of
// plausible size and, on unix, is executable.
func CheckBinary(binary string) BinaryStatus {
	path, err := ResolveBinary(binary)
	if err != nil {
		return BinaryStatus{Error: fmt.Sprintf("%s not found: %v", binary, err)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return BinaryStatus{Path: path, Error: fmt.Sprintf("binary not found at %s", path)}
	}
	if !info.Mode().IsRegular() || info.Size() < minBinarySize {
		return BinaryStatus{Path: path, Error: fmt.Sprintf("binary invalid: regular=%v size=%d", info.Mode().IsRegular(), info.Size())}
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0111 == 0 {
		return BinaryStatus{Path: path, Error: "binary not executable"}
	}

	return BinaryStatus{Found: true, Path: path}
}
