//go:build !darwin

package media

import (
	"os"
	"time"
)

// birthTime falls back to the modification time where the platform's stat
// does not expose a creation time.
func birthTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
