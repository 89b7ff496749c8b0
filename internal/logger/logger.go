package logger

import (
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu   sync.RWMutex
	root hclog.Logger = hclog.NewNullLogger()
)

// Options controls how the root logger is built.
type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// Init builds the process-wide root logger.
func Init(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	l := hclog.New(&hclog.LoggerOptions{
		Name:       "vidmin",
		Level:      hclog.LevelFromString(opts.Level),
		JSONFormat: opts.JSON,
		Output:     out,
	})

	mu.Lock()
	root = l
	mu.Unlock()
	return l
}

// Root returns the process-wide logger.
func Root() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a sub-logger of the root logger.
func Named(name string) hclog.Logger {
	return Root().Named(name)
}
