package logutil

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	current *log.Logger
)

// New builds the diagnostics logger used by every command.
func New(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "vram",
	})
	l.SetLevel(level)
	return l
}

// ParseLevel maps a level name to a log level, falling back to info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Default returns the process-wide logger, creating a stderr logger on
// first use.
func Default() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = New(os.Stderr, ParseLevel(os.Getenv("VRAM_LOG_LEVEL")))
	}
	return current
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *log.Logger) {
	mu.Lock()
	current = l
	mu.Unlock()
}
