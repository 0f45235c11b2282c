// Package debug writes category-tagged diagnostics to a file while the editor
// owns the terminal.
package debug

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/charmbracelet/log"
)

// sink lets Enable redirect loggers handed out before it ran.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *sink) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

var (
	mu       sync.Mutex
	file     *os.File
	enabled  bool
	out      = &sink{w: io.Discard}
	root     = newLogger(log.DebugLevel)
	counters = make(map[string]int)
)

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           level,
	})
}

// DefaultPath is ~/.config/go-pianoroll/debug.log.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "go-pianoroll", "debug.log")
}

// Enable starts logging to path (DefaultPath when empty) at the named level.
func Enable(path, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	if path == "" {
		path = DefaultPath()
	}
	lvl := log.DebugLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fault.Wrap(err, ftag.With(ftag.InvalidArgument), fmsg.WithDesc("parse log level", "Unknown log level "+level))
		}
		lvl = parsed
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, fmsg.With("create log dir"))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fault.Wrap(err, fmsg.WithDesc("open debug log", "Could not open debug log "+path))
	}

	file = f
	enabled = true
	out.set(f)
	root = newLogger(lvl)
	root.Info("debug logging started", "at", time.Now().Format(time.RFC3339))
	return nil
}

// Disable stops logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	out.set(io.Discard)
	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// For returns a structured logger tagged with category.
func For(category string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return root.WithPrefix(category)
}

// Log writes a formatted debug line.
func Log(category, format string, args ...any) {
	For(category).Debugf(format, args...)
}

// LogEvery logs only every n calls (use for high-frequency events).
// An n below 1 logs every call.
func LogEvery(n int, category, format string, args ...any) {
	if n < 1 {
		n = 1
	}
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
