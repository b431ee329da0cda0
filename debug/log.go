package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	file    *os.File
	logger  = zerolog.Nop()
	mu      sync.Mutex
	enabled bool
)

// ParseLevel maps a config log level to zerolog, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Enable starts logging to path (truncated). The terminal belongs to the
// TUI, so nothing is written to stdout.
func Enable(path, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enabled = true
	logger = newLogger(f, ParseLevel(level))
	logger.Info().Str("cat", "debug").Msg("=== Debug logging started ===")
	return nil
}

// EnableWriter logs to w instead of a file (used by tests)
func EnableWriter(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
	logger = newLogger(w, ParseLevel(level))
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05.000",
		NoColor:    true,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
	logger = zerolog.Nop()
}

func current() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Log writes a debug message under a category
func Log(category, format string, args ...any) {
	l := current()
	l.Debug().Str("cat", category).Msg(fmt.Sprintf(format, args...))
}

// Info writes an info message under a category
func Info(category, format string, args ...any) {
	l := current()
	l.Info().Str("cat", category).Msg(fmt.Sprintf(format, args...))
}

// Warn writes a warning with its cause
func Warn(category string, err error, format string, args ...any) {
	l := current()
	l.Warn().Str("cat", category).Err(err).Msg(fmt.Sprintf(format, args...))
}

// Error writes an error with its cause
func Error(category string, err error, format string, args ...any) {
	l := current()
	l.Error().Str("cat", category).Err(err).Msg(fmt.Sprintf(format, args...))
}

// LogEvery logs only every N calls (use for high-frequency events).
// n below 1 logs every call.
var counters = make(map[string]int)

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
