// Package logger writes Parley's structured logs to a file. The TUI owns
// the terminal, so nothing is ever logged to stdout or stderr.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel is the minimum severity written to the log file
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var slogLevels = map[LogLevel]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

func (l LogLevel) toSlogLevel() slog.Level {
	if lvl, ok := slogLevels[l]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// DefaultLogPath is the default log file for the TUI process
const DefaultLogPath = "/tmp/parley-debug.log"

const servePattern = "/tmp/parley-serve-%s.log"

// sink is the open log file and the logger writing to it. The zero value
// means "not opened yet".
type sink struct {
	file *os.File
	log  *slog.Logger
}

var (
	mu       sync.Mutex
	out      sink
	opened   bool // true once a file was opened, even if later closed
	level    = LevelInfo
	levelVar = new(slog.LevelVar)
)

// ServeLogPath returns the log path for a development backend listening on addr
func ServeLogPath(addr string) string {
	port := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		port = addr[i+1:]
	}
	return fmt.Sprintf(servePattern, port)
}

// SetLevel sets the minimum level. It takes effect immediately, including
// for loggers already handed out by WithComponent.
func SetLevel(l LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	levelVar.Set(l.toSlogLevel())
}

// SetDebug switches between debug and info level
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelInfo)
}

// Init opens the log file at path. Only the first successful call has an
// effect; without one, the first log call opens DefaultLogPath.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if opened {
		return nil
	}
	return openLocked(path)
}

func openLocked(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	levelVar.Set(level.toSlogLevel())
	out = sink{
		file: f,
		log:  slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar})),
	}
	opened = true
	out.log.Info("logger initialized", "path", path)
	return nil
}

// currentLocked returns the active logger, opening the default file on first
// use. It returns nil after Close or when the default file can't be opened.
func currentLocked() *slog.Logger {
	if !opened {
		if err := openLocked(DefaultLogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			opened = true
		}
	}
	return out.log
}

func logf(lvl slog.Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	l := currentLocked()
	if l == nil || !l.Enabled(context.Background(), lvl) {
		return
	}
	l.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug logs a printf-style message at debug level
func Debug(format string, args ...any) { logf(slog.LevelDebug, format, args...) }

// Info logs a printf-style message at info level
func Info(format string, args ...any) { logf(slog.LevelInfo, format, args...) }

// Warn logs a printf-style message at warn level
func Warn(format string, args ...any) { logf(slog.LevelWarn, format, args...) }

// Error logs a printf-style message at error level
func Error(format string, args ...any) { logf(slog.LevelError, format, args...) }

// Log is shorthand for Debug.
func Log(format string, args ...any) { logf(slog.LevelDebug, format, args...) }

// Close closes the log file. Later log calls are dropped.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if out.file != nil {
		out.file.Close()
	}
	out = sink{}
}

// Reset closes the file and forgets every setting so Init can run again.
// Tests use it between cases.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if out.file != nil {
		out.file.Close()
	}
	out = sink{}
	opened = false
	level = LevelInfo
	levelVar = new(slog.LevelVar)
}

// ClearLogs removes the TUI log and every dev server log from /tmp. It
// returns how many files were removed.
func ClearLogs() (int, error) {
	paths := []string{DefaultLogPath}
	serveLogs, err := filepath.Glob(fmt.Sprintf(servePattern, "*"))
	if err != nil {
		return 0, err
	}
	paths = append(paths, serveLogs...)

	count := 0
	for _, p := range paths {
		switch err := os.Remove(p); {
		case err == nil:
			count++
		case !os.IsNotExist(err):
			return count, err
		}
	}
	return count, nil
}

// WithComponent returns a logger tagged with component=name.
//
//	log := logger.WithComponent("api")
//	log.Info("request failed", "path", path, "status", code)
func WithComponent(name string) *slog.Logger {
	return with(slog.String("component", name))
}

// WithChat returns a logger tagged with the chat ID.
func WithChat(chatID string) *slog.Logger {
	return with(slog.String("chatID", chatID))
}

func with(attr slog.Attr) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := currentLocked()
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.With(attr)
}

// Logger returns the underlying logger, or nil when no file is open.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return currentLocked()
}
