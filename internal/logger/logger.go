// Package logger is a small leveled logger. The server speaks its protocol
// on stdout, so log output only ever goes to a file or an explicit writer.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelNone disables all logging
	LevelNone
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "NONE"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelNone {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel parses a level name case-insensitively. Unknown names yield
// LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off":
		return LevelNone
	default:
		return LevelInfo
	}
}

// sink is shared by a logger and every prefixed child.
type sink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// Logger writes prefixed, leveled lines to a shared sink.
type Logger struct {
	sink   *sink
	level  *levelVar
	prefix string
}

type levelVar struct {
	mu sync.RWMutex
	l  Level
}

func (v *levelVar) get() Level {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.l
}

func (v *levelVar) set(l Level) {
	v.mu.Lock()
	v.l = l
	v.mu.Unlock()
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Init installs the global logger writing to logPath. Calling it again
// replaces the previous logger and closes its file.
func Init(level Level, logPath string) error {
	l, err := New(level, logPath, "")
	if err != nil {
		return err
	}
	globalMu.Lock()
	old := globalLogger
	globalLogger = l
	globalMu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// New creates a logger appending to logPath. An empty path or LevelNone
// yields a logger that discards everything.
func New(level Level, logPath string, prefix string) (*Logger, error) {
	if level == LevelNone || logPath == "" {
		return NewWriter(LevelNone, io.Discard, prefix), nil
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := NewWriter(level, file, prefix)
	l.sink.closer = file
	return l, nil
}

// NewWriter creates a logger writing to w.
func NewWriter(level Level, w io.Writer, prefix string) *Logger {
	return &Logger{sink: &sink{w: w}, level: &levelVar{l: level}, prefix: prefix}
}

// Global returns the global logger, or a discarding one before Init.
func Global() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l == nil {
		return NewWriter(LevelNone, io.Discard, "")
	}
	return l
}

// WithPrefix returns a child logger sharing the sink and level. Prefixes
// nest as "parent:child".
func (l *Logger) WithPrefix(prefix string) *Logger {
	if l.prefix != "" {
		prefix = l.prefix + ":" + prefix
	}
	return &Logger{sink: l.sink, level: l.level, prefix: prefix}
}

// SetLevel changes the level for this logger and all its children.
func (l *Logger) SetLevel(level Level) { l.level.set(level) }

// GetLevel returns the current logging level
func (l *Logger) GetLevel() Level { return l.level.get() }

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	cur := l.level.get()
	return cur != LevelNone && level >= cur
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02T15:04:05.000Z07:00"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	if l.prefix != "" {
		b.WriteString("[" + l.prefix + "] ")
	}
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.w, b.String())
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.closer == nil {
		return nil
	}
	err := l.sink.closer.Close()
	l.sink.closer = nil
	l.sink.w = io.Discard
	return err
}

func Debug(format string, args ...interface{}) { Global().Debug(format, args...) }
func Info(format string, args ...interface{})  { Global().Info(format, args...) }
func Warn(format string, args ...interface{})  { Global().Warn(format, args...) }
func Error(format string, args ...interface{}) { Global().Error(format, args...) }
