package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel represents logging verbosity.
type LogLevel int

const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelDebug
)

// ParseLogLevel maps a config string to a LogLevel, defaulting to error.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LogLevelOff
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelError
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	if l == LogLevelDebug {
		return slog.LevelDebug
	}
	return slog.LevelError
}

// Logger writes cmd/shardkit's file log, including the debug line the RS
// decoder's alternative-subset fallback emits when it fires. It offers
// printf-style Debug/Error plus a Structured accessor for slog-native
// call sites.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	file    *os.File
	slogger *slog.Logger
}

// NewLogger opens (creating as needed) the log file at filePath and
// returns a Logger at the given level. An off level or empty path yields
// a logger that discards everything, without touching the filesystem.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	logger := &Logger{level: level}
	if level == LogLevelOff || filePath == "" {
		return logger, nil
	}

	if strings.HasPrefix(filePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		filePath = filepath.Join(home, filePath[2:])
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, err
	}
	// #nosec G304 -- log file path comes from the user's own config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	logger.file = f
	logger.slogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: level.slogLevel(),
	}))
	return logger, nil
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{level: LogLevelOff}
}

// Structured returns the underlying slog.Logger, or nil when logging is
// disabled.
func (l *Logger) Structured() *slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slogger
}

// Level returns the configured level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Debug logs a printf-style debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LogLevelDebug, slog.LevelDebug, format, args...)
}

// Error logs a printf-style error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LogLevelError, slog.LevelError, format, args...)
}

func (l *Logger) log(min LogLevel, sl slog.Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level == LogLevelOff || l.level < min || l.slogger == nil {
		return
	}
	l.slogger.Log(context.Background(), sl, fmt.Sprintf(format, args...))
}

// Close closes the log file, if one is open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
