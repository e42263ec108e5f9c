package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LegacyLogger prints plain lines with fmt. It is the fallback selected by LegacyEnvVar.
type LegacyLogger struct {
	level  Level
	mu     sync.RWMutex
	stdout io.Writer
	stderr io.Writer
}

// NewLegacyLogger creates a legacy logger at info level
func NewLegacyLogger() *LegacyLogger {
	return &LegacyLogger{
		level:  LevelInfo,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetLevel sets the minimum level printed
func (l *LegacyLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *LegacyLogger) shouldLog(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *LegacyLogger) print(w io.Writer, level Level, prefix, msg string, args []any) {
	if !l.shouldLog(level) {
		return
	}
	fmt.Fprintf(w, "[%s] %s %v\n", prefix, msg, args)
}

func (l *LegacyLogger) Debug(msg string, args ...any) {
	l.print(l.stdout, LevelDebug, "DEBUG", msg, args)
}

func (l *LegacyLogger) Info(msg string, args ...any) {
	l.print(l.stdout, LevelInfo, "INFO", msg, args)
}

func (l *LegacyLogger) Warn(msg string, args ...any) {
	l.print(l.stderr, LevelWarn, "WARN", msg, args)
}

func (l *LegacyLogger) Error(msg string, args ...any) {
	l.print(l.stderr, LevelError, "ERROR", msg, args)
}

// With returns the logger itself; context attributes are not supported
func (l *LegacyLogger) With(args ...any) Logger {
	return l
}

func (l *LegacyLogger) Sync() error {
	return nil
}

func (l *LegacyLogger) Shutdown() error {
	return nil
}
