package logger

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// LegacyEnvVar switches Init to the plain fmt based logger when set to "true"
const LegacyEnvVar = "DIRDIFF_USE_LEGACY_LOGGER"

// ErrAlreadyInitialized is returned by Init until Shutdown releases the current logger
var ErrAlreadyInitialized = errors.New("logger already initialized")

var global struct {
	sync.RWMutex
	current Logger // nil outside Init/Shutdown
}

// Init installs the process wide logger
func Init(config Config) error {
	global.Lock()
	defer global.Unlock()

	if global.current != nil {
		return ErrAlreadyInitialized
	}

	l, err := newFromEnv(config)
	if err != nil {
		return err
	}
	global.current = l
	return nil
}

func newFromEnv(config Config) (Logger, error) {
	if os.Getenv(LegacyEnvVar) == "true" {
		legacy := NewLegacyLogger()
		legacy.SetLevel(config.Level)
		return legacy, nil
	}

	l, err := NewSlogLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create slog logger: %w", err)
	}
	return l, nil
}

// Get returns the installed logger. Before Init everything is discarded.
func Get() Logger {
	global.RLock()
	defer global.RUnlock()

	if global.current == nil {
		return &NullLogger{}
	}
	return global.current
}

func With(args ...any) Logger { return Get().With(args...) }

func Sync() error { return Get().Sync() }

// Shutdown closes the installed logger and uninstalls it. Without one it does nothing.
func Shutdown() error {
	global.Lock()
	l := global.current
	global.current = nil
	global.Unlock()

	if l == nil {
		return nil
	}
	return l.Shutdown()
}

// SetLevel only affects the legacy logger; slog levels are fixed at Init
func SetLevel(level Level) {
	global.RLock()
	defer global.RUnlock()

	if legacy, ok := global.current.(*LegacyLogger); ok {
		legacy.SetLevel(level)
	}
}

// NullLogger discards everything
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, args ...any) {}
func (n *NullLogger) Info(msg string, args ...any)  {}
func (n *NullLogger) Warn(msg string, args ...any)  {}
func (n *NullLogger) Error(msg string, args ...any) {}
func (n *NullLogger) With(args ...any) Logger       { return n }
func (n *NullLogger) Sync() error                   { return nil }
func (n *NullLogger) Shutdown() error               { return nil }
