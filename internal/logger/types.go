package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Logger is what walkers, the diff service and the CLI log through
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	Sync() error
	Shutdown() error
}

// Level shares its numeric values with slog, so the zero Level is info
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// Level implements slog.Leveler
func (l Level) Level() slog.Level { return slog.Level(l) }

func (l Level) String() string { return strings.ToLower(slog.Level(l).String()) }

// ParseLevel accepts the slog level names in any case plus "warning".
// Anything else falls back to info.
func ParseLevel(s string) Level {
	if strings.EqualFold(s, "warning") {
		return LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return LevelInfo
	}
	return Level(l)
}

// Format selects the slog handler
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func (f Format) String() string {
	if f == FormatJSON {
		return string(FormatJSON)
	}
	return string(FormatText)
}

// ParseFormat maps "json" in any case to FormatJSON and everything else to text
func ParseFormat(s string) Format {
	if Format(strings.ToLower(s)) == FormatJSON {
		return FormatJSON
	}
	return FormatText
}

type Output int

const (
	OutputStdout Output = iota
	OutputStderr
	OutputFile
)

type Config struct {
	Level   Level
	Format  Format
	Outputs []OutputConfig
	File    FileConfig
}

// OutputConfig names one destination. A non-nil Writer replaces the
// standard stream for stdout and stderr outputs.
type OutputConfig struct {
	Type   Output
	Writer io.Writer
}

// FileConfig is handed to lumberjack when an OutputFile output is present
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
}
