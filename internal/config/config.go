package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ning0612/Dirdiff/internal/domain"
	"github.com/Ning0612/Dirdiff/internal/logger"
)

// Config represents the complete configuration for dirdiff
type Config struct {
	// FilterDescendants suppresses records below a differing directory
	FilterDescendants bool `mapstructure:"filter_descendants"`

	// SortEntries requests name-ordered traversal for deterministic output
	SortEntries bool `mapstructure:"sort_entries"`

	// FollowSymlinks descends into linked directories
	FollowSymlinks bool `mapstructure:"follow_symlinks"`

	// Exclude lists glob patterns skipped in every root
	Exclude []string `mapstructure:"exclude"`

	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// OutputConfig controls how records are rendered
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig configures the optional rotating log file
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	validOutputFormats = []string{"text", "json", "yaml"}
	validLogLevels     = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats    = []string{"text", "json"}
)

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		FilterDescendants: true,
		SortEntries:       true,
		Output:            OutputConfig{Format: "text"},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
			File: LogFileConfig{
				Path:       DefaultLogPath(),
				MaxSizeMB:  10,
				MaxAgeDays: 7,
				MaxBackups: 3,
			},
		},
	}
}

// DefaultLogPath returns the log file location used when none is configured
func DefaultLogPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "dirdiff", "dirdiff.log")
	}
	return filepath.Join(os.TempDir(), "dirdiff.log")
}

// Validate checks if the configuration is complete and consistent
func (c *Config) Validate() error {
	if !oneOf(c.Output.Format, validOutputFormats) {
		return fmt.Errorf("%w: invalid output format: %q", domain.ErrConfigInvalid, c.Output.Format)
	}
	if !oneOf(c.Log.Level, validLogLevels) {
		return fmt.Errorf("%w: invalid log level: %q", domain.ErrConfigInvalid, c.Log.Level)
	}
	if !oneOf(c.Log.Format, validLogFormats) {
		return fmt.Errorf("%w: invalid log format: %q", domain.ErrConfigInvalid, c.Log.Format)
	}

	for i, pattern := range c.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%w: exclude pattern %d is empty", domain.ErrConfigInvalid, i)
		}
	}

	if c.Log.File.Enabled {
		if c.Log.File.Path == "" {
			return fmt.Errorf("%w: log file enabled without a path", domain.ErrConfigInvalid)
		}
		if c.Log.File.MaxSizeMB < 0 || c.Log.File.MaxAgeDays < 0 || c.Log.File.MaxBackups < 0 {
			return fmt.Errorf("%w: log file limits cannot be negative", domain.ErrConfigInvalid)
		}
	}

	return nil
}

// LoggerConfig converts the log section into a logger.Config writing to stderr
// and, when enabled, to the rotating log file
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.Config{
		Level:   logger.ParseLevel(c.Log.Level),
		Format:  logger.ParseFormat(c.Log.Format),
		Outputs: []logger.OutputConfig{{Type: logger.OutputStderr}},
	}

	if c.Log.File.Enabled {
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputFile})
		cfg.File = logger.FileConfig{
			Enabled:    true,
			Path:       ExpandPath(c.Log.File.Path),
			MaxSizeMB:  c.Log.File.MaxSizeMB,
			MaxAgeDays: c.Log.File.MaxAgeDays,
			MaxBackups: c.Log.File.MaxBackups,
			Compress:   c.Log.File.Compress,
		}
	}

	return cfg
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	// Expand ~ to home directory
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			if len(path) > 1 && (path[1] == '/' || path[1] == filepath.Separator) {
				path = filepath.Join(home, path[2:])
			} else if len(path) == 1 {
				path = home
			}
		}
	}
	// Expand environment variables
	path = os.ExpandEnv(path)
	return filepath.Clean(path)
}
