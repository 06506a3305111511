package config

import (
	"fmt"
	"io"
	"os"

	"github.com/getmockd/routestore/pkg/logging"
)

// Logging environment variables.
const (
	EnvLogLevel  = "ROUTESTORE_LOG_LEVEL"
	EnvLogFormat = "ROUTESTORE_LOG_FORMAT"
	EnvLogFile   = "ROUTESTORE_LOG_FILE"

	EnvLogFileLevel = "ROUTESTORE_LOG_FILE_LEVEL"
)

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`

	// File, when set, receives a JSON copy of every record.
	File string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`

	// FileLevel is the minimum level written to File, independent of Level.
	FileLevel string `json:"fileLevel" yaml:"file_level" toml:"file_level"`
}

// LoggerConfig converts the finalized configuration into a logging.Config writing to out.
func (c *LoggingConfig) LoggerConfig(out io.Writer) logging.Config {
	return logging.Config{
		Level:  logging.ParseLevel(c.Level),
		Format: logging.ParseFormat(c.Format),
		Output: out,
	}
}

// FileLoggerLevel returns the parsed level for the log file.
func (c *LoggingConfig) FileLoggerLevel() logging.Level {
	return logging.ParseLevel(c.FileLevel)
}

// OpenFile opens the log file for appending. It returns nil when File is unset.
func (c *LoggingConfig) OpenFile() (*os.File, error) {
	if c.File == "" {
		return nil, nil
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Merge applies values from overlay that differ from zero values.
func (c *LoggingConfig) Merge(overlay *LoggingConfig) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.File != "" {
		c.File = overlay.File
	}
	if overlay.FileLevel != "" {
		c.FileLevel = overlay.FileLevel
	}
}

func (c *LoggingConfig) loadDefaults() {
	if c.Level == "" {
		c.Level = "warn"
	}
	if c.Format == "" {
		c.Format = string(logging.FormatText)
	}
	if c.FileLevel == "" {
		c.FileLevel = "info"
	}
}

func (c *LoggingConfig) loadEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.File = v
	}
	if v := os.Getenv(EnvLogFileLevel); v != "" {
		c.FileLevel = v
	}
}

func (c *LoggingConfig) validate() error {
	if _, ok := logging.LookupLevel(c.Level); !ok {
		return fmt.Errorf("invalid level %q", c.Level)
	}
	if _, ok := logging.LookupLevel(c.FileLevel); !ok {
		return fmt.Errorf("invalid file_level %q", c.FileLevel)
	}
	if _, ok := logging.LookupFormat(c.Format); !ok {
		return fmt.Errorf("invalid format %q", c.Format)
	}
	return nil
}
