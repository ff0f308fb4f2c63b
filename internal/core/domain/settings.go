package domain

import (
	"fmt"
	"strings"
)

// LogFormat selects how diagnostic output is encoded.
type LogFormat string

// Available log formats.
const (
	// LogFormatConsole is human-readable tab separated output.
	LogFormatConsole LogFormat = "console"

	// LogFormatJSON is one JSON object per line.
	LogFormatJSON LogFormat = "json"
)

// IsValid returns true if the log format is recognised.
func (f LogFormat) IsValid() bool {
	return f == LogFormatConsole || f == LogFormatJSON
}

// String returns the string representation.
func (f LogFormat) String() string {
	return string(f)
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// DataDir is where the metadata database lives. Empty means the default.
	DataDir string
}

// LogSettings holds diagnostic logging configuration.
type LogSettings struct {
	// Verbose enables debug and info output.
	Verbose bool

	// Format is the log encoding.
	Format LogFormat
}

// WatchSettings holds directory watcher configuration.
type WatchSettings struct {
	// Extensions lists the file extensions ingested by the watcher, with dot.
	Extensions []string

	// MaxRate caps ingested documents per second. Zero disables throttling.
	MaxRate float64
}

// Accepts returns true if the file extension is on the allow list.
// An empty list accepts every extension.
func (w WatchSettings) Accepts(ext string) bool {
	if len(w.Extensions) == 0 {
		return true
	}
	ext = strings.ToLower(ext)
	for _, allowed := range w.Extensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// MetricsSettings holds the Prometheus endpoint configuration.
type MetricsSettings struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Storage StorageSettings
	Log     LogSettings
	Watch   WatchSettings
	Metrics MetricsSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Log: LogSettings{
			Format: LogFormatConsole,
		},
		Watch: WatchSettings{
			Extensions: []string{".txt", ".md", ".csv", ".eml", ".pdf"},
			MaxRate:    10,
		},
	}
}

// Validate checks the settings for values that cannot work.
func (s AppSettings) Validate() error {
	if !s.Log.Format.IsValid() {
		return fmt.Errorf("%w: log format %q", ErrInvalidInput, s.Log.Format)
	}
	if s.Watch.MaxRate < 0 {
		return fmt.Errorf("%w: watch rate must not be negative", ErrInvalidInput)
	}
	for _, ext := range s.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidInput, ext)
		}
	}
	return nil
}
