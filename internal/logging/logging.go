// Package logging builds the diagnostic logger written to stderr.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = log.WarnLevel

// Options configures New.
type Options struct {
	// Level is a level name such as "debug" or "warn". Empty means DefaultLevel.
	Level string

	// Prefix is printed before every message.
	Prefix string

	// ReportTimestamp adds a timestamp to each line.
	ReportTimestamp bool
}

// ParseLevel parses a level name. Empty strings map to DefaultLevel.
func ParseLevel(value string) (log.Level, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultLevel, nil
	}
	level, err := log.ParseLevel(value)
	if err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q", value)
	}
	return level, nil
}

// New returns a logger writing to w. An invalid level falls back to
// DefaultLevel and is reported through the returned error.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
	return logger, err
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
