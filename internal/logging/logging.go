// Package logging builds the charmbracelet/log logger shared by the CLI, the
// store and the API client.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every line.
const Prefix = "tada"

// Options holds configuration for the logger.
type Options struct {
	Level     string
	Format    string
	File      string
	Timestamp bool
}

// ParseLevel parses a level name. Unknown names are an error.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormatter parses a formatter name: text, json or logfmt.
func ParseFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("unknown log format %q", format)
	}
}

// New returns a logger writing to opts.File, or to fallback when no file is
// set. The returned closer releases the file and is never nil.
func New(opts Options, fallback io.Writer) (*log.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	formatter, err := ParseFormatter(opts.Format)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      = fallback
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	if w == nil {
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.Timestamp || opts.File != "",
		Prefix:          Prefix,
	})
	return logger, closer, nil
}

// Quiet redirects logger to io.Discard unless it already writes to a file.
// The TUI calls it so log lines do not tear the alternate screen.
func Quiet(logger *log.Logger, opts Options) {
	if opts.File == "" {
		logger.SetOutput(io.Discard)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
