// ABOUTME: Structured logger construction for the CLI and MCP server.
// ABOUTME: Writes to stderr or to a size-rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Level is a level name such as "debug" or "warn". Empty means "info".
	Level string
	// File, when set, receives logs instead of Writer and is rotated by size.
	File string
	// JSON selects the JSON formatter.
	JSON bool
	// Writer is the destination when File is empty. Defaults to os.Stderr.
	Writer io.Writer
	// Prefix is prepended to every line.
	Prefix string
}

// Rotation limits for File.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger. The returned closer releases the log file, if any.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch {
	case opts.File != "":
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		w, closer = rotating, rotating
	case opts.Writer != nil:
		w = opts.Writer
	}

	logOpts := log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.File != "",
	}
	if opts.JSON {
		logOpts.Formatter = log.JSONFormatter
	}

	return log.NewWithOptions(w, logOpts), closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
