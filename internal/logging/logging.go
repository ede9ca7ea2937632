// Package logging builds the zerolog logger shared by the CLI and the batch
// coordinator.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Common field names.
const (
	FieldFile     = "file"
	FieldProfile  = "profile"
	FieldStrategy = "strategy"
	FieldEvent    = "event"
	FieldBatchID  = "batch_id"
)

// Options configures New.
type Options struct {
	Level   string    // trace, debug, info, warn, error
	Format  string    // console or json
	Verbose bool      // forces debug level
	Writer  io.Writer // defaults to os.Stderr
	NoColor bool
}

// New returns a logger configured from opts. An empty level means info.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: opts.NoColor}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (must be console or json)", opts.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
