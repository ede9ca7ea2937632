package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug().Msg("hidden")
	logger.Info().Str(FieldFile, "movie.mkv").Msg("analyzed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug message should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, `"file":"movie.mkv"`) || !strings.Contains(out, `"message":"analyzed"`) {
		t.Errorf("Expected structured JSON fields, got: %s", out)
	}
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "json", Verbose: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %s", logger.GetLevel())
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Warn().Msg("probe unavailable")
	if !strings.Contains(buf.String(), "WRN") || !strings.Contains(buf.String(), "probe unavailable") {
		t.Errorf("Expected console output, got: %q", buf.String())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		opts          Options
		errorContains string
	}{
		{"bad level", Options{Level: "loud"}, "invalid log level"},
		{"bad format", Options{Format: "xml"}, "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("Expected error containing %q, got %v", tt.errorContains, err)
			}
		})
	}
}
