package config

import (
	"time"

	"mediaopt/codecdb"
	"mediaopt/command"
	"mediaopt/extractor"
	"mediaopt/internal/pathutil"
	"mediaopt/orchestrator"
)

// Config holds all mediaopt configuration options
type Config struct {
	// Target selection
	Profile string `yaml:"profile"` // profile or legacy preset id
	Legacy  bool   `yaml:"legacy"`  // resolve Profile in the legacy preset namespace

	// Execution settings
	Workers    int  `yaml:"workers"`     // 0 = default pool size
	StrictMode bool `yaml:"strict_mode"` // Abort a batch on the first extraction failure

	Probe  ProbeConfig  `yaml:"probe"`
	Output OutputConfig `yaml:"output"`
	Export ExportConfig `yaml:"export"`
	Log    LogConfig    `yaml:"log"`

	Verbose bool `yaml:"verbose"` // Forces debug logging
}

// ProbeConfig controls metadata extraction
type ProbeConfig struct {
	Attempts    int           `yaml:"attempts"`     // capability polls before falling back to heuristics
	Delay       time.Duration `yaml:"delay"`        // pause between polls
	Timeout     time.Duration `yaml:"timeout"`      // header probe bound per file
	FFprobePath string        `yaml:"ffprobe_path"` // empty = look up "ffprobe" on PATH
	Disable     bool          `yaml:"disable"`      // always use heuristics
}

// OutputConfig controls the generated encode commands
type OutputConfig struct {
	Suffix string `yaml:"suffix"` // appended to the input base name
	Tool   string `yaml:"tool"`   // encoder executable
}

// ExportConfig selects the batch export artifact
type ExportConfig struct {
	Format string `yaml:"format"` // bash, powershell, csv, yaml, json; empty = none
	File   string `yaml:"file"`   // empty = stdout
}

// LogConfig controls the zerolog logger
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Profile: codecdb.DefaultProfileID,
		Legacy:  false,

		Workers:    orchestrator.DefaultWorkers,
		StrictMode: false, // Record failed files and keep going

		Probe: ProbeConfig{
			Attempts: extractor.DefaultAttempts,
			Delay:    extractor.DefaultDelay,
			Timeout:  extractor.DefaultProbeTimeout,
		},

		Output: OutputConfig{
			Suffix: pathutil.DefaultSuffix,
			Tool:   command.DefaultTool,
		},

		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Copy creates a copy of the config
func (c *Config) Copy() *Config {
	cp := *c
	return &cp
}

// Selector returns the profile selector named by the config
func (c *Config) Selector() codecdb.Selector {
	return codecdb.Selector{ID: c.Profile, IsProfile: !c.Legacy}
}

// ExportFormats returns valid export formats
func ExportFormats() []string {
	return []string{"bash", "powershell", "csv", "yaml", "json"}
}

// IsValidExportFormat checks if format is valid. Empty means no export.
func IsValidExportFormat(format string) bool {
	if format == "" {
		return true
	}
	for _, valid := range ExportFormats() {
		if format == valid {
			return true
		}
	}
	return false
}
