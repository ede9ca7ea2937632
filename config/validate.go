package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"mediaopt/codecdb"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if c.Profile == "" {
		errors = append(errors, "profile is required")
	} else if !c.knownProfile() {
		kind := "profile"
		if c.Legacy {
			kind = "legacy preset"
		}
		errors = append(errors, fmt.Sprintf("unknown %s '%s'", kind, c.Profile))
	}

	if c.Workers < 0 {
		errors = append(errors, "workers cannot be negative (use 0 for the default pool size)")
	}

	if err := c.Probe.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("probe config: %v", err))
	}

	if c.Output.Tool == "" {
		errors = append(errors, "output tool is required")
	}

	if !IsValidExportFormat(c.Export.Format) {
		errors = append(errors, fmt.Sprintf("invalid export format '%s', must be one of: %s",
			c.Export.Format, strings.Join(ExportFormats(), ", ")))
	}
	if c.Export.File != "" && c.Export.Format == "" {
		errors = append(errors, "export file requires an export format")
	}

	if err := c.Log.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("log config: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func (c *Config) knownProfile() bool {
	if c.Legacy {
		_, ok := codecdb.LegacyPresetView(codecdb.Profiles())[c.Profile]
		return ok
	}
	_, ok := codecdb.LookupProfile(c.Profile)
	return ok
}

// Validate checks if probe configuration is valid
func (pc *ProbeConfig) Validate() error {
	var errors []string

	if pc.Attempts <= 0 {
		errors = append(errors, "attempts must be positive")
	}
	if pc.Delay < 0 {
		errors = append(errors, "delay cannot be negative")
	}
	if pc.Timeout <= 0 {
		errors = append(errors, "timeout must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, ", "))
	}

	return nil
}

// Validate checks if log configuration is valid
func (lc *LogConfig) Validate() error {
	var errors []string

	if lc.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(lc.Level)); err != nil {
			errors = append(errors, fmt.Sprintf("invalid level '%s'", lc.Level))
		}
	}

	switch strings.ToLower(lc.Format) {
	case "", "console", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid format '%s', must be console or json", lc.Format))
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, ", "))
	}

	return nil
}
