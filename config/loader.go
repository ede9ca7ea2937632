package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/pflag"
)

// Load builds the configuration with priority: CLI flags > Config file > Defaults.
//
// The file named by --config is used when set; otherwise the standard
// locations are searched. fs must have been populated by BindFlags and
// parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// 1. Start with defaults
	cfg := DefaultConfig()

	// 2. Explicit config file, else the first standard location found
	configPath := ""
	if fs != nil && fs.Lookup(FlagConfig) != nil {
		configPath, _ = fs.GetString(FlagConfig)
	}
	if configPath == "" {
		configPath = FindConfigFile()
	}

	if configPath != "" {
		fileCfg, err := LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg = fileCfg
	}

	// 3. Merge CLI flags (highest priority, overwrites everything)
	if fs != nil {
		if err := cfg.MergeFromFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to read flags: %w", err)
		}
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
