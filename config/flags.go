package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by BindFlags, MergeFromFlags and the CLI.
const (
	FlagConfig     = "config"
	FlagProfile    = "profile"
	FlagLegacy     = "legacy"
	FlagWorkers    = "workers"
	FlagStrict     = "strict"
	FlagNoStrict   = "no-strict"
	FlagProbeTries = "probe-attempts"
	FlagProbeDelay = "probe-delay"
	FlagProbeTime  = "probe-timeout"
	FlagFFprobe    = "ffprobe"
	FlagNoProbe    = "no-probe"
	FlagSuffix     = "suffix"
	FlagTool       = "tool"
	FlagExport     = "export"
	FlagExportFile = "out"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
	FlagVerbose    = "verbose"
)

// BindFlags registers every configuration flag on fs. Defaults shown in
// help come from DefaultConfig; only flags the user sets are merged.
func BindFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()

	fs.String(FlagConfig, "", "Path to config file (default: search ./mediaopt.yaml, ~/.mediaopt/config.yaml, /etc/mediaopt/config.yaml)")

	fs.StringP(FlagProfile, "p", d.Profile, "Target profile id")
	fs.Bool(FlagLegacy, d.Legacy, "Resolve --profile as a legacy preset")

	fs.IntP(FlagWorkers, "w", d.Workers, "Number of parallel analyses (0 = CPU count)")
	fs.Bool(FlagStrict, false, "Abort the batch on the first extraction failure")
	fs.Bool(FlagNoStrict, false, "Record failed files and continue")

	fs.Int(FlagProbeTries, d.Probe.Attempts, "Attempts to locate ffprobe before using heuristics")
	fs.Duration(FlagProbeDelay, d.Probe.Delay, "Delay between ffprobe attempts")
	fs.Duration(FlagProbeTime, d.Probe.Timeout, "Header probe timeout per file")
	fs.String(FlagFFprobe, d.Probe.FFprobePath, "ffprobe executable (default: ffprobe on PATH)")
	fs.Bool(FlagNoProbe, d.Probe.Disable, "Never use ffprobe, analyze with heuristics only")

	fs.String(FlagSuffix, d.Output.Suffix, "Suffix appended to output file names")
	fs.String(FlagTool, d.Output.Tool, "Encoder executable written into commands")

	fs.StringP(FlagExport, "e", d.Export.Format, "Batch export format: bash, powershell, csv, yaml, json")
	fs.StringP(FlagExportFile, "o", d.Export.File, "Write the export to this file instead of stdout")

	fs.String(FlagLogLevel, d.Log.Level, "Log level: trace, debug, info, warn, error")
	fs.String(FlagLogFormat, d.Log.Format, "Log format: console or json")
	fs.BoolP(FlagVerbose, "v", d.Verbose, "Enable verbose (debug) logging")
}

// MergeFromFlags overrides config values with the flags explicitly set on
// fs. Flags that were not registered on fs are ignored.
func (c *Config) MergeFromFlags(fs *pflag.FlagSet) error {
	var err error
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return err == nil && f != nil && f.Changed
	}

	if changed(FlagProfile) {
		c.Profile, err = fs.GetString(FlagProfile)
	}
	if changed(FlagLegacy) {
		c.Legacy, err = fs.GetBool(FlagLegacy)
	}

	if changed(FlagWorkers) {
		c.Workers, err = fs.GetInt(FlagWorkers)
	}
	if changed(FlagStrict) {
		c.StrictMode = true
	}
	if changed(FlagNoStrict) {
		c.StrictMode = false
	}

	if changed(FlagProbeTries) {
		c.Probe.Attempts, err = fs.GetInt(FlagProbeTries)
	}
	if changed(FlagProbeDelay) {
		c.Probe.Delay, err = fs.GetDuration(FlagProbeDelay)
	}
	if changed(FlagProbeTime) {
		c.Probe.Timeout, err = fs.GetDuration(FlagProbeTime)
	}
	if changed(FlagFFprobe) {
		c.Probe.FFprobePath, err = fs.GetString(FlagFFprobe)
	}
	if changed(FlagNoProbe) {
		c.Probe.Disable, err = fs.GetBool(FlagNoProbe)
	}

	if changed(FlagSuffix) {
		c.Output.Suffix, err = fs.GetString(FlagSuffix)
	}
	if changed(FlagTool) {
		c.Output.Tool, err = fs.GetString(FlagTool)
	}

	if changed(FlagExport) {
		c.Export.Format, err = fs.GetString(FlagExport)
	}
	if changed(FlagExportFile) {
		c.Export.File, err = fs.GetString(FlagExportFile)
	}

	if changed(FlagLogLevel) {
		c.Log.Level, err = fs.GetString(FlagLogLevel)
	}
	if changed(FlagLogFormat) {
		c.Log.Format, err = fs.GetString(FlagLogFormat)
	}
	if changed(FlagVerbose) {
		c.Verbose, err = fs.GetBool(FlagVerbose)
	}

	return err
}
