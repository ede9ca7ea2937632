package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mediaopt/batch"
	"mediaopt/extractor"
	"mediaopt/internal/timeutil"
	"mediaopt/internal/units"
	"mediaopt/models"
)

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE|DIR...",
		Short: "Analyze many files and export a batch encode script or report",
		Long: "Analyze every file (directories are searched recursively for video files), print the\n" +
			"estimated savings and optionally export a bash or PowerShell script, a CSV report or a\n" +
			"YAML/JSON summary with --export.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args)
		},
	}
}

func (a *app) runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	startTime := time.Now()

	paths, err := expandInputs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no video files found in %s", strings.Join(args, ", "))
	}

	files := make([]extractor.Input, 0, len(paths))
	for _, p := range paths {
		f, err := extractor.StatFile(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	// Report to stderr when the export itself goes to stdout
	report := a.out
	if a.cfg.Export.Format != "" && a.cfg.Export.File == "" {
		report = a.errOut
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(a.errOut),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)

	strategy := a.strategy(ctx)
	coord := batch.NewCoordinator(batch.Options{
		Factory:       func() batch.Analyzer { return releasingAnalyzer{a.newExtractor(strategy)} },
		Selector:      a.cfg.Selector(),
		Workers:       a.cfg.Workers,
		StrictMode:    a.cfg.StrictMode,
		Logger:        a.logger,
		EngineOptions: a.engineOptions(),
		Progress: func(p *models.BatchProgress) {
			bar.Describe(fmt.Sprintf("Analyzing %s", p.Current))
			_ = bar.Set(p.Completed)
		},
	})

	if err := coord.AddFiles(ctx, files); err != nil {
		_ = bar.Exit()
		return err
	}
	_ = bar.Finish()

	printBatchSummary(report, coord, time.Since(startTime))

	if a.cfg.Export.Format == "" {
		return nil
	}
	return a.writeExport(coord)
}

// expandInputs resolves directories to the video files below them. Plain
// file arguments are kept as given.
func expandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isVideoFile(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
	}
	return paths, nil
}

func isVideoFile(path string) bool {
	return strings.HasPrefix(extractor.MIMEByExtension(path), "video/")
}

func printBatchSummary(w io.Writer, c *batch.Coordinator, elapsed time.Duration) {
	profile := c.Profile()
	entries := c.Entries()

	headingStyle.Fprintf(w, "\n📦 Batch %s (%s)\n", c.ID(), profile.Name)
	fmt.Fprintln(w, rule)
	for _, e := range entries {
		if e.Failed() {
			impactStyle(models.ImpactHigh).Fprintf(w, "  ✗ %-40s %s\n", e.Name(), oneLine(e.Err))
			continue
		}
		fmt.Fprintf(w, "  ✓ %-40s %10s → %-10s (-%d%%)\n", e.Name(),
			units.FormatSize(e.Estimate.Original), units.FormatSize(e.Estimate.Optimized), e.Estimate.Percentage)
	}

	stats, err := c.AggregateStats()
	fmt.Fprintln(w, rule)
	if err != nil {
		warnStyle.Fprintf(w, "  ⚠️  %v\n", err)
	} else {
		field(w, "Files", fmt.Sprintf("%d analyzed, %d failed", stats.Count, stats.Failed))
		field(w, "Original", units.FormatSize(stats.TotalOriginal))
		field(w, "Optimized", units.FormatSize(stats.TotalOptimized))
		field(w, "Saved", fmt.Sprintf("%s (%d%%)", units.FormatSize(stats.TotalSaved), stats.Percentage))
	}
	field(w, "Total time", timeutil.FormatDuration(elapsed.Seconds()))
}

// writeExport renders the configured export format to the export file or
// stdout.
func (a *app) writeExport(c *batch.Coordinator) error {
	var data []byte
	switch a.cfg.Export.Format {
	case "bash":
		data = []byte(c.BashScript())
	case "powershell":
		data = []byte(c.PowerShellScript())
	case "csv":
		s, err := c.CSVReport()
		if err != nil {
			return err
		}
		data = []byte(s)
	case "yaml":
		b, err := c.Summary().YAML()
		if err != nil {
			return err
		}
		data = b
	case "json":
		b, err := c.Summary().JSON()
		if err != nil {
			return err
		}
		data = append(b, '\n')
	default:
		return fmt.Errorf("unsupported export format %q", a.cfg.Export.Format)
	}

	if a.cfg.Export.File == "" {
		_, err := a.out.Write(data)
		return err
	}

	mode := os.FileMode(0644)
	if a.cfg.Export.Format == "bash" {
		mode = 0755
	}
	if err := os.WriteFile(a.cfg.Export.File, data, mode); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	successStyle.Fprintf(a.errOut, "✓ Wrote %s export to %s\n", a.cfg.Export.Format, a.cfg.Export.File)
	return nil
}

// releasingAnalyzer closes each input once it has been analyzed so a batch
// holds at most one descriptor per worker.
type releasingAnalyzer struct {
	batch.Analyzer
}

func (r releasingAnalyzer) Analyze(ctx context.Context, in extractor.Input) (*models.MediaMetadata, error) {
	if c, ok := in.(io.Closer); ok {
		defer c.Close()
	}
	return r.Analyzer.Analyze(ctx, in)
}

func oneLine(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}
