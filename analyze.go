package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mediaopt/extractor"
	"mediaopt/internal/timeutil"
	"mediaopt/internal/units"
	"mediaopt/models"
	"mediaopt/optimizer"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

var (
	headingStyle = color.New(color.Bold, color.FgCyan)
	valueStyle   = color.New(color.Bold)
	successStyle = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Analyze files and print recommendations for the selected profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ex := a.newExtractor(a.strategy(ctx))

			for _, path := range args {
				start := time.Now()
				f, err := extractor.OpenFile(path)
				if err != nil {
					return err
				}
				meta, err := ex.Analyze(ctx, f)
				f.Close()
				if err != nil {
					return fmt.Errorf("analyze %s: %w", path, err)
				}

				opts := append(a.engineOptions(), optimizer.WithInputPath(path), optimizer.WithLogger(a.logger))
				engine := optimizer.New(meta, a.cfg.Selector(), opts...)
				printReport(a.out, engine, explain)
				fmt.Fprintf(a.out, "  Analyzed in %s\n\n", timeutil.FormatDuration(time.Since(start).Seconds()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", true, "Explain each parameter of the generated command")
	return cmd
}

// printReport writes the full per-file report: metadata, recommendations,
// command and estimate.
func printReport(w io.Writer, e *optimizer.Engine, explain bool) {
	meta := e.Metadata()
	profile := e.Profile()

	headingStyle.Fprintf(w, "\n📊 %s\n", meta.Filename)
	fmt.Fprintln(w, rule)

	field(w, "Size", units.FormatSize(meta.Size))
	field(w, "Duration", timeutil.FormatSeconds(meta.Duration))
	field(w, "Container", meta.ContainerFormat)
	field(w, "Video", fmt.Sprintf("%s, %s, %s", displayName(meta.Video.CodecName, meta.Video.Codec),
		meta.Video.Resolution, units.FormatBitrate(meta.Video.Bitrate)))
	field(w, "Audio", fmt.Sprintf("%s, %s, %s", displayName(meta.Audio.CodecName, meta.Audio.Codec),
		meta.Audio.Channels, units.FormatBitrate(meta.Audio.Bitrate)))
	if meta.TotalBitrate > 0 {
		v, a, o := meta.BitrateBreakdown()
		field(w, "Bitrate", fmt.Sprintf("%s (video %s, audio %s, overhead %s)", units.FormatBitrate(meta.TotalBitrate),
			units.FormatBitrate(v), units.FormatBitrate(a), units.FormatBitrate(o)))
	}
	if meta.HasSubtitles() {
		field(w, "Subtitles", fmt.Sprintf("%d track(s)", meta.SubtitlesCount()))
	}
	field(w, "Source", meta.Source)
	if !meta.IsRealAnalysis {
		warnStyle.Fprintln(w, "  ⚠️  Estimated from file headers; codecs may be inaccurate")
	}

	headingStyle.Fprintf(w, "\n🎯 Recommendations (%s)\n", profile.Name)
	fmt.Fprintln(w, rule)
	recs := e.GenerateRecommendations()
	if len(recs) == 0 {
		successStyle.Fprintln(w, "  ✓ Already optimal for this profile")
	}
	for _, r := range recs {
		impactStyle(r.Impact).Fprintf(w, "  [%-6s] ", strings.ToUpper(string(r.Impact)))
		valueStyle.Fprintf(w, "%s: ", r.Category)
		fmt.Fprintf(w, "%s → %s\n", r.From, r.To)
		fmt.Fprintf(w, "           %s\n", r.Reason)
	}

	headingStyle.Fprintln(w, "\n⚙️  Command")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s\n", e.GenerateCommand().String())
	if explain {
		for _, x := range e.ExplainCommand() {
			fmt.Fprintf(w, "    %-40s %s\n", x.Param, x.Description)
		}
	}

	est := e.EstimateOutputSize()
	headingStyle.Fprintln(w, "\n💾 Estimate")
	fmt.Fprintln(w, rule)
	field(w, "Original", units.FormatSize(est.Original))
	field(w, "Optimized", units.FormatSize(est.Optimized))
	field(w, "Saved", fmt.Sprintf("%s (%d%%)", units.FormatSize(est.Saved), est.Percentage))
	field(w, "Output", e.OutputPath())
	field(w, "Playback", yesNo(e.CheckPlaybackCompatibility(), "direct play", "may need transcoding"))
	field(w, "HW decode", yesNo(e.CheckHardwareAcceleration(), "supported", "not supported"))
}

func impactStyle(i models.Impact) *color.Color {
	switch i {
	case models.ImpactHigh:
		return color.New(color.Bold, color.FgRed)
	case models.ImpactMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-11s ", label+":")
	valueStyle.Fprintln(w, value)
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return "✓ " + yes
	}
	return "✗ " + no
}
