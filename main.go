package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mediaopt/config"
	"mediaopt/extractor"
	"mediaopt/internal/logging"
	"mediaopt/optimizer"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	out    io.Writer
	errOut io.Writer
}

func main() {
	// Cancel in-flight analyses on Ctrl+C or SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n⚠️  Interrupt received, stopping...")
		cancel()
	}()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "⚠️  Cancelled by user")
			os.Exit(130) // Standard exit code for SIGINT
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "mediaopt",
		Short:         "Recommend re-encoding settings for video files",
		Long:          "mediaopt analyzes video files and recommends codecs, quality settings and an ffmpeg command for a target profile.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	config.BindFlags(root.PersistentFlags())
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.AddCommand(
		newAnalyzeCmd(a),
		newBatchCmd(a),
		newProfilesCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the layered configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Verbose: cfg.Verbose,
		Writer:  cmd.ErrOrStderr(),
		NoColor: color.NoColor,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()
	return nil
}

// strategy selects the extraction strategy once per process.
func (a *app) strategy(ctx context.Context) extractor.Strategy {
	if a.cfg.Probe.Disable {
		a.logger.Debug().Msg("ffprobe disabled, using heuristics")
		return extractor.HeuristicStrategy()
	}
	return extractor.SelectStrategy(ctx, extractor.InitOptions{
		Attempts: a.cfg.Probe.Attempts,
		Delay:    a.cfg.Probe.Delay,
		Loader:   extractor.FFprobeLoader(a.cfg.Probe.FFprobePath),
		Logger:   a.logger,
	})
}

func (a *app) newExtractor(s extractor.Strategy) *extractor.Extractor {
	return extractor.New(s,
		extractor.WithTimeout(a.cfg.Probe.Timeout),
		extractor.WithLogger(a.logger),
	)
}

func (a *app) engineOptions() []optimizer.Option {
	return []optimizer.Option{
		optimizer.WithTool(a.cfg.Output.Tool),
		optimizer.WithSuffix(a.cfg.Output.Suffix),
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print mediaopt version information",
		// Skip config loading so version works with a broken config file
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mediaopt %s\n", resolveVersion())
			return nil
		},
		DisableFlagsInUseLine: true,
	}
}

func resolveVersion() string {
	if version != "" && version != "dev" {
		return strings.TrimPrefix(version, "v")
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return strings.TrimPrefix(info.Main.Version, "v")
		}
	}
	return "dev"
}
