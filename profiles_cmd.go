package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mediaopt/codecdb"
	"mediaopt/config"
)

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List target profiles (--legacy lists the legacy presets)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printProfiles(a.out, a.cfg.Legacy)
		},
	}
}

func printProfiles(w io.Writer, legacy bool) error {
	all := codecdb.Profiles()
	if legacy {
		all = codecdb.LegacyPresetView(all)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tVIDEO\tCRF\tPRESET\tAUDIO\tCONTAINER\tSIZE")
	for _, id := range codecdb.ProfileIDs() {
		p, ok := all[id]
		if !ok {
			continue
		}
		container := p.Container
		if container == "" {
			container = "auto"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t~%d%%\n",
			p.ID, p.Name, p.Category, codecdb.VideoName(p.VideoCodec), p.VideoCRF, p.VideoPreset,
			codecdb.AudioName(p.AudioCodec), container, int(p.TargetEfficiency*100))
	}
	return tw.Flush()
}

func newConfigCmd(a *app) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if save != "" {
				if err := config.SaveConfigFile(a.cfg, save); err != nil {
					return err
				}
				successStyle.Fprintf(a.errOut, "✓ Saved configuration to %s\n", save)
				return nil
			}
			return a.cfg.WriteYAML(a.out)
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Write the effective configuration to this file instead of printing it")
	return cmd
}
