package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emocorpus/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var create bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, datasets, and the extractor before a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if create {
				if err := cfg.EnsureDirectories(); err != nil {
					return err
				}
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if ctx.configPath != "" {
					fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
				}
				for _, r := range results {
					fmt.Fprintln(out, renderStatusLine(r.Name, passKind(r.Passed), r.Detail, colorize))
				}
			}
			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&create, "create-dirs", false, "Create missing output and state directories first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
