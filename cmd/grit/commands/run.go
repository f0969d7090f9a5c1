package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/grit/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run targets, including ones named like a subcommand",
		Args:  cobra.ArbitraryArgs,
		RunE:  c.runTargets,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("dry-run", "n", false, "Print commands without executing them")
	cmd.Flags().Bool("timings", false, "Print a per-target timing summary")
}

func (c *CLI) runTargets(cmd *cobra.Command, args []string) error {
	root, configPath := projectFlags(cmd)
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timings, _ := cmd.Flags().GetBool("timings")
	return c.app.Run(cmd.Context(), args, app.RunOptions{
		Root:       root,
		ConfigPath: configPath,
		DryRun:     dryRun,
		Timings:    timings,
	})
}
