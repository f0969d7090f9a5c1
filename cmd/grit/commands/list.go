package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/grit/internal/app"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the declared targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, configPath := projectFlags(cmd)
			return c.app.List(cmd.Context(), cmd.OutOrStdout(), app.ListOptions{
				Root:       root,
				ConfigPath: configPath,
			})
		},
	}
}
