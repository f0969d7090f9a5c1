// Package commands implements the CLI commands for the grit target runner.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/grit/internal/app"
	"go.trai.ch/grit/internal/build"
)

// CLI represents the command line interface for grit.
type CLI struct {
	app     Application
	setJSON func(bool)
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, targetNames []string, opts app.RunOptions) error
	List(ctx context.Context, w io.Writer, opts app.ListOptions) error
}

// Option configures the CLI.
type Option func(*CLI)

// WithJSONLogs registers the hook invoked when --json is set.
func WithJSONLogs(fn func(bool)) Option {
	return func(c *CLI) {
		c.setJSON = fn
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	c := &CLI{app: a}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd := &cobra.Command{
		Use:   "grit [targets...]",
		Short: "Build and maintain a wasm-pack web package",
		Long: "grit runs named build targets in prerequisite order.\n" +
			"Without arguments it runs the default target.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if jsonLogs, _ := cmd.Flags().GetBool("json"); jsonLogs && c.setJSON != nil {
				c.setJSON(true)
			}
		},
		RunE: c.runTargets,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("directory", "C", ".", "Project root directory")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Config file (default: <directory>/grit.yaml, else built-in targets)")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	addRunFlags(rootCmd)

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// projectFlags reads the persistent project selection flags.
func projectFlags(cmd *cobra.Command) (root, configPath string) {
	root, _ = cmd.Flags().GetString("directory")
	configPath, _ = cmd.Flags().GetString("file")
	return root, configPath
}
