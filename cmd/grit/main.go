// Package main is the entry point for the grit target runner.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/grit/cmd/grit/commands"
	"go.trai.ch/grit/internal/app"
	"go.trai.ch/grit/internal/core/domain"
	_ "go.trai.ch/grit/internal/wiring"
)

// Exit codes that do not come from a failing command.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
	maxCommandExit  = 125
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return exitFailure
	}
	components.App.WithOutput(stdout, stderr)
	components.SetLogOutput(stderr)

	// 2. Interface - CLI
	cli := commands.New(components.App, commands.WithJSONLogs(components.SetLogJSON))
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 3. Execution
	err = cli.Execute(ctx)
	code := exitCode(err)
	if err != nil && code != exitInterrupted {
		components.Logger.Error(err)
	}
	return code
}

// exitCode maps an invocation error to the process exit status.
func exitCode(err error) int {
	var failed *domain.CommandFailedError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.As(err, &failed):
		return min(max(failed.ExitStatus, exitFailure), maxCommandExit)
	case errors.Is(err, domain.ErrConfigLoadFailed),
		errors.Is(err, domain.ErrUnknownTarget),
		errors.Is(err, domain.ErrCyclicDependency),
		errors.Is(err, domain.ErrNoDefaultTarget):
		return exitUsage
	default:
		return exitFailure
	}
}
