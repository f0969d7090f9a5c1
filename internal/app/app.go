// Package app implements the application layer for grit.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/grit/internal/adapters/telemetry"
	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/grit/internal/core/ports"
	"go.trai.ch/grit/internal/engine/runner"
	"go.trai.ch/grit/internal/ui/output"
	"go.trai.ch/grit/internal/ui/style"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	fs           ports.Filesystem
	tracer       ports.Tracer
	logger       ports.Logger
	stdout       io.Writer
	stderr       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	fs ports.Filesystem,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		fs:           fs,
		tracer:       tracer,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects command output and markers.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Root is the project directory. Empty means the working directory.
	Root string
	// ConfigPath overrides the config file location.
	ConfigPath string
	DryRun     bool
	// Timings prints a per-target duration summary to stderr.
	Timings bool
}

// Run executes the specified targets, or the default target when none are given.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	// 1. Load the table
	root, table, err := a.load(opts.Root, opts.ConfigPath)
	if err != nil {
		return err
	}

	// 2. Initialize Telemetry
	tracer := a.tracer
	var recorder *telemetry.TimingRecorder
	if opts.Timings {
		var tp *sdktrace.TracerProvider
		recorder, tp = setupOTel()
		defer func() {
			_ = tp.Shutdown(context.WithoutCancel(ctx))
		}()
		tracer = telemetry.NewOTelTracerWithProvider(tp, telemetry.InstrumentationName)
	}

	if opts.DryRun {
		a.logger.Info("dry run: commands are printed, not executed")
	}

	// 3. Run the targets
	r := runner.NewRunner(a.executor, a.fs, tracer)
	err = r.Run(ctx, table, runner.Options{
		Root:    root,
		Targets: targetNames,
		DryRun:  opts.DryRun,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
	})

	if recorder != nil {
		if werr := recorder.WriteSummary(a.stderr); werr != nil && err == nil {
			err = werr
		}
	}

	if errors.Is(err, domain.ErrCommandFailed) {
		if skipped := notRun(table, r.Statuses()); len(skipped) > 0 {
			a.logger.Warn("not run after failure: " + strings.Join(skipped, ", "))
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, domain.ErrUnknownTarget),
		errors.Is(err, domain.ErrCyclicDependency),
		errors.Is(err, domain.ErrNoDefaultTarget):
		return err
	default:
		return errors.Join(domain.ErrBuildFailed, err)
	}
}

// ListOptions configuration for the List method.
type ListOptions struct {
	Root       string
	ConfigPath string
}

// List writes the target table to w in declaration order.
// The default target is marked with "*".
func (a *App) List(_ context.Context, w io.Writer, opts ListOptions) error {
	_, table, err := a.load(opts.Root, opts.ConfigPath)
	if err != nil {
		return err
	}

	width := 0
	for t := range table.Targets() {
		width = max(width, len(t.Name))
	}

	out := output.New(w)
	def := table.Default()
	for t := range table.Targets() {
		mark := " "
		if t.Name == def {
			mark = output.Paint(out, "*", style.Iris)
		}

		line := fmt.Sprintf("%s %-*s  %s", mark, width, t.Name, t.Description)
		if len(t.Prerequisites) > 0 {
			deps := "(" + strings.Join(t.Prerequisites, ", ") + ")"
			line += " " + output.Paint(out, deps, style.Slate)
		}
		if _, err := fmt.Fprintln(out, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) load(root, configPath string) (string, *domain.Table, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", nil, zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "root", root)
	}

	table, err := a.configLoader.Load(abs, configPath)
	if err != nil {
		return "", nil, errors.Join(domain.ErrConfigLoadFailed, err)
	}
	return abs, table, nil
}

// notRun lists, in declaration order, the planned targets that never started.
func notRun(table *domain.Table, statuses map[string]domain.TargetStatus) []string {
	var names []string
	for t := range table.Targets() {
		if statuses[t.Name] == domain.StatusPending {
			names = append(names, t.Name)
		}
	}
	return names
}

// setupOTel creates a TracerProvider that feeds ended target spans to a timing recorder.
func setupOTel() (*telemetry.TimingRecorder, *sdktrace.TracerProvider) {
	recorder := telemetry.NewTimingRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(recorder),
	)
	return recorder, tp
}
