// Package runner executes planned targets one command at a time.
package runner

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/grit/internal/core/ports"
)

// Options configures a single invocation.
type Options struct {
	// Root is the absolute project root. Command paths are resolved against it.
	Root string
	// Targets are the requested target names. Empty selects the table default.
	Targets []string
	// DryRun prints commands instead of executing them.
	DryRun bool
	// Stdout receives completion markers, dry-run output and child stdout.
	Stdout io.Writer
	// Stderr receives child stderr.
	Stderr io.Writer
}

// Runner manages the execution of targets from a table.
type Runner struct {
	executor ports.Executor
	fs       ports.Filesystem
	tracer   ports.Tracer

	mu     sync.RWMutex
	status map[string]domain.TargetStatus
}

// NewRunner creates a new Runner with the given dependencies.
func NewRunner(executor ports.Executor, fs ports.Filesystem, tracer ports.Tracer) *Runner {
	return &Runner{
		executor: executor,
		fs:       fs,
		tracer:   tracer,
		status:   make(map[string]domain.TargetStatus),
	}
}

// Run plans the requested targets and executes them sequentially,
// prerequisites first. The first failing command stops the invocation.
func (r *Runner) Run(ctx context.Context, table *domain.Table, opts Options) error {
	names := opts.Targets
	if len(names) == 0 {
		def := table.Default()
		if def == "" {
			return domain.ErrNoDefaultTarget
		}
		names = []string{def}
	}

	plan, err := table.Plan(names...)
	if err != nil {
		return err
	}

	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	planned := make([]string, 0, len(plan))
	for _, t := range plan {
		planned = append(planned, t.Name)
	}
	r.initStatuses(planned)

	ctx, span := r.tracer.Start(ctx, "run", ports.WithAttribute("dry_run", opts.DryRun))
	defer span.End()
	r.tracer.EmitPlan(ctx, planned)

	for i := range plan {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return err
		}
		if err := r.runTarget(ctx, &plan[i], opts); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return nil
}

// Statuses returns a copy of the status map of the most recent invocation.
func (r *Runner) Statuses() map[string]domain.TargetStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]domain.TargetStatus, len(r.status))
	for k, v := range r.status {
		out[k] = v
	}
	return out
}

func (r *Runner) initStatuses(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = make(map[string]domain.TargetStatus, len(names))
	for _, name := range names {
		r.status[name] = domain.StatusPending
	}
}

func (r *Runner) updateStatus(name string, status domain.TargetStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[name] = status
}

func (r *Runner) runTarget(ctx context.Context, t *domain.Target, opts Options) error {
	ctx, span := r.tracer.Start(ctx, "target "+t.Name,
		ports.WithAttribute(ports.AttrTarget, t.Name))
	defer span.End()
	span.SetAttribute(ports.AttrPrerequisites, t.Prerequisites)

	r.updateStatus(t.Name, domain.StatusRunning)

	for i, cmd := range t.Commands {
		if err := r.runCommand(ctx, t, i, cmd, opts); err != nil {
			r.updateStatus(t.Name, domain.StatusFailed)
			span.SetAttribute(ports.AttrStatus, string(domain.StatusFailed))
			span.RecordError(err)
			return err
		}
	}

	if opts.DryRun {
		r.updateStatus(t.Name, domain.StatusSkipped)
		span.SetAttribute(ports.AttrStatus, string(domain.StatusSkipped))
		return nil
	}

	r.updateStatus(t.Name, domain.StatusCompleted)
	span.SetAttribute(ports.AttrStatus, string(domain.StatusCompleted))

	if t.Marker != "" {
		if _, err := fmt.Fprintln(opts.Stdout, t.Marker); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runCommand(ctx context.Context, t *domain.Target, index int, cmd domain.Command, opts Options) error {
	fail := func(status int, err error) error {
		if status <= 0 {
			status = 1
		}
		return &domain.CommandFailedError{
			Target:     t.Name,
			Index:      index,
			ExitStatus: status,
			Command:    cmd.String(),
			Err:        err,
		}
	}

	switch cmd.Kind {
	case domain.CommandRemove:
		path, err := domain.ResolvePath(opts.Root, cmd.Path)
		if err != nil {
			return fail(1, err)
		}
		exists, err := r.fs.Exists(path)
		if err != nil {
			return fail(1, err)
		}
		if !exists {
			return nil
		}
		if opts.DryRun {
			_, err := fmt.Fprintf(opts.Stdout, "+ %s\n", cmd)
			return err
		}
		if err := r.fs.RemoveAll(path); err != nil {
			return fail(1, err)
		}
		return nil

	case domain.CommandExec:
		if opts.DryRun {
			_, err := fmt.Fprintf(opts.Stdout, "+ %s\n", cmd)
			return err
		}
		res, err := r.executor.Execute(ctx, opts.Root, cmd, opts.Stdout, opts.Stderr)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil || !res.Success() {
			return fail(res.ExitStatus, err)
		}
		return nil

	default:
		return fail(1, domain.ErrInvalidStep)
	}
}
