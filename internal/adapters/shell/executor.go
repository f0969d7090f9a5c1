// Package shell provides the process executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ExitNotFound is the exit status reported for commands that cannot be started.
const ExitNotFound = 127

// Executor implements ports.Executor using os/exec.
type Executor struct {
	environ func() []string
}

// NewExecutor creates a new Executor that inherits the process environment.
func NewExecutor() *Executor {
	return &Executor{
		environ: os.Environ,
	}
}

// Execute runs the command and waits for it to exit.
// The environment is the process environment with cmd.Env applied on top;
// a PATH in cmd.Env is prepended to the inherited PATH.
func (e *Executor) Execute(
	ctx context.Context,
	root string,
	cmd domain.Command,
	stdout, stderr io.Writer,
) (domain.CommandResult, error) {
	if cmd.Kind != domain.CommandExec {
		return domain.CommandResult{ExitStatus: 1}, zerr.With(zerr.Wrap(domain.ErrInvalidStep, "cannot execute step"), "kind", cmd.Kind.String())
	}
	if cmd.Program == "" {
		return domain.CommandResult{ExitStatus: ExitNotFound}, zerr.Wrap(domain.ErrEmptyCommand, "failed to start command")
	}

	dir, err := domain.ResolvePath(root, cmd.Dir)
	if err != nil {
		return domain.CommandResult{ExitStatus: 1}, err
	}

	cmdEnv := resolveEnvironment(e.environ(), cmd.Env)

	// Resolve the executable against the child's PATH, not ours.
	executable := cmd.Program
	if !filepath.IsAbs(executable) && !strings.ContainsRune(executable, filepath.Separator) {
		if lp, lookErr := lookPath(executable, cmdEnv); lookErr == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // configured command
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Program
	}
	c.Dir = dir
	c.Env = cmdEnv
	// Cancellation kills the whole process group so grandchildren holding the
	// output pipes (cargo under wasm-pack) cannot keep the pumps open.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error { return killGroup(c.Process) }

	outPipe, err := c.StdoutPipe()
	if err != nil {
		return startFailed(err, cmd)
	}
	errPipe, err := c.StderrPipe()
	if err != nil {
		return startFailed(err, cmd)
	}

	if err := c.Start(); err != nil {
		return startFailed(err, cmd)
	}

	// Both pumps may target the same writer.
	var mu sync.Mutex
	var g errgroup.Group
	g.Go(func() error { return pump(&mu, stdout, outPipe) })
	g.Go(func() error { return pump(&mu, stderr, errPipe) })
	pumpErr := g.Wait()

	if err := c.Wait(); err != nil {
		status := exitStatus(err)
		return domain.CommandResult{ExitStatus: status},
			zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "exit_code", status), "command", cmd.String())
	}
	if pumpErr != nil {
		return domain.CommandResult{}, zerr.Wrap(pumpErr, "failed to forward command output")
	}

	return domain.CommandResult{}, nil
}

// killGroup sends SIGKILL to the process group led by p.
func killGroup(p *os.Process) error {
	err := syscall.Kill(-p.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}

func startFailed(err error, cmd domain.Command) (domain.CommandResult, error) {
	wrapped := zerr.Wrap(err, "failed to start command")
	wrapped = zerr.With(wrapped, "exit_code", ExitNotFound)
	return domain.CommandResult{ExitStatus: ExitNotFound}, zerr.With(wrapped, "command", cmd.String())
}

// exitStatus maps a Wait error to a shell-style exit status.
// A child killed by a signal reports 128 plus the signal number.
func exitStatus(err error) int {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// pump copies r to w until EOF. A nil w discards the output.
func pump(mu *sync.Mutex, w io.Writer, r io.Reader) error {
	if w == nil {
		w = io.Discard
	}
	_, err := io.Copy(lockedWriter{mu: mu, w: w}, r)
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

// resolveEnvironment merges the command's variables over the inherited environment.
func resolveEnvironment(sysEnv []string, cmdEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(cmdEnv))
	order := make([]string, 0, len(sysEnv)+len(cmdEnv))
	set := func(k, v string) {
		if _, exists := envMap[k]; !exists {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			set(k, v)
		}
	}

	for k, v := range cmdEnv {
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		set(k, v)
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
