package domain

import (
	"fmt"
)

// UnknownTargetError reports a requested target name that is not in the table.
type UnknownTargetError struct {
	Name string
}

func (e *UnknownTargetError) Error() string { return e.Message() }

// Message returns the error message without any cause.
func (e *UnknownTargetError) Message() string {
	return fmt.Sprintf("%s %q", ErrUnknownTarget.Error(), e.Name)
}

// Metadata returns the structured fields of the error.
func (e *UnknownTargetError) Metadata() map[string]any {
	return map[string]any{"target": e.Name}
}

// Is reports whether target is ErrUnknownTarget.
func (e *UnknownTargetError) Is(target error) bool { return target == ErrUnknownTarget }

// CycleError reports a prerequisite cycle.
// Path lists the cycle with the first node repeated at the end.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string { return e.Message() }

// Message returns the error message without any cause.
func (e *CycleError) Message() string {
	return ErrCyclicDependency.Error() + ": " + e.Cycle()
}

// Cycle renders the cycle path as "a -> b -> a".
func (e *CycleError) Cycle() string {
	s := ""
	for i, n := range e.Path {
		if i > 0 {
			s += " -> "
		}
		s += n
	}
	return s
}

// Metadata returns the structured fields of the error.
func (e *CycleError) Metadata() map[string]any {
	return map[string]any{"cycle": e.Cycle()}
}

// Is reports whether target is ErrCyclicDependency.
func (e *CycleError) Is(target error) bool { return target == ErrCyclicDependency }

// CommandFailedError reports the first failing command of an invocation.
// Index is the zero-based position of the command within the target body.
type CommandFailedError struct {
	Target     string
	Index      int
	ExitStatus int
	Command    string
	Err        error
}

func (e *CommandFailedError) Error() string {
	if e.Err != nil {
		return e.Message() + ": " + e.Err.Error()
	}
	return e.Message()
}

// Message returns the error message without any cause.
func (e *CommandFailedError) Message() string {
	return fmt.Sprintf("%s: target %q command #%d exited with status %d",
		ErrCommandFailed.Error(), e.Target, e.Index+1, e.ExitStatus)
}

// Metadata returns the structured fields of the error.
func (e *CommandFailedError) Metadata() map[string]any {
	m := map[string]any{
		"target":    e.Target,
		"index":     e.Index,
		"exit_code": e.ExitStatus,
	}
	if e.Command != "" {
		m["command"] = e.Command
	}
	return m
}

// Unwrap returns the underlying cause, if any.
func (e *CommandFailedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCommandFailed.
func (e *CommandFailedError) Is(target error) bool { return target == ErrCommandFailed }
