package domain

import (
	"slices"
	"strings"
)

// CommandKind distinguishes the actions a target body can perform.
type CommandKind uint8

const (
	// CommandExec runs an external program and waits for it to exit.
	CommandExec CommandKind = iota
	// CommandRemove removes a path recursively if it exists.
	CommandRemove
)

// String returns the name used for the kind in configuration and logs.
func (k CommandKind) String() string {
	switch k {
	case CommandExec:
		return "cmd"
	case CommandRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Command is a single step of a target body.
// Paths in Dir and Path are relative to the project root.
type Command struct {
	Kind    CommandKind
	Program string
	Args    []string
	Dir     string
	Path    string
	// Env holds variables set for the child on top of the inherited environment.
	// A PATH entry is prepended to the inherited PATH.
	Env map[string]string
}

// Exec returns a command that runs program with args in the project root.
func Exec(program string, args ...string) Command {
	return Command{Kind: CommandExec, Program: program, Args: args}
}

// Remove returns a command that removes path if it exists.
func Remove(path string) Command {
	return Command{Kind: CommandRemove, Path: path}
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Program)
	return append(argv, c.Args...)
}

// String renders the command the way a shell user would type it.
func (c Command) String() string {
	switch c.Kind {
	case CommandRemove:
		return "rm -rf " + quote(c.Path)
	case CommandExec:
		parts := make([]string, 0, len(c.Args)+1)
		for _, a := range c.Argv() {
			parts = append(parts, quote(a))
		}
		s := strings.Join(parts, " ")
		if len(c.Env) > 0 {
			keys := make([]string, 0, len(c.Env))
			for k := range c.Env {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			vars := make([]string, 0, len(keys))
			for _, k := range keys {
				vars = append(vars, k+"="+quote(c.Env[k]))
			}
			s = strings.Join(vars, " ") + " " + s
		}
		if c.Dir != "" && c.Dir != "." {
			s = "cd " + quote(c.Dir) + " && " + s
		}
		return s
	default:
		return ""
	}
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Target is a named unit of build work.
type Target struct {
	Name          string
	Description   string
	Prerequisites []string
	Commands      []Command
	// Marker is printed after the commands succeed. Empty means no marker.
	Marker string
}

// CommandResult is the outcome of a single external-command invocation.
type CommandResult struct {
	ExitStatus int
}

// Success reports whether the command exited with status zero.
func (r CommandResult) Success() bool {
	return r.ExitStatus == 0
}
