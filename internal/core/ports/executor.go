// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/grit/internal/core/domain"
)

// Executor defines the interface for running external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd with root as the base working directory and waits for it to exit.
	//
	// The child's output is streamed to stdout and stderr as it is produced.
	// A non-zero exit is reported both in the result and as an error carrying
	// the "exit_code" metadata. A command that cannot be started reports exit
	// status 127.
	Execute(ctx context.Context, root string, cmd domain.Command, stdout, stderr io.Writer) (domain.CommandResult, error)
}
