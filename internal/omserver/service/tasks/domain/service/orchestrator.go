package service

import (
	"context"
	"io"
)

// Orchestrator runs one prompt to completion. Everything it prints goes to
// out, the returned string is its final output.
type Orchestrator interface {
	Run(ctx context.Context, prompt string, out io.Writer) (string, error)
}

// OrchestratorFunc adapts a function to Orchestrator.
type OrchestratorFunc func(ctx context.Context, prompt string, out io.Writer) (string, error)

func (f OrchestratorFunc) Run(ctx context.Context, prompt string, out io.Writer) (string, error) {
	return f(ctx, prompt, out)
}
