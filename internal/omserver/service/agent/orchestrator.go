// Package agent provides the orchestrators that run a submitted prompt:
// a local agent command, an upstream MCP agent, or an echo fallback.
package agent

import (
	"context"
	"fmt"
	"io"
)

// Orchestrator runs one prompt to completion. Everything it prints goes to
// out, the returned string is its final output.
type Orchestrator interface {
	Run(ctx context.Context, prompt string, out io.Writer) (string, error)
}

// EchoOrchestrator writes the prompt back. It is the development default
// when no agent is configured.
type EchoOrchestrator struct{}

func (EchoOrchestrator) Run(ctx context.Context, prompt string, out io.Writer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(out, "Processing prompt: %s\n", prompt); err != nil {
		return "", err
	}
	return prompt, nil
}
