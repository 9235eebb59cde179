package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// PromptPlaceholder is replaced by the prompt in command arguments.
const PromptPlaceholder = "{{prompt}}"

// CommandConfig configures a CommandOrchestrator.
type CommandConfig struct {
	// Command is the argv of the agent, Command[0] is the executable.
	Command []string
	WorkDir string
	// Env is appended to the server environment, KEY=VALUE entries.
	Env []string
}

// CommandOrchestrator runs a local agent process per prompt. Both stdout and
// stderr of the process are written to out.
type CommandOrchestrator struct {
	cfg CommandConfig
}

func NewCommandOrchestrator(cfg CommandConfig) (*CommandOrchestrator, error) {
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return nil, errors.New("agent command is empty")
	}
	return &CommandOrchestrator{cfg: cfg}, nil
}

func (o *CommandOrchestrator) Run(ctx context.Context, prompt string, out io.Writer) (string, error) {
	args, substituted := o.argv(prompt)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = o.cfg.WorkDir
	if len(o.cfg.Env) > 0 {
		cmd.Env = append(cmd.Environ(), o.cfg.Env...)
	}
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.WaitDelay = time.Second
	if !substituted {
		cmd.Stdin = strings.NewReader(prompt + "\n")
	}

	logger.Info("[Agent] running %s", args[0])
	err := cmd.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("agent command exited with status %d", exitErr.ExitCode())
		}
		return "", fmt.Errorf("agent command: %w", err)
	}
	return "", nil
}

// argv substitutes the prompt into the configured arguments and reports
// whether any placeholder was found.
func (o *CommandOrchestrator) argv(prompt string) ([]string, bool) {
	args := make([]string, len(o.cfg.Command))
	substituted := false
	for i, a := range o.cfg.Command {
		if strings.Contains(a, PromptPlaceholder) {
			a = strings.ReplaceAll(a, PromptPlaceholder, prompt)
			substituted = true
		}
		args[i] = a
	}
	return args, substituted
}
