package builtin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
)

const (
	BashToolName = "bash"

	defaultBashTimeout    = 120 * time.Second
	defaultMaxOutputBytes = 64 * 1024
)

// BashConfig configures the bash tool.
type BashConfig struct {
	WorkDir        string
	Timeout        time.Duration
	MaxOutputBytes int
}

// Bash runs one shell command per call in a fresh bash process.
type Bash struct {
	cfg BashConfig
}

// NewBash creates the bash tool.
func NewBash(cfg BashConfig) *Bash {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultBashTimeout
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = defaultMaxOutputBytes
	}
	return &Bash{cfg: cfg}
}

func (b *Bash) Descriptor() tools.Descriptor {
	return tools.Descriptor{
		Name: BashToolName,
		Description: "Execute a bash command in the terminal.\n" +
			"* Long running commands are killed after the configured timeout.\n" +
			"* Use pipes and redirects as in an interactive shell.",
		Parameters: []tools.Parameter{
			{
				Name:        "command",
				Type:        tools.TypeString,
				Description: "The bash command to execute.",
				Required:    true,
			},
		},
	}
}

// Execute runs the command. A non-zero exit is reported in the result, not
// as an error, so the caller still sees the output.
func (b *Bash) Execute(ctx context.Context, args map[string]any) (any, error) {
	command, err := tools.RequireString(args, "command")
	if err != nil {
		return nil, err
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, fmt.Errorf("%w: command is empty", tools.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	// background children may keep the pipes open after bash is killed
	cmd.WaitDelay = time.Second
	if b.cfg.WorkDir != "" {
		dir, absErr := filepath.Abs(b.cfg.WorkDir)
		if absErr != nil {
			dir = b.cfg.WorkDir
		}
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	switch err := ctx.Err(); {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("bash: command timed out after %s: %w", b.cfg.Timeout, err)
	case err != nil:
		return nil, fmt.Errorf("bash: command cancelled: %w", err)
	}

	res := &tools.Result{
		Output: b.clipOutput(stdout.String()),
		Error:  b.clipOutput(stderr.String()),
	}
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		res.System = fmt.Sprintf("exit status %d", exitErr.ExitCode())
		if res.Error == "" {
			res.Error = res.System
		}
	default:
		return nil, fmt.Errorf("bash: %w", runErr)
	}
	return res, nil
}

func (b *Bash) clipOutput(s string) string {
	return truncate(strings.TrimRight(s, "\n"), b.cfg.MaxOutputBytes, "\n... (output truncated)")
}
