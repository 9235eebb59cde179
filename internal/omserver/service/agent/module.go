package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Orchestrator kinds.
const (
	KindCommand = "command"
	KindMCP     = "mcp"
	KindEcho    = "echo"
)

// Config configures the agent module.
type Config struct {
	Kind string

	Command CommandConfig

	// MCPConfigFile, MCPServer and MCPTool select the upstream agent.
	MCPConfigFile string
	MCPServer     string
	MCPTool       string
}

// CompletedConfig is the completed configuration for agent.
type CompletedConfig struct {
	*Config
}

// Complete fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.Kind == "" {
		c.Kind = KindEcho
	}
	if c.MCPTool == "" {
		c.MCPTool = "run"
	}
	return CompletedConfig{c}
}

// Module owns the orchestrator used by the task supervisor.
type Module struct {
	Orchestrator Orchestrator
}

// New builds the configured orchestrator.
func (c CompletedConfig) New(ctx context.Context) (*Module, error) {
	var (
		orch Orchestrator
		err  error
	)
	switch c.Kind {
	case KindEcho:
		orch = EchoOrchestrator{}
	case KindCommand:
		orch, err = NewCommandOrchestrator(c.Command)
	case KindMCP:
		orch, err = c.newUpstream()
	default:
		err = fmt.Errorf("unknown orchestrator %q", c.Kind)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("[Agent] module initialized (orchestrator=%s)", c.Kind)
	return &Module{Orchestrator: orch}, nil
}

func (c CompletedConfig) newUpstream() (Orchestrator, error) {
	cfg, err := LoadMCPConfig(c.MCPConfigFile)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	name, srv, err := cfg.Server(c.MCPServer)
	if err != nil {
		return nil, err
	}
	return NewMCPOrchestrator(name, srv, c.MCPTool)
}
