package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Orchestrator kinds.
const (
	AgentCommand = "command"
	AgentMCP     = "mcp"
	AgentEcho    = "echo"
)

// AgentOptions selects and configures the orchestrator that runs submitted prompts.
type AgentOptions struct {
	// Type is command, mcp or echo.
	Type string `json:"type" mapstructure:"type"`
	// Command is the agent command line, e.g. ["python", "main.py", "--prompt", "{{prompt}}"].
	// Without a {{prompt}} argument the prompt is written to stdin.
	Command []string `json:"command" mapstructure:"command"`
	// WorkDir is the working directory of the agent command.
	WorkDir string `json:"workdir" mapstructure:"workdir"`
	// MCPConfigFile is a Claude Desktop style mcp.json describing upstream agents.
	MCPConfigFile string `json:"mcp-config-file" mapstructure:"mcp-config-file"`
	// MCPServer picks the upstream server from MCPConfigFile.
	MCPServer string `json:"mcp-server" mapstructure:"mcp-server"`
	// MCPTool is the upstream tool that receives {"prompt": ...}.
	MCPTool string `json:"mcp-tool" mapstructure:"mcp-tool"`
}

// NewAgentOptions creates a default AgentOptions instance.
func NewAgentOptions() *AgentOptions {
	return &AgentOptions{
		Type:          AgentEcho,
		MCPConfigFile: "conf/mcp.json",
		MCPTool:       "run",
	}
}

// Validate checks the AgentOptions for correctness.
func (o *AgentOptions) Validate() []error {
	var errs []error
	switch o.Type {
	case AgentEcho:
	case AgentCommand:
		if len(o.Command) == 0 {
			errs = append(errs, fmt.Errorf("--agent.command is required when --agent.type=command"))
		}
	case AgentMCP:
		if o.MCPConfigFile == "" {
			errs = append(errs, fmt.Errorf("--agent.mcp-config-file is required when --agent.type=mcp"))
		}
		if o.MCPTool == "" {
			errs = append(errs, fmt.Errorf("--agent.mcp-tool is required when --agent.type=mcp"))
		}
	default:
		errs = append(errs, fmt.Errorf("--agent.type must be one of command, mcp or echo, got %q", o.Type))
	}
	return errs
}

// AddFlags adds the AgentOptions flags to the given flag set.
func (o *AgentOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Type, "agent.type", o.Type, "Orchestrator running submitted prompts: command, mcp or echo.")
	fs.StringSliceVar(&o.Command, "agent.command", o.Command, "Agent command line, {{prompt}} is replaced by the prompt.")
	fs.StringVar(&o.WorkDir, "agent.workdir", o.WorkDir, "Working directory of the agent command.")
	fs.StringVar(&o.MCPConfigFile, "agent.mcp-config-file", o.MCPConfigFile, "Path to the MCP configuration file describing upstream agents.")
	fs.StringVar(&o.MCPServer, "agent.mcp-server", o.MCPServer, "Upstream server name, the only configured one when empty.")
	fs.StringVar(&o.MCPTool, "agent.mcp-tool", o.MCPTool, "Upstream tool called with the prompt.")
}
