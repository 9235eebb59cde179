package agent

import (
	"fmt"
	"os"
	"sort"

	"github.com/xAGI-labs/ProjectOM/pkg/utils/json"
)

// Upstream transports.
const (
	UpstreamStdio = "stdio"
	UpstreamSSE   = "sse"
	UpstreamHTTP  = "http"
)

// MCPConfig lists upstream MCP agents.
// Compatible with Claude Desktop / VS Code MCP config format.
//
// File format (mcp.json):
//
//	{
//	  "mcpServers": {
//	    "openmanus": {
//	      "transport": "stdio",
//	      "command": "python",
//	      "args": ["run_mcp_server.py"]
//	    }
//	  }
//	}
type MCPConfig struct {
	MCPServers map[string]*ServerConfig `json:"mcpServers"`
}

// ServerConfig defines one upstream MCP server.
type ServerConfig struct {
	// Transport is stdio, sse or http. Default: stdio.
	Transport string `json:"transport,omitempty"`

	// Command, Args and Env launch a stdio server.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
	Env     []string `json:"env,omitempty"`

	// URL is the sse or http endpoint.
	URL string `json:"url,omitempty"`
}

// LoadMCPConfig loads the MCP configuration from a JSON file.
// If the file does not exist, returns an empty config (no error).
func LoadMCPConfig(path string) (*MCPConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMCPConfig(), nil
		}
		return nil, fmt.Errorf("failed to read MCP config file %q: %w", path, err)
	}

	cfg := &MCPConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse MCP config file %q: %w", path, err)
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]*ServerConfig)
	}
	return cfg, nil
}

// NewMCPConfig creates an empty MCP configuration.
func NewMCPConfig() *MCPConfig {
	return &MCPConfig{
		MCPServers: make(map[string]*ServerConfig),
	}
}

// Validate checks the MCP configuration for obvious errors.
func (c *MCPConfig) Validate() []error {
	var errs []error
	for _, name := range c.names() {
		srv := c.MCPServers[name]
		if srv.Transport == "" {
			srv.Transport = UpstreamStdio
		}
		switch srv.Transport {
		case UpstreamStdio:
			if srv.Command == "" {
				errs = append(errs, fmt.Errorf("mcpServers.%s: command is required for stdio transport", name))
			}
		case UpstreamSSE, UpstreamHTTP:
			if srv.URL == "" {
				errs = append(errs, fmt.Errorf("mcpServers.%s: url is required for %s transport", name, srv.Transport))
			}
		default:
			errs = append(errs, fmt.Errorf("mcpServers.%s: unsupported transport %q (must be 'stdio', 'sse' or 'http')", name, srv.Transport))
		}
	}
	return errs
}

// Server picks a server by name. An empty name selects the only configured
// server.
func (c *MCPConfig) Server(name string) (string, *ServerConfig, error) {
	if name == "" {
		if len(c.MCPServers) != 1 {
			return "", nil, fmt.Errorf("%d upstream MCP servers configured, pick one by name", len(c.MCPServers))
		}
		name = c.names()[0]
	}
	srv, ok := c.MCPServers[name]
	if !ok {
		return "", nil, fmt.Errorf("upstream MCP server %q is not configured", name)
	}
	return name, srv, nil
}

func (c *MCPConfig) names() []string {
	names := make([]string, 0, len(c.MCPServers))
	for name := range c.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
