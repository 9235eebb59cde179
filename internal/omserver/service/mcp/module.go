package mcp

import (
	"context"
	"fmt"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
	"github.com/xAGI-labs/ProjectOM/pkg/version"
)

// Config configures the MCP host module.
type Config struct {
	Host HostConfig
	// Registry holds the tools to expose.
	Registry *tools.Registry
}

// CompletedConfig is the completed configuration for MCP.
type CompletedConfig struct {
	*Config
}

// Complete validates and fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.Host.Name == "" {
		c.Host.Name = "openmanus"
	}
	if c.Host.Version == "" {
		c.Host.Version = version.Get().GitVersion
	}
	if c.Host.Transport == "" {
		c.Host.Transport = TransportHTTP
	}
	if c.Registry == nil {
		c.Registry = tools.NewRegistry()
	}
	return CompletedConfig{c}
}

// Module is the top-level MCP module.
type Module struct {
	Host *Host
}

// New adapts every registered tool and registers it on a new host.
func (c CompletedConfig) New(ctx context.Context) (*Module, error) {
	host := NewHost(c.Host)
	for _, t := range c.Registry.List() {
		desc := t.Descriptor()
		op, err := Adapt(desc, t)
		if err != nil {
			return nil, fmt.Errorf("adapt tool %q: %w", desc.Name, err)
		}
		if err := host.Register(op); err != nil {
			return nil, err
		}
	}
	logger.Info("[MCP] module initialized (%d operations, transport=%s)", len(host.Operations()), c.Host.Transport)
	return &Module{Host: host}, nil
}

// Close stops the host from accepting new work.
func (m *Module) Close(ctx context.Context) error {
	if m.Host == nil {
		return nil
	}
	return m.Host.Shutdown(ctx)
}
