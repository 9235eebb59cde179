package tools

import (
	"context"

	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Config configures the tools module.
type Config struct {
	// Tools are registered in order.
	Tools []Tool
}

// CompletedConfig is the completed configuration for the tools module.
type CompletedConfig struct {
	*Config
}

// Complete fills defaults.
func (c *Config) Complete() CompletedConfig {
	return CompletedConfig{c}
}

// Module owns the tool registry.
type Module struct {
	Registry *Registry
}

// New registers every configured tool.
func (c CompletedConfig) New(ctx context.Context) (*Module, error) {
	reg := NewRegistry()
	for _, t := range c.Tools {
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	logger.Info("[Tools] module initialized (%d tools registered)", reg.Len())
	return &Module{Registry: reg}, nil
}

// Close releases resources held by tools. Safe to call more than once.
func (m *Module) Close(ctx context.Context) error {
	if m.Registry == nil {
		return nil
	}
	return m.Registry.CleanupAll(ctx)
}
