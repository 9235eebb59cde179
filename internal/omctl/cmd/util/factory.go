package util

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/spf13/viper"
)

// Config keys shared by every omctl command.
const (
	FlagServer      = "server"
	FlagMCPEndpoint = "mcp-endpoint"
	FlagTimeout     = "request-timeout"
)

// Factory provides the clients omctl commands work with.
type Factory interface {
	APIClient() *APIClient
	MCPClient(ctx context.Context) (*client.Client, error)
}

type defaultFactory struct{}

// NewDefaultFactory reads the server location from viper, so flags, the
// environment and the config file all apply.
func NewDefaultFactory() Factory {
	return &defaultFactory{}
}

func (f *defaultFactory) APIClient() *APIClient {
	return NewAPIClient(viper.GetString(FlagServer), viper.GetDuration(FlagTimeout))
}

func (f *defaultFactory) MCPClient(ctx context.Context) (*client.Client, error) {
	return DialMCP(ctx, viper.GetString(FlagServer)+viper.GetString(FlagMCPEndpoint))
}

// TestFactory is a Factory bound to fixed addresses.
type TestFactory struct {
	Server      string
	MCPEndpoint string
	Timeout     time.Duration
}

func (f *TestFactory) APIClient() *APIClient {
	return NewAPIClient(f.Server, f.Timeout)
}

func (f *TestFactory) MCPClient(ctx context.Context) (*client.Client, error) {
	return DialMCP(ctx, f.Server+f.MCPEndpoint)
}
