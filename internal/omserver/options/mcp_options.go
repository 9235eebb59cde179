package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// MCP transports the protocol host can serve.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
	TransportNone  = "none"
)

// MCPOptions holds options for the MCP (Model Context Protocol) host that
// exposes the registered tools.
type MCPOptions struct {
	// Transport is one of stdio, sse, http or none. Default: http.
	Transport string `json:"transport"     mapstructure:"transport"`
	// Name is the server name announced during initialize.
	Name string `json:"name"          mapstructure:"name"`
	// EndpointPath is where the streamable HTTP endpoint is mounted on the API server.
	EndpointPath string `json:"endpoint-path" mapstructure:"endpoint-path"`
	// SSEAddress is the listen address of the standalone SSE server.
	SSEAddress string `json:"sse-address"   mapstructure:"sse-address"`
	// BaseURL is advertised to SSE clients, derived from SSEAddress when empty.
	BaseURL string `json:"base-url"      mapstructure:"base-url"`
}

// NewMCPOptions creates a default MCPOptions instance.
func NewMCPOptions() *MCPOptions {
	return &MCPOptions{
		Transport:    TransportHTTP,
		Name:         "openmanus",
		EndpointPath: "/mcp",
		SSEAddress:   "127.0.0.1:8000",
	}
}

// Complete fills in derived values.
func (o *MCPOptions) Complete() error {
	if o.Transport == TransportSSE && o.BaseURL == "" {
		o.BaseURL = "http://" + o.SSEAddress
	}
	return nil
}

// Validate checks the MCPOptions for correctness.
func (o *MCPOptions) Validate() []error {
	var errs []error
	switch o.Transport {
	case TransportStdio, TransportSSE, TransportHTTP, TransportNone:
	default:
		errs = append(errs, fmt.Errorf("--mcp.transport must be one of stdio, sse, http or none, got %q", o.Transport))
	}
	if o.Name == "" {
		errs = append(errs, fmt.Errorf("--mcp.name is required"))
	}
	if o.Transport == TransportHTTP && (o.EndpointPath == "" || o.EndpointPath[0] != '/') {
		errs = append(errs, fmt.Errorf("--mcp.endpoint-path must start with '/', got %q", o.EndpointPath))
	}
	if o.Transport == TransportSSE && o.SSEAddress == "" {
		errs = append(errs, fmt.Errorf("--mcp.sse-address is required for the sse transport"))
	}
	return errs
}

// AddFlags adds the MCPOptions flags to the given flag set.
func (o *MCPOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Transport, "mcp.transport", o.Transport, "Transport of the MCP host: stdio, sse, http or none.")
	fs.StringVar(&o.Name, "mcp.name", o.Name, "Server name announced to MCP clients.")
	fs.StringVar(&o.EndpointPath, "mcp.endpoint-path", o.EndpointPath, "Path of the streamable HTTP endpoint when --mcp.transport=http.")
	fs.StringVar(&o.SSEAddress, "mcp.sse-address", o.SSEAddress, "Listen address of the SSE server when --mcp.transport=sse.")
	fs.StringVar(&o.BaseURL, "mcp.base-url", o.BaseURL, "Public base URL advertised to SSE clients.")
}
