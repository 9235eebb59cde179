package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Transports the host can serve on.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
	TransportNone  = "none"
)

// HostConfig configures a Host.
type HostConfig struct {
	Name    string
	Version string
	// Transport is stdio, sse, http or none.
	Transport string
	// EndpointPath is the streamable HTTP endpoint path.
	EndpointPath string
	// SSEAddress and BaseURL configure the standalone SSE server.
	SSEAddress string
	BaseURL    string

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// Host wraps an mcp-go server and keeps every registered operation for
// introspection.
type Host struct {
	cfg HostConfig
	srv *server.MCPServer

	mu    sync.RWMutex
	ops   map[string]*Operation
	order []string

	closed atomic.Bool

	// srvMu guards the transport servers, they are created lazily.
	srvMu   sync.Mutex
	httpSrv *server.StreamableHTTPServer
	sseSrv  *server.SSEServer
}

// NewHost creates a host with no operations.
func NewHost(cfg HostConfig) *Host {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	return &Host{
		cfg: cfg,
		srv: server.NewMCPServer(cfg.Name, cfg.Version,
			server.WithToolCapabilities(true),
			server.WithLogging(),
			server.WithRecovery(),
		),
		ops: make(map[string]*Operation),
	}
}

// Register adds op. A name that is already registered is rejected and the
// existing operation is left untouched.
func (h *Host) Register(op *Operation) error {
	if op == nil || op.Name == "" {
		return fmt.Errorf("%w: operation without a name", ErrInvalidArgument)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ops[op.Name]; ok || h.srv.GetTool(op.Name) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateOperation, op.Name)
	}
	h.ops[op.Name] = op
	h.order = append(h.order, op.Name)
	h.srv.AddTool(op.Tool, h.guard(op.Handler))

	logger.Info("Registered tool: %s", op.Name)
	return nil
}

// guard rejects calls once the host is shut down.
func (h *Host) guard(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if h.closed.Load() {
			return nil, ErrHostClosed
		}
		return next(ctx, req)
	}
}

// Operation returns the operation registered under name.
func (h *Host) Operation(name string) (*Operation, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	op, ok := h.ops[name]
	return op, ok
}

// Operations returns every operation in registration order.
func (h *Host) Operations() []*Operation {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Operation, 0, len(h.order))
	for _, name := range h.order {
		out = append(out, h.ops[name])
	}
	return out
}

// Server exposes the underlying mcp-go server, e.g. for in-process clients.
func (h *Host) Server() *server.MCPServer {
	return h.srv
}

// Transport returns the configured transport.
func (h *Host) Transport() string {
	return h.cfg.Transport
}

// EndpointPath returns the path the streamable HTTP handler expects.
func (h *Host) EndpointPath() string {
	return h.cfg.EndpointPath
}

// Handler returns the streamable HTTP handler, for mounting on an existing
// HTTP server.
func (h *Host) Handler() http.Handler {
	h.srvMu.Lock()
	defer h.srvMu.Unlock()
	if h.httpSrv == nil {
		h.httpSrv = server.NewStreamableHTTPServer(h.srv,
			server.WithEndpointPath(h.cfg.EndpointPath),
		)
	}
	return h.httpSrv
}

// Serve runs the stdio or sse transport until ctx is done. For http the
// handler is served by the API server, and Serve only waits for ctx.
func (h *Host) Serve(ctx context.Context) error {
	switch h.cfg.Transport {
	case TransportStdio:
		logger.Info("[MCP] serving %d tools on stdio", len(h.Operations()))
		err := server.NewStdioServer(h.srv).Listen(ctx, h.cfg.Stdin, h.cfg.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case TransportSSE:
		return h.serveSSE(ctx)
	case TransportHTTP, TransportNone:
		<-ctx.Done()
		return nil
	default:
		return fmt.Errorf("unsupported transport %q", h.cfg.Transport)
	}
}

func (h *Host) serveSSE(ctx context.Context) error {
	var opts []server.SSEOption
	if h.cfg.BaseURL != "" {
		opts = append(opts, server.WithBaseURL(h.cfg.BaseURL))
	}
	sse := server.NewSSEServer(h.srv, opts...)

	h.srvMu.Lock()
	h.sseSrv = sse
	h.srvMu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[MCP] serving %d tools on sse at %s", len(h.Operations()), h.cfg.SSEAddress)
		errCh <- sse.Start(h.cfg.SSEAddress)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return nil
	}
}

// Shutdown stops accepting tool calls and closes transports. Calls after
// Shutdown fail with ErrHostClosed.
func (h *Host) Shutdown(ctx context.Context) error {
	if h.closed.Swap(true) {
		return nil
	}

	h.srvMu.Lock()
	sseSrv, httpSrv := h.sseSrv, h.httpSrv
	h.srvMu.Unlock()

	var errs []error
	if sseSrv != nil {
		errs = append(errs, sseSrv.Shutdown(ctx))
	}
	if httpSrv != nil {
		errs = append(errs, httpSrv.Shutdown(ctx))
	}

	logger.Info("[MCP] host shut down")
	return errors.Join(errs...)
}
