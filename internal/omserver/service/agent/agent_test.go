package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buffer is a goroutine safe writer.
type buffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func TestEchoOrchestrator(t *testing.T) {
	var out buffer
	got, err := EchoOrchestrator{}.Run(context.Background(), "hello", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, "Processing prompt: hello\n", out.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = EchoOrchestrator{}.Run(ctx, "hello", &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommandOrchestratorSubstitutesPrompt(t *testing.T) {
	o, err := NewCommandOrchestrator(CommandConfig{
		Command: []string{"sh", "-c", "echo step: {{prompt}}; echo warn >&2"},
	})
	require.NoError(t, err)

	var out buffer
	_, err = o.Run(context.Background(), "build it", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "step: build it\n")
	assert.Contains(t, out.String(), "warn\n")
}

func TestCommandOrchestratorStdin(t *testing.T) {
	dir := t.TempDir()
	o, err := NewCommandOrchestrator(CommandConfig{
		Command: []string{"sh", "-c", "read line; echo got $line; pwd"},
		WorkDir: dir,
	})
	require.NoError(t, err)

	var out buffer
	_, err = o.Run(context.Background(), "from stdin", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "got from stdin")
	assert.Contains(t, out.String(), filepath.Base(dir))
}

func TestCommandOrchestratorFailure(t *testing.T) {
	o, err := NewCommandOrchestrator(CommandConfig{Command: []string{"sh", "-c", "echo partial; exit 3"}})
	require.NoError(t, err)

	var out buffer
	_, err = o.Run(context.Background(), "x", &out)
	assert.EqualError(t, err, "agent command exited with status 3")
	assert.Equal(t, "partial\n", out.String())

	_, err = NewCommandOrchestrator(CommandConfig{})
	assert.Error(t, err)
}

func TestCommandOrchestratorCancel(t *testing.T) {
	o, err := NewCommandOrchestrator(CommandConfig{Command: []string{"sleep", "10"}})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = o.Run(ctx, "x", &buffer{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func upstream(t *testing.T, handler server.ToolHandlerFunc) DialFunc {
	t.Helper()
	s := server.NewMCPServer("upstream", "0.0.1", server.WithToolCapabilities(true))
	s.AddTool(mcp.NewTool("run", mcp.WithString("prompt", mcp.Required())), handler)
	return func(context.Context) (*client.Client, error) {
		return client.NewInProcessClient(s)
	}
}

func TestMCPOrchestrator(t *testing.T) {
	var seen string
	dial := upstream(t, func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		seen, _ = req.GetArguments()["prompt"].(string)
		return mcp.NewToolResultText("done: " + seen), nil
	})
	o := NewMCPOrchestratorWithDialer("upstream", "run", dial)

	got, err := o.Run(context.Background(), "plan a trip", &buffer{})
	require.NoError(t, err)
	assert.Equal(t, "plan a trip", seen)
	assert.Equal(t, "done: plan a trip", got)
}

func TestMCPOrchestratorToolError(t *testing.T) {
	dial := upstream(t, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("agent gave up"), nil
	})
	o := NewMCPOrchestratorWithDialer("upstream", "run", dial)

	_, err := o.Run(context.Background(), "x", &buffer{})
	assert.EqualError(t, err, "agent gave up")

	o = NewMCPOrchestratorWithDialer("upstream", "missing", dial)
	_, err = o.Run(context.Background(), "x", &buffer{})
	assert.Error(t, err)

	o = NewMCPOrchestratorWithDialer("upstream", "run", func(context.Context) (*client.Client, error) {
		return nil, errors.New("refused")
	})
	_, err = o.Run(context.Background(), "x", &buffer{})
	assert.ErrorContains(t, err, "refused")
}

func notification(method string, fields map[string]any) mcp.JSONRPCNotification {
	n := mcp.JSONRPCNotification{JSONRPC: mcp.JSONRPC_VERSION}
	n.Method = method
	n.Params.AdditionalFields = fields
	return n
}

func TestWriteNotification(t *testing.T) {
	var out buffer
	writeNotification(&out, notification(methodProgress, map[string]any{"progress": 1, "total": 3}))
	writeNotification(&out, notification(methodProgress, map[string]any{"progress": 2, "message": "thinking"}))
	writeNotification(&out, notification(methodProgress, map[string]any{"progress": 3}))
	writeNotification(&out, notification(methodMessage, map[string]any{"level": "info", "data": "Step 1"}))
	writeNotification(&out, notification(methodMessage, map[string]any{"data": map[string]any{"b": 1, "a": 2}}))
	writeNotification(&out, notification(methodMessage, map[string]any{"level": "info"}))
	writeNotification(&out, notification("notifications/tools/list_changed", nil))

	assert.Equal(t, "progress 1/3\nthinking\nprogress 3\nStep 1\n{\"a\":2,\"b\":1}\n", out.String())
}

func TestMCPConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadMCPConfig(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, cfg.MCPServers)
	_, _, err = cfg.Server("")
	assert.Error(t, err)

	path := filepath.Join(dir, "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
	  "mcpServers": {
	    "openmanus": {"command": "python", "args": ["run_mcp_server.py"]},
	    "remote": {"transport": "sse", "url": "http://127.0.0.1:8000/sse"},
	    "broken": {"transport": "ws"}
	  }
	}`), 0o644))

	cfg, err = LoadMCPConfig(path)
	require.NoError(t, err)
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken")
	assert.Equal(t, UpstreamStdio, cfg.MCPServers["openmanus"].Transport)

	name, srv, err := cfg.Server("remote")
	require.NoError(t, err)
	assert.Equal(t, "remote", name)
	assert.Equal(t, "http://127.0.0.1:8000/sse", srv.URL)

	_, _, err = cfg.Server("")
	assert.Error(t, err)
	_, _, err = cfg.Server("nope")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	_, err = LoadMCPConfig(path)
	assert.Error(t, err)
}

func TestModule(t *testing.T) {
	m, err := (&Config{}).Complete().New(context.Background())
	require.NoError(t, err)
	assert.IsType(t, EchoOrchestrator{}, m.Orchestrator)

	m, err = (&Config{Kind: KindCommand, Command: CommandConfig{Command: []string{"true"}}}).Complete().New(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &CommandOrchestrator{}, m.Orchestrator)

	path := filepath.Join(t.TempDir(), "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":{"openmanus":{"command":"python"}}}`), 0o644))
	m, err = (&Config{Kind: KindMCP, MCPConfigFile: path}).Complete().New(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &MCPOrchestrator{}, m.Orchestrator)

	_, err = (&Config{Kind: "llm"}).Complete().New(context.Background())
	assert.Error(t, err)
	_, err = (&Config{Kind: KindCommand}).Complete().New(context.Background())
	assert.Error(t, err)
}
