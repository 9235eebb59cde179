package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xAGI-labs/ProjectOM/pkg/logger"
	"github.com/xAGI-labs/ProjectOM/pkg/utils/json"
	"github.com/xAGI-labs/ProjectOM/pkg/version"
)

// Notification methods forwarded to the task output.
const (
	methodProgress = "notifications/progress"
	methodMessage  = "notifications/message"
)

// DialFunc opens an unstarted client to the upstream agent.
type DialFunc func(ctx context.Context) (*client.Client, error)

// MCPOrchestrator hands each prompt to a tool of an upstream MCP agent.
// Every run uses its own connection, so notifications of concurrent runs
// never mix.
type MCPOrchestrator struct {
	name string
	tool string
	dial DialFunc
}

// NewMCPOrchestrator calls tool on the upstream server srv.
func NewMCPOrchestrator(name string, srv *ServerConfig, tool string) (*MCPOrchestrator, error) {
	if tool == "" {
		return nil, errors.New("upstream tool name is empty")
	}
	return &MCPOrchestrator{
		name: name,
		tool: tool,
		dial: dialer(srv),
	}, nil
}

// NewMCPOrchestratorWithDialer uses dial instead of a configured server.
func NewMCPOrchestratorWithDialer(name, tool string, dial DialFunc) *MCPOrchestrator {
	return &MCPOrchestrator{name: name, tool: tool, dial: dial}
}

func dialer(srv *ServerConfig) DialFunc {
	return func(context.Context) (*client.Client, error) {
		switch srv.Transport {
		case UpstreamStdio, "":
			return client.NewStdioMCPClient(srv.Command, srv.Env, srv.Args...)
		case UpstreamSSE:
			return client.NewSSEMCPClient(srv.URL)
		case UpstreamHTTP:
			return client.NewStreamableHttpClient(srv.URL)
		default:
			return nil, fmt.Errorf("unknown transport: %s", srv.Transport)
		}
	}
}

func (o *MCPOrchestrator) Run(ctx context.Context, prompt string, out io.Writer) (string, error) {
	cli, err := o.dial(ctx)
	if err != nil {
		return "", fmt.Errorf("[Agent] upstream %q: failed to create client: %w", o.name, err)
	}
	defer func() {
		if err := cli.Close(); err != nil {
			logger.Warn("[Agent] upstream %q: failed to close client: %v", o.name, err)
		}
	}()

	cli.OnNotification(func(n mcp.JSONRPCNotification) {
		writeNotification(out, n)
	})
	if err := cli.Start(ctx); err != nil {
		return "", fmt.Errorf("[Agent] upstream %q: failed to start: %w", o.name, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "ProjectOM-omserver",
		Version: version.Get().GitVersion,
	}
	if _, err := cli.Initialize(ctx, initReq); err != nil {
		return "", fmt.Errorf("[Agent] upstream %q: failed to initialize: %w", o.name, err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = o.tool
	req.Params.Arguments = map[string]any{"prompt": prompt}
	req.Params.Meta = &mcp.Meta{ProgressToken: uuid.NewString()}

	logger.Info("[Agent] calling %s on upstream %q", o.tool, o.name)
	res, err := cli.CallTool(ctx, req)
	if err != nil {
		return "", err
	}
	text := resultText(res)
	if res.IsError {
		return "", errors.New(text)
	}
	return text, nil
}

func resultText(res *mcp.CallToolResult) string {
	parts := make([]string, 0, len(res.Content))
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// writeNotification renders progress and log notifications as output lines.
func writeNotification(out io.Writer, n mcp.JSONRPCNotification) {
	fields := n.Params.AdditionalFields
	var line string
	switch n.Method {
	case methodProgress:
		if msg, ok := fields["message"].(string); ok && msg != "" {
			line = msg
		} else if total, ok := fields["total"]; ok {
			line = fmt.Sprintf("progress %v/%v", fields["progress"], total)
		} else {
			line = fmt.Sprintf("progress %v", fields["progress"])
		}
	case methodMessage:
		switch data := fields["data"].(type) {
		case string:
			line = data
		case nil:
			return
		default:
			b, err := json.Marshal(data)
			if err != nil {
				return
			}
			line = string(b)
		}
	default:
		return
	}
	_, _ = io.WriteString(out, line+"\n")
}
