package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
	"github.com/xAGI-labs/ProjectOM/pkg/utils/json"
	"github.com/xAGI-labs/ProjectOM/pkg/version"
)

// APIClient talks to the omserver HTTP API.
type APIClient struct {
	base string
	http *http.Client
}

// NewAPIClient returns a client for the server at base, e.g. http://127.0.0.1:5000.
func NewAPIClient(base string, timeout time.Duration) *APIClient {
	return &APIClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Submit posts a prompt and returns the server's view.
func (c *APIClient) Submit(ctx context.Context, prompt string) (*entity.View, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/prompt", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	view := &entity.View{}
	if err := c.do(req, view, http.StatusOK, http.StatusBadRequest); err != nil {
		return nil, err
	}
	return view, nil
}

// Status polls a task.
func (c *APIClient) Status(ctx context.Context, id string) (*entity.View, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/tasks/"+id, nil)
	if err != nil {
		return nil, err
	}
	view := &entity.View{}
	if err := c.do(req, view, http.StatusOK); err != nil {
		return nil, err
	}
	return view, nil
}

func (c *APIClient) do(req *http.Request, out any, accept ...int) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	ok := false
	for _, code := range accept {
		ok = ok || resp.StatusCode == code
	}
	if !ok {
		return fmt.Errorf("%s %s: unexpected status %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(data)))
	}
	return json.Unmarshal(data, out)
}

// DialMCP connects and initializes a streamable HTTP MCP client at url.
// The caller closes the client.
func DialMCP(ctx context.Context, url string) (*client.Client, error) {
	c, err := client.NewStreamableHttpClient(url)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "omctl",
		Version: version.Get().GitVersion,
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize MCP session: %w", err)
	}
	return c, nil
}
