package mcp

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
)

func textTool(name, reply string) tools.Tool {
	return tools.NewFuncTool(tools.Descriptor{
		Name:        name,
		Description: name + " tool",
		Parameters:  []tools.Parameter{{Name: "text", Type: tools.TypeString, Description: "input", Required: true}},
	}, func(_ context.Context, args map[string]any) (any, error) {
		return reply + ":" + args["text"].(string), nil
	})
}

func mustAdapt(t *testing.T, tl tools.Tool) *Operation {
	t.Helper()
	op, err := Adapt(tl.Descriptor(), tl)
	require.NoError(t, err)
	return op
}

func newClient(t *testing.T, h *Host) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(h.Server())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "test", Version: "0.0.1"}
	_, err = c.Initialize(ctx, req)
	require.NoError(t, err)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, error) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(context.Background(), req)
	if err != nil {
		return "", err
	}
	require.NotEmpty(t, res.Content)
	return mcp.GetTextFromContent(res.Content[0]), nil
}

func TestHost_DuplicateRegistrationKeepsFirst(t *testing.T) {
	h := NewHost(HostConfig{Name: "test", Version: "v0"})
	require.NoError(t, h.Register(mustAdapt(t, textTool("echo", "first"))))

	err := h.Register(mustAdapt(t, textTool("echo", "second")))
	require.ErrorIs(t, err, ErrDuplicateOperation)
	require.Len(t, h.Operations(), 1)

	c := newClient(t, h)
	out, err := callTool(t, c, "echo", map[string]any{"text": "x"})
	require.NoError(t, err)
	assert.Equal(t, "first:x", out)
}

func TestHost_ListToolsCarriesDocAndSchema(t *testing.T) {
	h := NewHost(HostConfig{Name: "test", Version: "v0"})
	require.NoError(t, h.Register(mustAdapt(t, textTool("b", "b"))))
	require.NoError(t, h.Register(mustAdapt(t, textTool("a", "a"))))

	var names []string
	for _, op := range h.Operations() {
		names = append(names, op.Name)
	}
	assert.Equal(t, []string{"b", "a"}, names)

	c := newClient(t, h)
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	require.Len(t, res.Tools, 2)

	for _, tl := range res.Tools {
		op, ok := h.Operation(tl.Name)
		require.True(t, ok)
		assert.Equal(t, op.Doc, tl.Description)
		require.NotNil(t, tl.Meta)
		assert.Equal(t, op.Doc, tl.Meta.AdditionalFields[MetaDoc])
		schema, ok := tl.Meta.AdditionalFields[MetaSchema].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, schema, "text")
		assert.Equal(t, []string{"text"}, tl.InputSchema.Required)
	}
}

func TestHost_ErrorsReachTheClient(t *testing.T) {
	h := NewHost(HostConfig{Name: "test", Version: "v0"})
	failing := tools.NewFuncTool(tools.Descriptor{Name: "fail"}, func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, h.Register(mustAdapt(t, failing)))
	require.NoError(t, h.Register(mustAdapt(t, textTool("echo", "e"))))

	c := newClient(t, h)

	_, err := callTool(t, c, "fail", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = callTool(t, c, "echo", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMissingArgument.Error())
}

func TestHost_ShutdownRejectsCalls(t *testing.T) {
	h := NewHost(HostConfig{Name: "test", Version: "v0"})
	require.NoError(t, h.Register(mustAdapt(t, textTool("echo", "e"))))
	c := newClient(t, h)

	require.NoError(t, h.Shutdown(context.Background()))
	require.NoError(t, h.Shutdown(context.Background()))

	_, err := callTool(t, c, "echo", map[string]any{"text": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrHostClosed.Error())
}

func TestHost_HandlerConcurrentWithShutdown(t *testing.T) {
	h := NewHost(HostConfig{Name: "test", Version: "v0", Transport: TransportHTTP})

	var wg sync.WaitGroup
	handlers := make([]http.Handler, 8)
	for i := range handlers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handlers[i] = h.Handler()
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, h.Shutdown(context.Background()))
	}()
	wg.Wait()

	for _, handler := range handlers {
		assert.Same(t, handlers[0], handler)
	}
}

func TestHost_ServeReturnsWhenContextDone(t *testing.T) {
	h := NewHost(HostConfig{Name: "test", Version: "v0", Transport: TransportNone})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, h.Serve(ctx))

	h = NewHost(HostConfig{Name: "test", Version: "v0", Transport: "carrier-pigeon"})
	assert.Error(t, h.Serve(context.Background()))
}

func TestModule_RegistersRegistryTools(t *testing.T) {
	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(textTool("one", "1")))
	require.NoError(t, reg.Register(textTool("two", "2")))

	cfg := &Config{Host: HostConfig{Transport: TransportNone}, Registry: reg}
	m, err := cfg.Complete().New(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Host.Operations(), 2)
	assert.Equal(t, "openmanus", cfg.Host.Name)

	out, err := m.Host.Operations()[1].Call(context.Background(), map[string]any{"text": "z"})
	require.NoError(t, err)
	assert.Equal(t, "2:z", out)

	require.NoError(t, m.Close(context.Background()))
}
