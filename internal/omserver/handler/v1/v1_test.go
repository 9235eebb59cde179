package v1

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/mcp"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/service"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/store/inmemory"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
	"github.com/xAGI-labs/ProjectOM/pkg/utils/json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(svc TaskService, host OperationLister) *gin.Engine {
	g := gin.New()
	prompt := NewPromptHandler(svc)
	task := NewTaskHandler(svc)
	tool := NewToolHandler(host)
	g.POST("/api/prompt", prompt.Submit)
	g.GET("/api/tasks", task.List)
	g.GET("/api/tasks/:id", task.Get)
	g.GET("/api/tools", tool.List)
	g.GET("/api/tools/:name", tool.Get)
	return g
}

func do(t *testing.T, g *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func newSupervisor(t *testing.T, orch service.Orchestrator) *service.Supervisor {
	t.Helper()
	s := service.NewSupervisor(inmemory.NewTaskStore(), orch)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Close(ctx)
	})
	return s
}

func newHost(t *testing.T) *mcp.Host {
	t.Helper()
	h := mcp.NewHost(mcp.HostConfig{Name: "test", Version: "0.0.1", Transport: mcp.TransportNone})
	tl := tools.NewFuncTool(tools.Descriptor{
		Name:        "echo",
		Description: "Echo text.",
		Parameters: []tools.Parameter{
			{Name: "text", Type: tools.TypeString, Description: "text to echo", Required: true},
			{Name: "times", Type: tools.TypeInteger, Description: "repeat count"},
		},
	}, func(_ context.Context, args map[string]any) (any, error) {
		return args["text"], nil
	})
	op, err := mcp.Adapt(tl.Descriptor(), tl)
	require.NoError(t, err)
	require.NoError(t, h.Register(op))
	return h
}

func TestSubmitAndPoll(t *testing.T) {
	release := make(chan struct{})
	svc := newSupervisor(t, service.OrchestratorFunc(func(ctx context.Context, prompt string, out io.Writer) (string, error) {
		_, _ = io.WriteString(out, "Step 1")
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		_, _ = io.WriteString(out, "Step 2")
		return "", nil
	}))
	g := newEngine(svc, newHost(t))

	w, body := do(t, g, http.MethodPost, "/api/prompt", `{"prompt":"write a haiku"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Prompt received and processing started with ID: task_1", body["message"])

	require.Eventually(t, func() bool {
		_, body := do(t, g, http.MethodGet, "/api/tasks/task_1", "")
		return body["results"] == "Step 1"
	}, 5*time.Second, 5*time.Millisecond)
	_, body = do(t, g, http.MethodGet, "/api/tasks/task_1", "")
	assert.Equal(t, "processing", body["status"])
	assert.Equal(t, "Task is still processing", body["message"])

	close(release)
	require.Eventually(t, func() bool {
		_, body = do(t, g, http.MethodGet, "/api/tasks/task_1", "")
		return body["status"] == "success"
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Task completed", body["message"])
	assert.Equal(t, "Step 1Step 2", body["results"])

	w, body = do(t, g, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "task_1", data[0].(map[string]any)["id"])
	assert.Equal(t, "COMPLETED", data[0].(map[string]any)["status"])
}

func TestSubmitValidation(t *testing.T) {
	svc := newSupervisor(t, service.OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		return "", nil
	}))
	g := newEngine(svc, newHost(t))

	for _, body := range []string{`{}`, `{"prompt":`, ``} {
		w, out := do(t, g, http.MethodPost, "/api/prompt", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "error", out["status"])
		assert.True(t, strings.HasPrefix(out["message"].(string), "Error: "))
	}

	// An empty prompt is accepted.
	w, out := do(t, g, http.MethodPost, "/api/prompt", `{"prompt":""}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", out["status"])
}

func TestSubmitAfterClose(t *testing.T) {
	svc := service.NewSupervisor(inmemory.NewTaskStore(), service.OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		return "", nil
	}))
	require.NoError(t, svc.Close(context.Background()))
	g := newEngine(svc, newHost(t))

	w, out := do(t, g, http.MethodPost, "/api/prompt", `{"prompt":"late"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "error", out["status"])
	assert.Contains(t, out["message"], "closed")
}

func TestUnknownTask(t *testing.T) {
	svc := newSupervisor(t, service.OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		return "", nil
	}))
	g := newEngine(svc, newHost(t))

	w, out := do(t, g, http.MethodGet, "/api/tasks/task_999", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, "Task not found", out["message"])
	assert.Nil(t, out["results"])
}

type failingTasks struct{ TaskService }

func (failingTasks) List(context.Context) ([]*entity.Task, error) {
	return nil, errors.New("store down")
}

func TestListTasksError(t *testing.T) {
	g := newEngine(failingTasks{}, newHost(t))
	w, out := do(t, g, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.EqualValues(t, ErrTaskList, out["code"])
	assert.Equal(t, "Failed to list tasks", out["message"])
}

func TestTools(t *testing.T) {
	g := newEngine(failingTasks{}, newHost(t))

	w, out := do(t, g, http.MethodGet, "/api/tools", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := out["data"].([]any)
	require.Len(t, data, 1)
	tool := data[0].(map[string]any)
	assert.Equal(t, "echo", tool["name"])
	assert.Contains(t, tool["doc"], "text (string) (required): text to echo")
	assert.Equal(t, []any{"text", "times"}, tool["order"])

	w, out = do(t, g, http.MethodGet, "/api/tools/echo", "")
	assert.Equal(t, http.StatusOK, w.Code)
	params := out["parameters"].(map[string]any)
	assert.Equal(t, "integer", params["times"].(map[string]any)["type"])

	w, out = do(t, g, http.MethodGet, "/api/tools/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, ErrToolNotFound, out["code"])
}
