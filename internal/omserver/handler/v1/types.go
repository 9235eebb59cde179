package v1

import (
	"time"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/mcp"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
)

const timeFormat = time.RFC3339

// FormatTime formats a time value for API responses.
func FormatTime(t time.Time) string {
	return t.Format(timeFormat)
}

// PromptRequest is the body of POST /api/prompt. An empty prompt is valid,
// a missing one is not.
type PromptRequest struct {
	Prompt *string `json:"prompt" binding:"required"`
}

// TaskSummary is one entry of GET /api/tasks.
type TaskSummary struct {
	ID          string            `json:"id"`
	Status      entity.TaskStatus `json:"status"`
	CreatedAt   string            `json:"created_at"`
	CompletedAt string            `json:"completed_at,omitempty"`
}

func newTaskSummary(t *entity.Task) TaskSummary {
	s := TaskSummary{
		ID:        t.ID,
		Status:    t.Status,
		CreatedAt: FormatTime(t.CreatedAt),
	}
	if t.CompletedAt != nil {
		s.CompletedAt = FormatTime(*t.CompletedAt)
	}
	return s
}

// ToolResponse describes one operation registered on the protocol host.
type ToolResponse struct {
	Name       string                     `json:"name"`
	Doc        string                     `json:"doc"`
	Parameters map[string]mcp.ParamSchema `json:"parameters"`
	// Order lists parameter names in declaration order.
	Order []string `json:"order"`
}

func newToolResponse(op *mcp.Operation) ToolResponse {
	order := make([]string, 0, len(op.Signature.Params))
	for _, p := range op.Signature.Params {
		order = append(order, p.Name)
	}
	return ToolResponse{
		Name:       op.Name,
		Doc:        op.Doc,
		Parameters: op.Schema,
		Order:      order,
	}
}
