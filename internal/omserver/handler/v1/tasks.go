package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xAGI-labs/ProjectOM/internal/pkg/core"
	"github.com/xAGI-labs/ProjectOM/pkg/errorx"
)

// TaskHandler answers task polls.
type TaskHandler struct {
	svc TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Get handles GET /api/tasks/:id. It always answers 200, unknown ids get the
// not found view.
func (h *TaskHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.GetStatus(c.Request.Context(), c.Param("id")))
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.List(c.Request.Context())
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrTaskList, "list tasks"), nil)
		return
	}

	resp := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, newTaskSummary(t))
	}
	core.WriteResponse(c, nil, gin.H{"data": resp})
}
