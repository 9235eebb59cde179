package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// TaskService is the part of the task supervisor the HTTP API needs.
type TaskService interface {
	Submit(ctx context.Context, prompt string) (string, error)
	GetStatus(ctx context.Context, id string) entity.View
	List(ctx context.Context) ([]*entity.Task, error)
}

// PromptHandler accepts prompts for background processing.
type PromptHandler struct {
	svc TaskService
}

// NewPromptHandler creates a new PromptHandler.
func NewPromptHandler(svc TaskService) *PromptHandler {
	return &PromptHandler{svc: svc}
}

// Submit handles POST /api/prompt.
func (h *PromptHandler) Submit(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.SubmitErrorView(err))
		return
	}

	id, err := h.svc.Submit(c.Request.Context(), *req.Prompt)
	if err != nil {
		logger.Error("[HTTP] submit prompt: %v", err)
		c.JSON(http.StatusOK, entity.SubmitErrorView(err))
		return
	}
	c.JSON(http.StatusOK, entity.SubmittedView(id))
}
