package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/mcp"
	"github.com/xAGI-labs/ProjectOM/internal/pkg/core"
	"github.com/xAGI-labs/ProjectOM/pkg/errorx"
)

// OperationLister is satisfied by the protocol host.
type OperationLister interface {
	Operations() []*mcp.Operation
	Operation(name string) (*mcp.Operation, bool)
}

// ToolHandler lists the operations of the protocol host.
type ToolHandler struct {
	host OperationLister
}

// NewToolHandler creates a new ToolHandler.
func NewToolHandler(host OperationLister) *ToolHandler {
	return &ToolHandler{host: host}
}

// List handles GET /api/tools.
func (h *ToolHandler) List(c *gin.Context) {
	ops := h.host.Operations()
	resp := make([]ToolResponse, 0, len(ops))
	for _, op := range ops {
		resp = append(resp, newToolResponse(op))
	}
	core.WriteResponse(c, nil, gin.H{"data": resp})
}

// Get handles GET /api/tools/:name.
func (h *ToolHandler) Get(c *gin.Context) {
	name := c.Param("name")
	op, ok := h.host.Operation(name)
	if !ok {
		core.WriteResponse(c, errorx.WithCode(ErrToolNotFound, "tool %q not found", name), nil)
		return
	}
	core.WriteResponse(c, nil, newToolResponse(op))
}
