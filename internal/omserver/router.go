package omserver

import (
	"github.com/gin-gonic/gin"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/handler/middleware"
	v1 "github.com/xAGI-labs/ProjectOM/internal/omserver/handler/v1"
)

// routerDeps holds the dependencies needed for route registration.
type routerDeps struct {
	tasks v1.TaskService
	tools v1.OperationLister
}

func initRouter(g *gin.Engine, deps *routerDeps) {
	installMiddleware(g)
	installController(g, deps)
}

func installMiddleware(g *gin.Engine) {
	g.Use(middleware.RequestID())
	g.Use(middleware.CORS())
}

func installController(g *gin.Engine, deps *routerDeps) {
	promptHandler := v1.NewPromptHandler(deps.tasks)
	taskHandler := v1.NewTaskHandler(deps.tasks)
	toolHandler := v1.NewToolHandler(deps.tools)

	api := g.Group("/api")
	{
		api.POST("/prompt", promptHandler.Submit)

		api.GET("/tasks", taskHandler.List)
		api.GET("/tasks/:id", taskHandler.Get)

		api.GET("/tools", toolHandler.List)
		api.GET("/tools/:name", toolHandler.Get)
	}
}
