package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Middlewares store registered middlewares.
var Middlewares = defaultMiddlewares()

func defaultMiddlewares() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"logger": accessLog(),
		"nocache": func(c *gin.Context) {
			c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate, value")
			c.Header("Expires", "Thu, 01 Jan 1970 00:00:00 GMT")
			c.Header("Last-Modified", time.Now().UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT"))
			c.Next()
		},
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("[HTTP] %3d | %13v | %15s | %-7s %s",
			c.Writer.Status(), time.Since(start), c.ClientIP(), c.Request.Method, c.Request.URL.Path)
	}
}
