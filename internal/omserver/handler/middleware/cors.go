package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows every origin, the bundled web frontend is served from a
// different port during development.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			XRequestIDKey, "Mcp-Session-Id", "Mcp-Protocol-Version",
		},
		ExposeHeaders: []string{XRequestIDKey, "Mcp-Session-Id"},
		MaxAge:        10 * time.Minute,
	})
}
