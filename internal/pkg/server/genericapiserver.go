package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/xAGI-labs/ProjectOM/internal/pkg/core"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
	"github.com/xAGI-labs/ProjectOM/pkg/version"
)

// GenericAPIServer contains state for a generic api server.
type GenericAPIServer struct {
	middlewares []string
	// InsecureServingInfo holds configuration of the insecure HTTP server.
	InsecureServingInfo *InsecureServingInfo

	shutdownTimeout time.Duration

	*gin.Engine
	healthz         bool
	enableProfiling bool

	mu             sync.Mutex
	insecureServer *http.Server
	closed         bool
}

func initGenericAPIServer(s *GenericAPIServer) {
	s.Setup()
	s.InstallMiddlewares()
	s.InstallAPIs()
}

// InstallAPIs install generic apis.
func (s *GenericAPIServer) InstallAPIs() {
	if s.healthz {
		s.GET("/healthz", func(c *gin.Context) {
			core.WriteResponse(c, nil, map[string]string{"status": "ok"})
		})
	}

	s.GET("/version", func(c *gin.Context) {
		core.WriteResponse(c, nil, version.Get())
	})

	if s.enableProfiling {
		pprof.Register(s.Engine)
	}
}

// Setup do some setup work for gin engine.
func (s *GenericAPIServer) Setup() {
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		logger.Debug("%-6s %-s --> %s (%d handlers)", httpMethod, absolutePath, handlerName, nuHandlers)
	}
}

// InstallMiddlewares install generic middlewares.
func (s *GenericAPIServer) InstallMiddlewares() {
	s.Use(gin.Recovery())

	for _, m := range s.middlewares {
		mw, ok := Middlewares[m]
		if !ok {
			logger.Warn("can not find middleware: %s", m)
			continue
		}

		logger.Info("install middleware: %s", m)
		s.Use(mw)
	}
}

// Mount routes every method under path to h, for handlers that are not gin
// native such as protocol transports.
func (s *GenericAPIServer) Mount(path string, h http.Handler) {
	s.Any(path, gin.WrapH(h))
}

// Run spawns the http server. It only returns when the port cannot be listened on initially.
func (s *GenericAPIServer) Run() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	srv := &http.Server{
		Addr:              s.InsecureServingInfo.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.insecureServer = srv
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.InsecureServingInfo.Address)
	if err != nil {
		return err
	}

	logger.Info("Start to listening the incoming requests on http address: %s", ln.Addr())

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("Server on %s stopped", s.InsecureServingInfo.Address)

	return nil
}

// Close graceful shutdown the api server.
func (s *GenericAPIServer) Close() {
	s.mu.Lock()
	s.closed = true
	srv := s.insecureServer
	s.mu.Unlock()
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Shutdown insecure server failed: %s", err.Error())
	}
}
