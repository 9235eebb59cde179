package omserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/config"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/agent"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/mcp"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools/builtin"
	genericapiserver "github.com/xAGI-labs/ProjectOM/internal/pkg/server"
	"github.com/xAGI-labs/ProjectOM/pkg/http/shutdown"
	"github.com/xAGI-labs/ProjectOM/pkg/http/shutdown/posixsignal"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

type apiServer struct {
	gs               *shutdown.GracefulShutdown
	genericAPIServer *genericapiserver.GenericAPIServer

	toolsModule *tools.Module
	mcpModule   *mcp.Module
	agentModule *agent.Module
	tasksModule *tasks.Module

	// serveCtx bounds the protocol transport, it is cancelled on shutdown.
	serveCtx    context.Context
	serveCancel context.CancelFunc

	shutdownTimeout time.Duration
}

type preparedAPIServer struct {
	*apiServer
}

func createAPIServer(cfg *config.Config) (*apiServer, error) {
	gs := shutdown.New()
	gs.AddShutdownManager(posixsignal.NewPosixSignalManager())
	gs.SetErrorHandler(shutdown.ErrorFunc(func(err error) {
		logger.Error("[OMServer] shutdown: %v", err)
	}))

	genericConfig, err := buildGenericConfig(cfg)
	if err != nil {
		return nil, err
	}
	genericServer, err := genericConfig.Complete().New()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	// Initialize Tools module (K8S-style: Config → Complete → New).
	builtinTools, err := builtin.NewInTreeRegistry().Build(cfg.ToolsOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to build builtin tools: %w", err)
	}
	toolsCfg := &tools.Config{Tools: builtinTools}
	toolsModule, err := toolsCfg.Complete().New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tools module: %w", err)
	}

	// Initialize MCP module, every registered tool becomes a protocol operation.
	mcpCfg := &mcp.Config{
		Host: mcp.HostConfig{
			Name:         cfg.MCPOptions.Name,
			Transport:    cfg.MCPOptions.Transport,
			EndpointPath: cfg.MCPOptions.EndpointPath,
			SSEAddress:   cfg.MCPOptions.SSEAddress,
			BaseURL:      cfg.MCPOptions.BaseURL,
		},
		Registry: toolsModule.Registry,
	}
	mcpModule, err := mcpCfg.Complete().New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP module: %w", err)
	}

	agentCfg := &agent.Config{
		Kind: cfg.AgentOptions.Type,
		Command: agent.CommandConfig{
			Command: cfg.AgentOptions.Command,
			WorkDir: cfg.AgentOptions.WorkDir,
		},
		MCPConfigFile: cfg.AgentOptions.MCPConfigFile,
		MCPServer:     cfg.AgentOptions.MCPServer,
		MCPTool:       cfg.AgentOptions.MCPTool,
	}
	agentModule, err := agentCfg.Complete().New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Agent module: %w", err)
	}

	tasksCfg := &tasks.Config{
		Orchestrator:  agentModule.Orchestrator,
		Retention:     cfg.TasksOptions.Retention,
		JanitorSpec:   cfg.TasksOptions.JanitorSpec,
		ShutdownGrace: cfg.TasksOptions.ShutdownGrace,
	}
	tasksModule, err := tasksCfg.Complete().New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks module: %w", err)
	}
	logger.Info("[OMServer] modules initialized successfully")

	serveCtx, serveCancel := context.WithCancel(context.Background())
	server := &apiServer{
		gs:               gs,
		genericAPIServer: genericServer,
		toolsModule:      toolsModule,
		mcpModule:        mcpModule,
		agentModule:      agentModule,
		tasksModule:      tasksModule,
		serveCtx:         serveCtx,
		serveCancel:      serveCancel,
		shutdownTimeout:  cfg.TasksOptions.ShutdownGrace + genericConfig.ShutdownTimeout,
	}

	return server, nil
}

func (s *apiServer) PrepareRun() preparedAPIServer {
	initRouter(s.genericAPIServer.Engine, &routerDeps{
		tasks: s.tasksModule.Supervisor,
		tools: s.mcpModule.Host,
	})

	host := s.mcpModule.Host
	if host.Transport() == mcp.TransportHTTP {
		s.genericAPIServer.Mount(host.EndpointPath(), host.Handler())
		logger.Info("[OMServer] MCP streamable HTTP endpoint mounted at %s", host.EndpointPath())
	}

	s.gs.AddShutdownCallback(shutdown.Func(func(string) error {
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.shutdown(ctx)
	}))

	return preparedAPIServer{s}
}

// shutdown stops accepting work first and releases tool resources last.
func (s *apiServer) shutdown(ctx context.Context) error {
	var errs []error

	s.genericAPIServer.Close()

	if err := s.mcpModule.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("mcp: %w", err))
	}
	s.serveCancel()

	if err := s.tasksModule.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tasks: %w", err))
	}
	if err := s.toolsModule.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tools: %w", err))
	}

	logger.Info("[OMServer] shutdown complete")
	logger.FlushLog()
	return errors.Join(errs...)
}

func (s preparedAPIServer) Run() error {
	// start shutdown managers
	if err := s.gs.Start(); err != nil {
		logger.Fatal("start shutdown manager failed: %s", err.Error())
	}

	eg, ctx := errgroup.WithContext(s.serveCtx)
	eg.Go(s.genericAPIServer.Run)
	eg.Go(func() error {
		err := s.mcpModule.Host.Serve(ctx)
		if s.serveCtx.Err() == nil {
			// The transport ended by itself: stdin closed, a listener failed
			// or the API server stopped.
			logger.Info("[OMServer] %s transport stopped, shutting down", s.mcpModule.Host.Transport())
			s.gs.StartShutdown(transportManager{})
		}
		return err
	})

	return eg.Wait()
}

// transportManager triggers shutdown when the protocol transport ends. Unlike
// the signal manager it lets Run return instead of exiting the process.
type transportManager struct{}

func (transportManager) GetName() string                  { return "TransportManager" }
func (transportManager) Start(shutdown.GSInterface) error { return nil }
func (transportManager) ShutdownStart() error             { return nil }
func (transportManager) ShutdownFinish() error            { return nil }

func buildGenericConfig(cfg *config.Config) (genericConfig *genericapiserver.Config, lastErr error) {
	genericConfig = genericapiserver.NewConfig()
	if lastErr = cfg.GenericServerRunOptions.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	if lastErr = cfg.FeatureOptions.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	if lastErr = cfg.InsecureServing.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	return
}
