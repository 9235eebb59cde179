package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/service"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/store/inmemory"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Config configures the tasks module.
type Config struct {
	// Orchestrator runs submitted prompts. Required.
	Orchestrator service.Orchestrator

	// Retention enables the janitor when greater than zero.
	Retention   time.Duration
	JanitorSpec string

	// ShutdownGrace bounds Close when the caller's context has no deadline.
	ShutdownGrace time.Duration
}

// CompletedConfig is the completed configuration for tasks.
type CompletedConfig struct {
	*Config
}

// Complete fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.JanitorSpec == "" {
		c.JanitorSpec = "@every 1m"
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = 10 * time.Second
	}
	return CompletedConfig{c}
}

// Module is the top-level tasks module.
type Module struct {
	Supervisor *service.Supervisor

	janitor *service.Janitor
	grace   time.Duration
}

// New creates the supervisor over an in-memory store and starts the janitor
// when retention is configured.
func (c CompletedConfig) New(ctx context.Context) (*Module, error) {
	if c.Orchestrator == nil {
		return nil, errors.New("tasks: orchestrator is required")
	}
	sup := service.NewSupervisor(inmemory.NewTaskStore(), c.Orchestrator)
	m := &Module{Supervisor: sup, grace: c.ShutdownGrace}

	if c.Retention > 0 {
		j, err := service.NewJanitor(sup, c.JanitorSpec, c.Retention)
		if err != nil {
			_ = sup.Close(ctx)
			return nil, fmt.Errorf("tasks janitor: %w", err)
		}
		j.Start()
		m.janitor = j
		logger.Info("[Tasks] janitor started (retention=%s, spec=%q)", c.Retention, c.JanitorSpec)
	}

	logger.Info("[Tasks] module initialized")
	return m, nil
}

// Close stops the janitor, aborts running tasks and waits for them.
func (m *Module) Close(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.grace)
		defer cancel()
	}
	if m.janitor != nil {
		m.janitor.Stop(ctx)
	}
	return m.Supervisor.Close(ctx)
}
