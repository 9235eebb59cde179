package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Registry holds tools in registration order.
//
// Thread-safe: all mutations are guarded by a mutex.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string

	cleanupOnce sync.Once
	cleanupErr  error
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds t. A second tool with the same name is rejected and the
// first one stays registered.
func (r *Registry) Register(t Tool) error {
	desc := t.Descriptor()
	if err := desc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[desc.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, desc.Name)
	}
	r.tools[desc.Name] = t
	r.order = append(r.order, desc.Name)
	logger.Debug("[Tools] registered tool %q (%d parameters)", desc.Name, len(desc.Parameters))
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// CleanupAll calls Cleanup on every tool implementing Cleaner. Only the first
// call does any work; later calls return the first call's error.
func (r *Registry) CleanupAll(ctx context.Context) error {
	r.cleanupOnce.Do(func() {
		var errs []error
		for _, t := range r.List() {
			c, ok := t.(Cleaner)
			if !ok {
				continue
			}
			name := t.Descriptor().Name
			if err := c.Cleanup(ctx); err != nil {
				logger.Warn("[Tools] cleanup of %q failed: %v", name, err)
				errs = append(errs, fmt.Errorf("cleanup %s: %w", name, err))
				continue
			}
			logger.Info("[Tools] %s cleaned up", name)
		}
		r.cleanupErr = errors.Join(errs...)
	})
	return r.cleanupErr
}
