package service

import (
	"context"
	"sync"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/pkg"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/pkg/errno"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Handle is the cancellation handle of a running task.
//
// Only supervisor shutdown aborts a task, there is no external cancel call.
type Handle struct {
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	down   bool
	taskID string
}

func newHandle(parent context.Context, taskID string) *Handle {
	ctx, cancel := context.WithCancel(parent)
	return &Handle{
		ctx:    ctx,
		cancel: cancel,
		taskID: taskID,
	}
}

// Context returns the controlled context.
func (h *Handle) Context() context.Context {
	return h.ctx
}

// Abort cancels the task. It is safe to call Abort multiple times.
func (h *Handle) Abort() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.down {
		return
	}
	h.down = true
	h.cancel()
	logger.InfoX(pkg.ModuleName, "[Tasks] abort task %s", h.taskID)
}

// IsAborted returns true once Abort was called or the parent was cancelled.
func (h *Handle) IsAborted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.down {
		return true
	}
	select {
	case <-h.ctx.Done():
		return true
	default:
		return false
	}
}

// CheckAborted returns errno.ErrAborted if the task is aborted.
func (h *Handle) CheckAborted() error {
	if h.IsAborted() {
		return errno.ErrAborted
	}
	return nil
}

// CleanUp releases the context.
func (h *Handle) CleanUp() {
	h.cancel()
}
