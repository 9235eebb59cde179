package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/capture"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/repo"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/pkg"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/pkg/errno"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

const taskIDPrefix = "task_"

type running struct {
	handle *Handle
	sink   *capture.Sink
}

// Supervisor owns the task map. It starts one goroutine per submitted
// prompt and answers status polls while those goroutines run.
type Supervisor struct {
	repo repo.TaskRepository
	orch Orchestrator

	seq atomic.Uint64

	// mu orders the final record update against removal from inflight, so a
	// poll never sees a PROCESSING record without its live sink.
	mu       sync.RWMutex
	inflight map[string]*running
	closed   bool

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup

	now func() time.Time
}

// NewSupervisor creates a Supervisor backed by r that runs prompts with orch.
func NewSupervisor(r repo.TaskRepository, orch Orchestrator) *Supervisor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		repo:     r,
		orch:     orch,
		inflight: make(map[string]*running),
		baseCtx:  ctx,
		stop:     cancel,
		now:      time.Now,
	}
}

// Submit records a new PROCESSING task and starts it in the background.
// It returns as soon as the record exists. ctx bounds only the submission,
// the task itself runs until it finishes or the supervisor closes.
func (s *Supervisor) Submit(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errno.ErrSupervisorClosed
	}

	n := s.seq.Add(1)
	task := &entity.Task{
		ID:        taskIDPrefix + strconv.FormatUint(n, 10),
		Seq:       n,
		Input:     prompt,
		Status:    entity.TaskStatusProcessing,
		Logs:      []string{},
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return "", err
	}

	r := &running{
		handle: newHandle(s.baseCtx, task.ID),
		sink:   capture.NewSink(),
	}
	s.inflight[task.ID] = r

	s.wg.Add(1)
	go s.run(task.ID, prompt, r)

	logger.InfoX(pkg.ModuleName, "[Tasks] task %s submitted", task.ID)
	return task.ID, nil
}

func (s *Supervisor) run(id, prompt string, r *running) {
	defer s.wg.Done()
	defer r.handle.CleanUp()

	logger.InfoX(pkg.ModuleName, "[Tasks] task %s started", id)
	output, err := s.execute(r.handle.Context(), prompt, r.sink)
	if err == nil {
		err = r.handle.CheckAborted()
	}
	buffer, logs := r.sink.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer delete(s.inflight, id)

	// The record is only read here, nobody else writes a PROCESSING task.
	task, getErr := s.repo.Get(context.Background(), id)
	if getErr != nil {
		logger.ErrorX(pkg.ModuleName, "[Tasks] task %s vanished: %v", id, getErr)
		return
	}
	completedAt := s.now()
	task.CompletedAt = &completedAt
	task.Logs = logs
	if err != nil {
		task.Status = entity.TaskStatusError
		task.Error = err.Error()
		logger.ErrorX(pkg.ModuleName, "[Tasks] task %s failed: %v", id, err)
	} else {
		task.Status = entity.TaskStatusCompleted
		task.Result = buffer
		if task.Result == "" {
			task.Result = output
		}
		logger.InfoX(pkg.ModuleName, "[Tasks] task %s completed", id)
	}
	if err := s.repo.Update(context.Background(), task); err != nil {
		logger.ErrorX(pkg.ModuleName, "[Tasks] task %s update failed: %v", id, err)
	}
}

// execute contains orchestrator panics so a broken run still ends in ERROR.
func (s *Supervisor) execute(ctx context.Context, prompt string, sink *capture.Sink) (output string, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorX(pkg.ModuleName, "[Tasks] orchestrator panic: %v\n%s", p, debug.Stack())
			err = fmt.Errorf("%w: %v", errno.ErrOrchestratorPanic, p)
		}
	}()
	return s.orch.Run(ctx, prompt, sink)
}

// GetStatus renders the current view of a task. Unknown ids produce the
// not found view and create nothing.
func (s *Supervisor) GetStatus(ctx context.Context, id string) entity.View {
	task, logs, err := s.lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, errno.ErrTaskNotFound) {
			logger.WarnX(pkg.ModuleName, "[Tasks] get task %s: %v", id, err)
		}
		return entity.NotFoundView()
	}
	return entity.ViewOf(task, logs)
}

// Get returns a copy of the task. A PROCESSING task carries its live logs.
func (s *Supervisor) Get(ctx context.Context, id string) (*entity.Task, error) {
	task, logs, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if logs != nil {
		task.Logs = logs
	}
	return task, nil
}

// lookup reads the record and, while it is PROCESSING, the live logs.
func (s *Supervisor) lookup(ctx context.Context, id string) (*entity.Task, []string, error) {
	s.mu.RLock()
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		s.mu.RUnlock()
		return nil, nil, err
	}
	var sink *capture.Sink
	if r, ok := s.inflight[id]; ok && task.Status == entity.TaskStatusProcessing {
		sink = r.sink
	}
	s.mu.RUnlock()

	if sink == nil {
		return task, nil, nil
	}
	return task, sink.Logs(), nil
}

// List returns every known task in submission order.
func (s *Supervisor) List(ctx context.Context) ([]*entity.Task, error) {
	return s.repo.List(ctx)
}

// Sweep deletes terminal tasks that completed more than retention ago and
// returns how many were removed.
func (s *Supervisor) Sweep(ctx context.Context, retention time.Duration) (int, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-retention)
	removed := 0
	for _, task := range tasks {
		if !task.Status.IsTerminal() || task.CompletedAt == nil || task.CompletedAt.After(cutoff) {
			continue
		}
		if err := s.repo.Delete(ctx, task.ID); err != nil && !errors.Is(err, errno.ErrTaskNotFound) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Close stops accepting submissions, aborts every in-flight task and waits
// for them to record their final state or for ctx to expire.
func (s *Supervisor) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, r := range s.inflight {
		r.handle.Abort()
	}
	s.mu.Unlock()
	s.stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoX(pkg.ModuleName, "[Tasks] supervisor closed")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for tasks: %w", ctx.Err())
	}
}
