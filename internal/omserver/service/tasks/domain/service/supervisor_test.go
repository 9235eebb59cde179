package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/pkg/errno"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/store/inmemory"
)

// gated lets a test drive an orchestrator step by step.
type gated struct {
	step chan string
	done chan struct{}
}

func newGated() *gated {
	return &gated{step: make(chan string), done: make(chan struct{})}
}

func (g *gated) Run(ctx context.Context, _ string, out io.Writer) (string, error) {
	for {
		select {
		case s := <-g.step:
			_, _ = io.WriteString(out, s)
		case <-g.done:
			return "", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func newSupervisor(t *testing.T, orch Orchestrator) *Supervisor {
	t.Helper()
	s := NewSupervisor(inmemory.NewTaskStore(), orch)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, s.Close(ctx))
	})
	return s
}

func waitStatus(t *testing.T, s *Supervisor, id string, want entity.ViewStatus) entity.View {
	t.Helper()
	var v entity.View
	require.Eventually(t, func() bool {
		v = s.GetStatus(context.Background(), id)
		return v.Status == want
	}, 5*time.Second, 5*time.Millisecond)
	return v
}

func TestSubmitReturnsWhileProcessing(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGated()
	s := newSupervisor(t, g)
	ctx := context.Background()

	id, err := s.Submit(ctx, "write a haiku")
	require.NoError(t, err)
	assert.Equal(t, "task_1", id)

	task, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusProcessing, task.Status)
	assert.Equal(t, "write a haiku", task.Input)
	assert.Empty(t, task.Logs)

	v := s.GetStatus(ctx, id)
	assert.Equal(t, entity.ViewStatusProcessing, v.Status)
	assert.Equal(t, "Task is still processing", v.Message)

	close(g.done)
	waitStatus(t, s, id, entity.ViewStatusSuccess)
}

func TestTaskIDsFollowSubmissionOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		return "ok", nil
	}))

	for i := 1; i <= 3; i++ {
		id, err := s.Submit(context.Background(), fmt.Sprintf("p%d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("task_%d", i), id)
	}
	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, task := range list {
		assert.Equal(t, fmt.Sprintf("task_%d", i+1), task.ID)
	}
}

func TestCompletedResultIsCapturedOutput(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(_ context.Context, _ string, out io.Writer) (string, error) {
		fmt.Fprint(out, "Step 1\n")
		fmt.Fprint(out, "Done\n")
		return "ignored", nil
	}))

	id, err := s.Submit(context.Background(), "x")
	require.NoError(t, err)

	v := waitStatus(t, s, id, entity.ViewStatusSuccess)
	assert.Equal(t, "Task completed", v.Message)
	require.NotNil(t, v.Results)
	assert.Equal(t, "Step 1\nDone\n", *v.Results)

	task, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCompleted, task.Status)
	assert.Equal(t, []string{"Step 1\n", "Done\n"}, task.Logs)
	assert.Equal(t, strings.Join(task.Logs, ""), task.Result)
	assert.NotNil(t, task.CompletedAt)
	assert.Empty(t, task.Error)
}

func TestCompletedResultFallsBackToReturnedOutput(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		return "final answer", nil
	}))
	id, err := s.Submit(context.Background(), "x")
	require.NoError(t, err)

	v := waitStatus(t, s, id, entity.ViewStatusSuccess)
	assert.Equal(t, "final answer", *v.Results)
}

func TestCompletedWithoutOutput(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		return "", nil
	}))
	id, err := s.Submit(context.Background(), "x")
	require.NoError(t, err)

	v := waitStatus(t, s, id, entity.ViewStatusSuccess)
	assert.Equal(t, "No results available", *v.Results)
}

func TestFailedTaskKeepsPartialLogs(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(_ context.Context, _ string, out io.Writer) (string, error) {
		fmt.Fprint(out, "partial")
		return "", errors.New("boom")
	}))
	id, err := s.Submit(context.Background(), "x")
	require.NoError(t, err)

	v := waitStatus(t, s, id, entity.ViewStatusError)
	assert.Equal(t, "Task failed: boom", v.Message)
	assert.Equal(t, "partial", *v.Results)

	task, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusError, task.Status)
	assert.Equal(t, "boom", task.Error)
	assert.Empty(t, task.Result)
}

func TestPanicEndsInError(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		panic("kaboom")
	}))
	id, err := s.Submit(context.Background(), "x")
	require.NoError(t, err)

	v := waitStatus(t, s, id, entity.ViewStatusError)
	assert.Contains(t, v.Message, "kaboom")
}

func TestUnknownTaskIsNotFound(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		return "", nil
	}))
	_, err := s.Submit(context.Background(), "x")
	require.NoError(t, err)

	v := s.GetStatus(context.Background(), "task_999")
	assert.Equal(t, entity.ViewStatusError, v.Status)
	assert.Equal(t, "Task not found", v.Message)
	assert.Nil(t, v.Results)

	_, err = s.Get(context.Background(), "task_999")
	assert.ErrorIs(t, err, errno.ErrTaskNotFound)
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProcessingLogsNeverShrink(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGated()
	s := newSupervisor(t, g)
	ctx := context.Background()
	id, err := s.Submit(ctx, "x")
	require.NoError(t, err)

	prev := 0
	for i := 0; i < 5; i++ {
		g.step <- fmt.Sprintf("line %d", i)
		require.Eventually(t, func() bool {
			task, err := s.Get(ctx, id)
			if err != nil || len(task.Logs) < prev {
				t.Errorf("logs shrank or task vanished: %v", err)
				return true
			}
			prev = len(task.Logs)
			return prev == i+1
		}, 5*time.Second, time.Millisecond)

		v := s.GetStatus(ctx, id)
		assert.Equal(t, entity.ViewStatusProcessing, v.Status)
		assert.True(t, strings.HasSuffix(*v.Results, fmt.Sprintf("line %d", i)))
	}
	close(g.done)

	v := waitStatus(t, s, id, entity.ViewStatusSuccess)
	assert.Equal(t, "line 0line 1line 2line 3line 4", *v.Results)
}

func TestConcurrentTasksAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(_ context.Context, prompt string, out io.Writer) (string, error) {
		for i := 0; i < 20; i++ {
			fmt.Fprintf(out, "%s;", prompt)
		}
		if prompt == "p3" {
			return "", errors.New("p3 failed")
		}
		return "", nil
	}))

	ids := make([]string, 6)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.Submit(context.Background(), fmt.Sprintf("p%d", i))
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		prompt := fmt.Sprintf("p%d", i)
		if prompt == "p3" {
			v := waitStatus(t, s, id, entity.ViewStatusError)
			assert.Equal(t, "Task failed: p3 failed", v.Message)
			continue
		}
		v := waitStatus(t, s, id, entity.ViewStatusSuccess)
		assert.Equal(t, strings.Repeat(prompt+";", 20), *v.Results)
	}
}

func TestCloseAbortsRunningTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGated()
	s := NewSupervisor(inmemory.NewTaskStore(), g)
	id, err := s.Submit(context.Background(), "x")
	require.NoError(t, err)
	g.step <- "started"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))

	task, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusError, task.Status)
	assert.Equal(t, context.Canceled.Error(), task.Error)
	assert.Equal(t, []string{"started"}, task.Logs)

	_, err = s.Submit(context.Background(), "late")
	assert.ErrorIs(t, err, errno.ErrSupervisorClosed)
}

func TestCloseHonoursDeadline(t *testing.T) {
	stuck := make(chan struct{})
	s := NewSupervisor(inmemory.NewTaskStore(), OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		<-stuck
		return "", nil
	}))
	_, err := s.Submit(context.Background(), "x")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Close(ctx), context.DeadlineExceeded)

	close(stuck)
	require.NoError(t, s.Close(context.Background()))
	s.wg.Wait()
}

func TestSweepRemovesExpiredTerminalTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGated()
	s := newSupervisor(t, OrchestratorFunc(func(ctx context.Context, prompt string, out io.Writer) (string, error) {
		if prompt == "slow" {
			return g.Run(ctx, prompt, out)
		}
		return "", nil
	}))
	ctx := context.Background()

	done, err := s.Submit(ctx, "fast")
	require.NoError(t, err)
	waitStatus(t, s, done, entity.ViewStatusSuccess)
	slow, err := s.Submit(ctx, "slow")
	require.NoError(t, err)

	removed, err := s.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err = s.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.Equal(t, "Task not found", s.GetStatus(ctx, done).Message)
	assert.Equal(t, entity.ViewStatusProcessing, s.GetStatus(ctx, slow).Status)
	close(g.done)
	waitStatus(t, s, slow, entity.ViewStatusSuccess)
}

func TestJanitor(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSupervisor(t, OrchestratorFunc(func(context.Context, string, io.Writer) (string, error) {
		return "", nil
	}))

	_, err := NewJanitor(s, "not a schedule", time.Minute)
	assert.Error(t, err)

	j, err := NewJanitor(s, "@every 1h", time.Minute)
	require.NoError(t, err)
	j.Start()
	j.sweep()
	j.Stop(context.Background())
}

func TestHandle(t *testing.T) {
	h := newHandle(context.Background(), "task_1")
	assert.False(t, h.IsAborted())
	assert.NoError(t, h.CheckAborted())

	h.Abort()
	h.Abort()
	assert.True(t, h.IsAborted())
	assert.ErrorIs(t, h.CheckAborted(), errno.ErrAborted)
	assert.Error(t, h.Context().Err())
	h.CleanUp()

	parent, cancel := context.WithCancel(context.Background())
	h = newHandle(parent, "task_2")
	cancel()
	assert.True(t, h.IsAborted())
	h.CleanUp()
}
