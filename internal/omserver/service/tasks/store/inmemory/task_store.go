package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/repo"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/pkg/errno"
)

var _ repo.TaskRepository = (*TaskStore)(nil)

type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*entity.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*entity.Task),
	}
}

func (s *TaskStore) Create(_ context.Context, task *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; ok {
		return errno.ErrTaskExists
	}
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *TaskStore) Get(_ context.Context, id string) (*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, errno.ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (s *TaskStore) Update(_ context.Context, task *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return errno.ErrTaskNotFound
	}
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *TaskStore) List(_ context.Context) ([]*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]*entity.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Seq < tasks[j].Seq })
	return tasks, nil
}

func (s *TaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return errno.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}
