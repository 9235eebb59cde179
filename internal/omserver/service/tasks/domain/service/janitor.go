package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/pkg"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Janitor periodically sweeps finished tasks older than the retention.
type Janitor struct {
	cron       *cron.Cron
	supervisor *Supervisor
	retention  time.Duration
}

// NewJanitor schedules sweeps of s on spec, a standard cron expression or
// descriptor such as "@every 1m".
func NewJanitor(s *Supervisor, spec string, retention time.Duration) (*Janitor, error) {
	j := &Janitor{
		cron:       cron.New(),
		supervisor: s,
		retention:  retention,
	}
	if _, err := j.cron.AddFunc(spec, j.sweep); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Janitor) sweep() {
	removed, err := j.supervisor.Sweep(context.Background(), j.retention)
	if err != nil {
		logger.WarnX(pkg.ModuleName, "[Janitor] sweep failed: %v", err)
		return
	}
	if removed > 0 {
		logger.InfoX(pkg.ModuleName, "[Janitor] removed %d expired tasks", removed)
	}
}

func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop stops scheduling and waits for a running sweep or ctx.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
