package options

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
)

// TasksOptions configures the task supervisor.
type TasksOptions struct {
	// Retention is how long finished tasks are kept. Zero keeps them for the
	// lifetime of the process.
	Retention time.Duration `json:"retention"    mapstructure:"retention"`
	// JanitorSpec is the cron schedule of the retention sweep.
	JanitorSpec string `json:"janitor-spec" mapstructure:"janitor-spec"`
	// ShutdownGrace bounds how long Close waits for running tasks.
	ShutdownGrace time.Duration `json:"shutdown-grace" mapstructure:"shutdown-grace"`
}

// NewTasksOptions creates a default TasksOptions instance.
func NewTasksOptions() *TasksOptions {
	return &TasksOptions{
		Retention:     0,
		JanitorSpec:   "@every 1m",
		ShutdownGrace: 10 * time.Second,
	}
}

// Validate checks the TasksOptions for correctness.
func (o *TasksOptions) Validate() []error {
	var errs []error
	if o.Retention < 0 {
		errs = append(errs, fmt.Errorf("--tasks.retention must not be negative"))
	}
	if o.Retention > 0 {
		if _, err := cron.ParseStandard(o.JanitorSpec); err != nil {
			errs = append(errs, fmt.Errorf("--tasks.janitor-spec: %w", err))
		}
	}
	if o.ShutdownGrace < 0 {
		errs = append(errs, fmt.Errorf("--tasks.shutdown-grace must not be negative"))
	}
	return errs
}

// AddFlags adds the TasksOptions flags to the given flag set.
func (o *TasksOptions) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.Retention, "tasks.retention", o.Retention, "Drop finished tasks older than this. 0 keeps every task until exit.")
	fs.StringVar(&o.JanitorSpec, "tasks.janitor-spec", o.JanitorSpec, "Cron schedule of the retention sweep.")
	fs.DurationVar(&o.ShutdownGrace, "tasks.shutdown-grace", o.ShutdownGrace, "How long shutdown waits for running tasks after cancelling them.")
}
