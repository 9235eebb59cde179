package wait

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/status"
	cmdutil "github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/util"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
)

var waitExample = heredoc.Doc(`
	# Wait for a task and print its result
	omctl wait task_1

	# Give up after five minutes
	omctl wait task_1 --deadline 5m`)

// ErrTaskFailed is returned when the awaited task ended in error.
var ErrTaskFailed = errors.New("task failed")

// WaitOptions is an options struct to support 'wait' sub command.
type WaitOptions struct {
	Interval time.Duration
	Deadline time.Duration
	Follow   bool

	client *cmdutil.APIClient
	cmdutil.IOStreams
}

// NewWaitOptions returns an initialized WaitOptions instance.
func NewWaitOptions(ioStreams cmdutil.IOStreams) *WaitOptions {
	return &WaitOptions{
		Interval:  time.Second,
		Follow:    true,
		IOStreams: ioStreams,
	}
}

// NewCmdWait returns new initialized instance of 'wait' sub command.
func NewCmdWait(f cmdutil.Factory, ioStreams cmdutil.IOStreams) *cobra.Command {
	o := NewWaitOptions(ioStreams)

	cmd := &cobra.Command{
		Use:                   "wait TASK_ID",
		DisableFlagsInUseLine: true,
		Short:                 "Wait for a task to finish",
		Long:                  "Poll a task until it completes or fails, printing new progress lines as they appear.",
		Example:               waitExample,
		Args:                  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o.client = f.APIClient()
			cmdutil.CheckErr(o.Run(cmd.Context(), args))
		},
	}

	cmd.Flags().DurationVar(&o.Interval, "interval", o.Interval, "Time between two polls.")
	cmd.Flags().DurationVar(&o.Deadline, "deadline", o.Deadline, "Give up after this long, 0 waits forever.")
	cmd.Flags().BoolVarP(&o.Follow, "follow", "f", o.Follow, "Print progress lines while the task runs.")

	return cmd
}

// Validate checks the options.
func (o *WaitOptions) Validate() error {
	if o.Interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", o.Interval)
	}
	if o.Deadline < 0 {
		return fmt.Errorf("--deadline must not be negative, got %s", o.Deadline)
	}
	return nil
}

// Run executes a wait sub command using the specified options.
func (o *WaitOptions) Run(ctx context.Context, args []string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Deadline)
		defer cancel()
	}

	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()

	var followed string
	for {
		view, err := o.client.Status(ctx, args[0])
		if err != nil {
			o.endFollow(followed)
			return err
		}

		switch view.Status {
		case entity.ViewStatusProcessing:
			if o.Follow && view.Results != nil {
				followed = o.follow(*view.Results, followed)
			}
		case entity.ViewStatusError:
			o.endFollow(followed)
			status.PrintView(o.IOStreams, view)
			return ErrTaskFailed
		default:
			o.endFollow(followed)
			status.PrintView(o.IOStreams, view)
			return nil
		}

		select {
		case <-ctx.Done():
			o.endFollow(followed)
			return fmt.Errorf("waiting for %s: %w", args[0], ctx.Err())
		case <-ticker.C:
		}
	}
}

// follow prints the part of logs that was not printed yet and returns what
// has been printed so far. Logs of a running task only ever grow.
func (o *WaitOptions) follow(logs, printed string) string {
	if len(logs) <= len(printed) {
		return printed
	}
	fmt.Fprint(o.ErrOut, logs[len(printed):])
	return logs
}

// endFollow terminates the last followed line.
func (o *WaitOptions) endFollow(printed string) {
	if printed != "" && !strings.HasSuffix(printed, "\n") {
		fmt.Fprintln(o.ErrOut)
	}
}
