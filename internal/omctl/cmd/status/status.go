package status

import (
	"context"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdutil "github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/util"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
	"github.com/xAGI-labs/ProjectOM/pkg/utils/json"
)

var statusExample = heredoc.Doc(`
	# Show the status of a task
	omctl status task_1

	# Print the raw server reply
	omctl status task_1 -o json`)

// StatusOptions is an options struct to support 'status' sub command.
type StatusOptions struct {
	Output string

	client *cmdutil.APIClient
	cmdutil.IOStreams
}

// NewStatusOptions returns an initialized StatusOptions instance.
func NewStatusOptions(ioStreams cmdutil.IOStreams) *StatusOptions {
	return &StatusOptions{IOStreams: ioStreams}
}

// NewCmdStatus returns new initialized instance of 'status' sub command.
func NewCmdStatus(f cmdutil.Factory, ioStreams cmdutil.IOStreams) *cobra.Command {
	o := NewStatusOptions(ioStreams)

	cmd := &cobra.Command{
		Use:                   "status TASK_ID",
		DisableFlagsInUseLine: true,
		Short:                 "Show the status of a task",
		Long:                  "Show the status, progress logs and result of a task.",
		Example:               statusExample,
		Args:                  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o.client = f.APIClient()
			cmdutil.CheckErr(o.Run(cmd.Context(), args))
		},
	}

	cmd.Flags().StringVarP(&o.Output, "output", "o", o.Output, "Output format, empty or json.")

	return cmd
}

// Validate checks the options.
func (o *StatusOptions) Validate() error {
	switch o.Output {
	case "", "json":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", o.Output)
	}
}

// Run executes a status sub command using the specified options.
func (o *StatusOptions) Run(ctx context.Context, args []string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	view, err := o.client.Status(ctx, args[0])
	if err != nil {
		return err
	}
	if o.Output == "json" {
		return PrintJSON(o.Out, view)
	}
	PrintView(o.IOStreams, view)
	return nil
}

// PrintJSON writes view as indented JSON.
func PrintJSON(out io.Writer, view *entity.View) error {
	b, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}

// PrintView renders a view for humans.
func PrintView(s cmdutil.IOStreams, view *entity.View) {
	var st string
	switch view.Status {
	case entity.ViewStatusSuccess:
		st = color.GreenString(string(view.Status))
	case entity.ViewStatusError:
		st = color.RedString(string(view.Status))
	default:
		st = color.YellowString(string(view.Status))
	}
	fmt.Fprintf(s.Out, "%s: %s\n", st, view.Message)
	if view.Results != nil && *view.Results != "" {
		fmt.Fprintln(s.Out)
		fmt.Fprintln(s.Out, *view.Results)
	}
}
