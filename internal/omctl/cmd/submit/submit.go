package submit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	cmdutil "github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/util"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
)

var submitExample = heredoc.Doc(`
	# Start a task and print its id
	omctl submit "summarize the README in this directory"

	# Read the prompt from stdin
	echo "list open ports" | omctl submit -`)

// SubmitOptions is an options struct to support 'submit' sub command.
type SubmitOptions struct {
	Quiet bool

	client *cmdutil.APIClient
	cmdutil.IOStreams
}

// NewSubmitOptions returns an initialized SubmitOptions instance.
func NewSubmitOptions(ioStreams cmdutil.IOStreams) *SubmitOptions {
	return &SubmitOptions{IOStreams: ioStreams}
}

// NewCmdSubmit returns new initialized instance of 'submit' sub command.
func NewCmdSubmit(f cmdutil.Factory, ioStreams cmdutil.IOStreams) *cobra.Command {
	o := NewSubmitOptions(ioStreams)

	cmd := &cobra.Command{
		Use:                   "submit PROMPT",
		DisableFlagsInUseLine: true,
		Short:                 "Submit a prompt to the server",
		Long:                  "Submit a prompt to the server and print the id of the task that runs it.",
		Example:               submitExample,
		Args:                  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o.client = f.APIClient()
			cmdutil.CheckErr(o.Run(cmd.Context(), args))
		},
	}

	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", o.Quiet, "Only print the task id.")

	return cmd
}

// Run executes a submit sub command using the specified options.
func (o *SubmitOptions) Run(ctx context.Context, args []string) error {
	prompt := args[0]
	if prompt == "-" {
		b, err := io.ReadAll(o.In)
		if err != nil {
			return fmt.Errorf("read prompt from stdin: %w", err)
		}
		prompt = strings.TrimRight(string(b), "\n")
	}

	view, err := o.client.Submit(ctx, prompt)
	if err != nil {
		return err
	}
	if view.Status == entity.ViewStatusError {
		return errors.New(view.Message)
	}

	id, ok := TaskID(view.Message)
	if !ok {
		return fmt.Errorf("unexpected server reply: %s", view.Message)
	}
	if o.Quiet {
		fmt.Fprintln(o.Out, id)
		return nil
	}
	fmt.Fprintln(o.Out, view.Message)
	return nil
}

// TaskID extracts the task id from a submission message.
func TaskID(message string) (string, bool) {
	const marker = "ID: "
	i := strings.LastIndex(message, marker)
	if i < 0 {
		return "", false
	}
	id := strings.TrimSpace(message[i+len(marker):])
	return id, id != ""
}
