package builtin

import (
	"context"
	"fmt"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
)

const TerminateToolName = "terminate"

// Terminate lets an agent declare that the interaction is over.
type Terminate struct{}

func NewTerminate() *Terminate { return &Terminate{} }

func (t *Terminate) Descriptor() tools.Descriptor {
	return tools.Descriptor{
		Name: TerminateToolName,
		Description: "Terminate the interaction when the request is met OR if the assistant cannot proceed further with the task.\n" +
			"When you have finished all the tasks, call this tool to end the work.",
		Parameters: []tools.Parameter{
			{
				Name:        "status",
				Type:        tools.TypeString,
				Description: "The finish status of the interaction, success or failure.",
				Required:    true,
			},
		},
	}
}

func (t *Terminate) Execute(_ context.Context, args map[string]any) (any, error) {
	status, err := tools.RequireString(args, "status")
	if err != nil {
		return nil, err
	}
	if status != "success" && status != "failure" {
		return nil, fmt.Errorf("%w: status must be success or failure, got %q", tools.ErrInvalidArgument, status)
	}
	return fmt.Sprintf("The interaction has been completed with status: %s", status), nil
}
