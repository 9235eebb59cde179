package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	cmdutil "github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/util"
)

var toolsExample = heredoc.Doc(`
	# List the operations the server exposes over MCP
	omctl tools

	# Show the parameters as well
	omctl tools --wide`)

// ToolsOptions is an options struct to support 'tools' sub command.
type ToolsOptions struct {
	Wide bool

	factory cmdutil.Factory
	cmdutil.IOStreams
}

// NewToolsOptions returns an initialized ToolsOptions instance.
func NewToolsOptions(f cmdutil.Factory, ioStreams cmdutil.IOStreams) *ToolsOptions {
	return &ToolsOptions{factory: f, IOStreams: ioStreams}
}

// NewCmdTools returns new initialized instance of 'tools' sub command.
func NewCmdTools(f cmdutil.Factory, ioStreams cmdutil.IOStreams) *cobra.Command {
	o := NewToolsOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "tools",
		DisableFlagsInUseLine: true,
		Aliases:               []string{"ops"},
		Short:                 "List the operations exposed over MCP",
		Long:                  "Connect to the MCP endpoint of the server and list the operations it advertises.",
		Example:               toolsExample,
		Args:                  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmdutil.CheckErr(o.Run(cmd.Context(), args))
		},
	}

	cmd.Flags().BoolVarP(&o.Wide, "wide", "w", o.Wide, "Print the parameters of each operation.")

	return cmd
}

// Run executes a tools sub command using the specified options.
func (o *ToolsOptions) Run(ctx context.Context, _ []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := o.factory.MCPClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	if o.Wide {
		table.AddRow("NAME", "PARAMETERS", "DESCRIPTION")
	} else {
		table.AddRow("NAME", "DESCRIPTION")
	}
	for _, tool := range res.Tools {
		desc := firstLine(tool.Description)
		if o.Wide {
			table.AddRow(tool.Name, params(tool.InputSchema), desc)
			continue
		}
		table.AddRow(tool.Name, desc)
	}
	fmt.Fprintln(o.Out, table)
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// params renders "name*" for required and "name" for optional parameters.
func params(schema mcp.ToolInputSchema) string {
	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if required[name] {
			name += "*"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
