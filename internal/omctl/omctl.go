// Package omctl implements the omctl command line client of omserver.
package omctl

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xAGI-labs/ProjectOM/internal/omctl/cmd"
	"github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/status"
	"github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/submit"
	"github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/tools"
	cmdutil "github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/util"
	"github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/wait"
	"github.com/xAGI-labs/ProjectOM/pkg/utils/cliflag"
	"github.com/xAGI-labs/ProjectOM/pkg/version/verflag"
)

// NewDefaultOMCtlCommand creates the `omctl` command with default arguments.
func NewDefaultOMCtlCommand() *cobra.Command {
	return NewOMCtlCommand(os.Stdin, os.Stdout, os.Stderr)
}

// NewOMCtlCommand creates the `omctl` command bound to the given streams.
func NewOMCtlCommand(in io.Reader, out, err io.Writer) *cobra.Command {
	return newOMCtlCommand(cmdutil.NewDefaultFactory(), cmdutil.IOStreams{In: in, Out: out, ErrOut: err})
}

func newOMCtlCommand(f cmdutil.Factory, ioStreams cmdutil.IOStreams) *cobra.Command {
	// Parent command to which all subcommands are added.
	cmds := &cobra.Command{
		Use:   "omctl",
		Short: "omctl submits prompts to omserver and follows their tasks",
		Long: fmt.Sprintf("%s\n%s", cmd.Banner(), heredoc.Doc(`
			omctl is the command line client of omserver.

			It submits prompts to the agent behind the server, polls the tasks
			that run them and lists the operations the server exposes over MCP.`)),
		Run: runHelp,
		PersistentPreRun: func(*cobra.Command, []string) {
			verflag.PrintAndExitIfRequested()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmds.SetIn(ioStreams.In)
	cmds.SetOut(ioStreams.Out)
	cmds.SetErr(ioStreams.ErrOut)

	flags := cmds.PersistentFlags()
	// Normalize all flags that are coming from other packages or pre-configurations
	flags.SetNormalizeFunc(cliflag.WordSepNormalizeFunc)

	cmd.AddGlobalFlags(flags)

	_ = viper.BindPFlags(cmds.PersistentFlags())
	cmd.BindEnv(viper.GetViper())
	cmds.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	// From this point and forward we get warnings on flags that contain "_" separators
	cmds.SetGlobalNormalizationFunc(cliflag.WarnWordSepNormalizeFunc)

	cmds.AddGroup(
		&cobra.Group{ID: "basic", Title: "Basic Commands:"},
		&cobra.Group{ID: "discovery", Title: "Discovery Commands:"},
	)
	for _, c := range []*cobra.Command{
		submit.NewCmdSubmit(f, ioStreams),
		status.NewCmdStatus(f, ioStreams),
		wait.NewCmdWait(f, ioStreams),
	} {
		c.GroupID = "basic"
		cmds.AddCommand(c)
	}
	toolsCmd := tools.NewCmdTools(f, ioStreams)
	toolsCmd.GroupID = "discovery"
	cmds.AddCommand(toolsCmd)

	verflag.AddFlags(cmds.PersistentFlags())

	return cmds
}

func runHelp(cmd *cobra.Command, args []string) {
	_ = cmd.Help()
}
