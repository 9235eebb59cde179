package cmd

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	cmdutil "github.com/xAGI-labs/ProjectOM/internal/omctl/cmd/util"
)

// EnvPrefix is the prefix of environment variables that override global flags,
// e.g. OMCTL_SERVER.
const EnvPrefix = "OMCTL"

// AddGlobalFlags registers the flags every omctl command shares.
func AddGlobalFlags(flags *pflag.FlagSet) {
	flags.String(cmdutil.FlagServer, "http://127.0.0.1:5000", "Base URL of the omserver instance.")
	flags.String(cmdutil.FlagMCPEndpoint, "/mcp", "Path of the MCP endpoint on the server.")
	flags.Duration(cmdutil.FlagTimeout, 30*time.Second, "Timeout of a single HTTP request to the server.")
}

// BindEnv lets OMCTL_* environment variables override global flags.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}
