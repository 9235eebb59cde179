package options

import (
	genericoptions "github.com/xAGI-labs/ProjectOM/internal/pkg/options"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
	"github.com/xAGI-labs/ProjectOM/pkg/utils/cliflag"
	"github.com/xAGI-labs/ProjectOM/pkg/utils/json"
)

// Options runs an omserver.
type Options struct {
	GenericServerRunOptions *genericoptions.ServerRunOptions       `json:"server"   mapstructure:"server"`
	InsecureServing         *genericoptions.InsecureServingOptions `json:"insecure" mapstructure:"insecure"`
	FeatureOptions          *genericoptions.FeatureOptions         `json:"feature"  mapstructure:"feature"`
	MCPOptions              *MCPOptions                            `json:"mcp"      mapstructure:"mcp"`
	TasksOptions            *TasksOptions                          `json:"tasks"    mapstructure:"tasks"`
	ToolsOptions            *ToolsOptions                          `json:"tools"    mapstructure:"tools"`
	AgentOptions            *AgentOptions                          `json:"agent"    mapstructure:"agent"`
	Log                     *logger.Options                        `json:"log"      mapstructure:"log"`
}

// NewOptions creates a new Options object with default parameters.
func NewOptions() *Options {
	return &Options{
		GenericServerRunOptions: genericoptions.NewServerRunOptions(),
		InsecureServing:         genericoptions.NewInsecureServingOptions(),
		FeatureOptions:          genericoptions.NewFeatureOptions(),
		MCPOptions:              NewMCPOptions(),
		TasksOptions:            NewTasksOptions(),
		ToolsOptions:            NewToolsOptions(),
		AgentOptions:            NewAgentOptions(),
		Log:                     logger.NewOptions(),
	}
}

func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.GenericServerRunOptions.AddFlags(fss.FlagSet("generic"))
	o.InsecureServing.AddFlags(fss.FlagSet("insecure serving"))
	o.FeatureOptions.AddFlags(fss.FlagSet("features"))
	o.MCPOptions.AddFlags(fss.FlagSet("mcp"))
	o.TasksOptions.AddFlags(fss.FlagSet("tasks"))
	o.ToolsOptions.AddFlags(fss.FlagSet("tools"))
	o.AgentOptions.AddFlags(fss.FlagSet("agent"))
	o.Log.AddFlags(fss.FlagSet("logs"))

	return fss
}

// Validate checks Options and return a slice of found errs.
func (o *Options) Validate() []error {
	var errs []error

	errs = append(errs, o.GenericServerRunOptions.Validate()...)
	errs = append(errs, o.InsecureServing.Validate()...)
	errs = append(errs, o.FeatureOptions.Validate()...)
	errs = append(errs, o.MCPOptions.Validate()...)
	errs = append(errs, o.TasksOptions.Validate()...)
	errs = append(errs, o.ToolsOptions.Validate()...)
	errs = append(errs, o.AgentOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}

// Complete set default Options.
func (o *Options) Complete() error {
	return o.MCPOptions.Complete()
}
