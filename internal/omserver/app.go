package omserver

import (
	"github.com/xAGI-labs/ProjectOM/internal/omserver/config"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/options"
	"github.com/xAGI-labs/ProjectOM/pkg/app"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

const commandDesc = `The OpenManus server exposes the agent tools (bash, browser, file editor,
terminate) over the Model Context Protocol, and runs submitted prompts as
background tasks that clients poll over HTTP.

Find more information at:
    https://github.com/xAGI-labs/ProjectOM`

// NewApp creates an App object with default parameters.
func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	application := app.NewApp("OpenManus Server",
		basename,
		app.WithOptions(opts),
		app.WithDescription(commandDesc),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		if err := logger.Init(opts.Log); err != nil {
			return err
		}
		defer logger.FlushLog()

		cfg, err := config.CreateConfigFromOptions(opts)
		if err != nil {
			return err
		}

		return Run(cfg)
	}
}
