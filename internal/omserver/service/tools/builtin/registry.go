package builtin

import (
	"fmt"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/options"
	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
)

// Factory builds one builtin tool from the tools options.
type Factory func(opts *options.ToolsOptions) tools.Tool

// InTreeRegistry is the set of builtin tool factories, keyed by tool name.
type InTreeRegistry struct {
	factories map[string]Factory
}

// NewInTreeRegistry creates the registry of every builtin tool:
//   - bash: shell commands
//   - browser: chromedp driven Chrome session
//   - str_replace_editor: file viewing and editing
//   - terminate: ends an agent interaction
func NewInTreeRegistry() *InTreeRegistry {
	return &InTreeRegistry{factories: map[string]Factory{
		BashToolName: func(o *options.ToolsOptions) tools.Tool {
			return NewBash(BashConfig{
				WorkDir:        o.Shell.WorkDir,
				Timeout:        o.Shell.Timeout,
				MaxOutputBytes: o.Shell.MaxOutputBytes,
			})
		},
		BrowserToolName: func(o *options.ToolsOptions) tools.Tool {
			return NewBrowser(BrowserConfig{
				Headless:   o.Browser.Headless,
				ProfileDir: o.Browser.ProfileDir,
				Timeout:    o.Browser.Timeout,
				ExecPath:   o.Browser.ExecPath,
			})
		},
		EditorToolName: func(o *options.ToolsOptions) tools.Tool {
			return NewEditor(EditorConfig{Root: o.Editor.Root})
		},
		TerminateToolName: func(*options.ToolsOptions) tools.Tool {
			return NewTerminate()
		},
	}}
}

// Build instantiates the tools listed in opts.Enabled, in that order.
func (r *InTreeRegistry) Build(opts *options.ToolsOptions) ([]tools.Tool, error) {
	out := make([]tools.Tool, 0, len(opts.Enabled))
	for _, name := range opts.Enabled {
		f, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a builtin tool", tools.ErrUnknownTool, name)
		}
		out = append(out, f(opts))
	}
	return out, nil
}
