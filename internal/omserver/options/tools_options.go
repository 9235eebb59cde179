package options

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
)

// ToolsOptions configures the builtin tools exposed through the MCP host.
type ToolsOptions struct {
	// Enabled lists the builtin tools to register, in order.
	Enabled []string        `json:"enabled" mapstructure:"enabled"`
	Shell   *ShellOptions   `json:"shell"   mapstructure:"shell"`
	Browser *BrowserOptions `json:"browser" mapstructure:"browser"`
	Editor  *EditorOptions  `json:"editor"  mapstructure:"editor"`
}

type ShellOptions struct {
	WorkDir        string        `json:"workdir"          mapstructure:"workdir"`
	Timeout        time.Duration `json:"timeout"          mapstructure:"timeout"`
	MaxOutputBytes int           `json:"max-output-bytes" mapstructure:"max-output-bytes"`
}

type BrowserOptions struct {
	Headless   bool          `json:"headless"    mapstructure:"headless"`
	ProfileDir string        `json:"profile-dir" mapstructure:"profile-dir"`
	Timeout    time.Duration `json:"timeout"     mapstructure:"timeout"`
	ExecPath   string        `json:"exec-path"   mapstructure:"exec-path"`
}

type EditorOptions struct {
	Root string `json:"root" mapstructure:"root"`
}

// NewToolsOptions creates a default ToolsOptions instance.
func NewToolsOptions() *ToolsOptions {
	return &ToolsOptions{
		Enabled: []string{"bash", "browser", "str_replace_editor", "terminate"},
		Shell: &ShellOptions{
			Timeout:        120 * time.Second,
			MaxOutputBytes: 64 * 1024,
		},
		Browser: &BrowserOptions{
			Headless: true,
			Timeout:  30 * time.Second,
		},
		Editor: &EditorOptions{},
	}
}

// Validate checks the ToolsOptions for correctness.
func (o *ToolsOptions) Validate() []error {
	var errs []error
	seen := make(map[string]bool, len(o.Enabled))
	for _, name := range o.Enabled {
		if seen[name] {
			errs = append(errs, fmt.Errorf("--tools.enabled lists %q twice", name))
		}
		seen[name] = true
	}
	if o.Shell.Timeout < 0 {
		errs = append(errs, fmt.Errorf("--tools.shell.timeout must not be negative"))
	}
	if o.Browser.Timeout < 0 {
		errs = append(errs, fmt.Errorf("--tools.browser.timeout must not be negative"))
	}
	if o.Editor.Root != "" && !filepath.IsAbs(o.Editor.Root) {
		errs = append(errs, fmt.Errorf("--tools.editor.root must be an absolute path"))
	}
	return errs
}

// AddFlags adds the ToolsOptions flags to the given flag set.
func (o *ToolsOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&o.Enabled, "tools.enabled", o.Enabled, "Builtin tools to expose: bash, browser, str_replace_editor, terminate.")
	fs.StringVar(&o.Shell.WorkDir, "tools.shell.workdir", o.Shell.WorkDir, "Working directory of the bash tool.")
	fs.DurationVar(&o.Shell.Timeout, "tools.shell.timeout", o.Shell.Timeout, "Timeout of one bash command.")
	fs.IntVar(&o.Shell.MaxOutputBytes, "tools.shell.max-output-bytes", o.Shell.MaxOutputBytes, "Truncate bash output beyond this size.")
	fs.BoolVar(&o.Browser.Headless, "tools.browser.headless", o.Browser.Headless, "Run the browser without a window.")
	fs.StringVar(&o.Browser.ProfileDir, "tools.browser.profile-dir", o.Browser.ProfileDir, "Chrome user data directory, a temporary one when empty.")
	fs.DurationVar(&o.Browser.Timeout, "tools.browser.timeout", o.Browser.Timeout, "Default timeout of one browser action.")
	fs.StringVar(&o.Browser.ExecPath, "tools.browser.exec-path", o.Browser.ExecPath, "Chrome binary, auto detected when empty.")
	fs.StringVar(&o.Editor.Root, "tools.editor.root", o.Editor.Root, "Confine the editor to this directory.")
}
