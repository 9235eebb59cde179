package builtin

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
)

const (
	EditorToolName = "str_replace_editor"

	snippetLines   = 4
	maxViewDepth   = 2
	defaultMaxView = 256 * 1024
)

// EditorConfig configures the file editor tool.
type EditorConfig struct {
	// Root confines every path to this directory when set.
	Root string
	// MaxViewBytes truncates file views.
	MaxViewBytes int
}

// Editor views, creates and edits files. Edits can be undone per file.
type Editor struct {
	cfg EditorConfig

	mu      sync.Mutex
	history map[string][]string
}

// NewEditor creates the editor tool.
func NewEditor(cfg EditorConfig) *Editor {
	if cfg.MaxViewBytes <= 0 {
		cfg.MaxViewBytes = defaultMaxView
	}
	if cfg.Root != "" {
		if abs, err := filepath.Abs(cfg.Root); err == nil {
			cfg.Root = abs
		}
	}
	return &Editor{cfg: cfg, history: make(map[string][]string)}
}

func (e *Editor) Descriptor() tools.Descriptor {
	return tools.Descriptor{
		Name: EditorToolName,
		Description: "Custom editing tool for viewing, creating and editing files.\n" +
			"* If path is a file, view displays the result of applying `cat -n`. If path is a directory, view lists non-hidden files and directories up to 2 levels deep.\n" +
			"* The create command cannot be used if the specified path already exists as a file.\n" +
			"* The undo_edit command will revert the last edit made to the file at path.\n" +
			"* The old_str parameter should match EXACTLY one or more consecutive lines from the original file.",
		Parameters: []tools.Parameter{
			{Name: "command", Type: tools.TypeString, Required: true,
				Description: "The command to run. Allowed options are: view, create, str_replace, insert, undo_edit."},
			{Name: "path", Type: tools.TypeString, Required: true,
				Description: "Absolute path to file or directory."},
			{Name: "file_text", Type: tools.TypeString,
				Description: "Required parameter of create command, with the content of the file to be created."},
			{Name: "old_str", Type: tools.TypeString,
				Description: "Required parameter of str_replace command containing the string in path to replace."},
			{Name: "new_str", Type: tools.TypeString,
				Description: "Optional parameter of str_replace command containing the new string. Required parameter of insert command."},
			{Name: "insert_line", Type: tools.TypeInteger,
				Description: "Required parameter of insert command. The new_str will be inserted AFTER the line insert_line of path."},
			{Name: "view_range", Type: tools.TypeArray,
				Description: "Optional parameter of view command when path points to a file, e.g. [11, 12]. Use [start, -1] to show all lines from start."},
		},
	}
}

func (e *Editor) Execute(_ context.Context, args map[string]any) (any, error) {
	command, err := tools.RequireString(args, "command")
	if err != nil {
		return nil, err
	}
	raw, err := tools.RequireString(args, "path")
	if err != nil {
		return nil, err
	}
	path, err := e.resolve(raw)
	if err != nil {
		return nil, err
	}

	switch command {
	case "view":
		viewRange, _, err := tools.IntSliceArg(args, "view_range")
		if err != nil {
			return nil, err
		}
		return e.view(path, viewRange)
	case "create":
		if _, ok := args["file_text"]; !ok {
			return nil, fmt.Errorf("%w: parameter file_text is required for command create", tools.ErrInvalidArgument)
		}
		return e.create(path, tools.StringArg(args, "file_text"))
	case "str_replace":
		oldStr := tools.StringArg(args, "old_str")
		if oldStr == "" {
			return nil, fmt.Errorf("%w: parameter old_str is required for command str_replace", tools.ErrInvalidArgument)
		}
		return e.strReplace(path, oldStr, tools.StringArg(args, "new_str"))
	case "insert":
		line, ok, err := tools.IntArg(args, "insert_line")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: parameter insert_line is required for command insert", tools.ErrInvalidArgument)
		}
		if _, ok := args["new_str"]; !ok {
			return nil, fmt.Errorf("%w: parameter new_str is required for command insert", tools.ErrInvalidArgument)
		}
		return e.insert(path, line, tools.StringArg(args, "new_str"))
	case "undo_edit":
		return e.undo(path)
	default:
		return nil, fmt.Errorf("%w: unrecognized command %q, allowed commands are view, create, str_replace, insert, undo_edit",
			tools.ErrInvalidArgument, command)
	}
}

func (e *Editor) resolve(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return "", fmt.Errorf("%w: the path %s is not an absolute path", tools.ErrInvalidArgument, p)
	}
	p = filepath.Clean(p)
	if e.cfg.Root == "" {
		return p, nil
	}
	rel, err := filepath.Rel(e.cfg.Root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: the path %s is outside of %s", tools.ErrInvalidArgument, p, e.cfg.Root)
	}
	return p, nil
}

func (e *Editor) view(path string, viewRange []int) (*tools.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: the path %s does not exist", tools.ErrInvalidArgument, path)
	}
	if info.IsDir() {
		if len(viewRange) > 0 {
			return nil, fmt.Errorf("%w: view_range is not allowed when path points to a directory", tools.ErrInvalidArgument)
		}
		return e.viewDir(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	start := 1
	if len(viewRange) > 0 {
		if len(viewRange) != 2 {
			return nil, fmt.Errorf("%w: view_range should be a list of two integers", tools.ErrInvalidArgument)
		}
		start = viewRange[0]
		end := viewRange[1]
		if start < 1 || start > len(lines) {
			return nil, fmt.Errorf("%w: view_range start %d should be within [1, %d]", tools.ErrInvalidArgument, start, len(lines))
		}
		switch {
		case end == -1:
			end = len(lines)
		case end < start || end > len(lines):
			return nil, fmt.Errorf("%w: view_range end %d should be within [%d, %d] or -1", tools.ErrInvalidArgument, end, start, len(lines))
		}
		lines = lines[start-1 : end]
	}

	out := numbered(strings.Join(lines, "\n"), start)
	out = truncate(out, e.cfg.MaxViewBytes, "\n<response clipped>")
	return &tools.Result{Output: fmt.Sprintf("Here's the result of running `cat -n` on %s:\n%s\n", path, out)}, nil
}

func (e *Editor) viewDir(root string) (*tools.Result, error) {
	var entries []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p == root {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		entries = append(entries, p)
		if d.IsDir() && strings.Count(rel, string(filepath.Separator))+1 >= maxViewDepth {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return &tools.Result{Output: fmt.Sprintf(
		"Here's the files and directories up to 2 levels deep in %s, excluding hidden items:\n%s\n",
		root, strings.Join(entries, "\n"))}, nil
}

func (e *Editor) create(path, text string) (*tools.Result, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: file already exists at %s, cannot overwrite files using command create", tools.ErrInvalidArgument, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return nil, err
	}
	return &tools.Result{Output: fmt.Sprintf("File created successfully at: %s", path)}, nil
}

func (e *Editor) strReplace(path, oldStr, newStr string) (*tools.Result, error) {
	content, err := e.readFile(path)
	if err != nil {
		return nil, err
	}

	switch n := strings.Count(content, oldStr); {
	case n == 0:
		return nil, fmt.Errorf("%w: no replacement was performed, old_str %q did not appear verbatim in %s",
			tools.ErrInvalidArgument, oldStr, path)
	case n > 1:
		var lines []string
		for i, line := range strings.Split(content, "\n") {
			if strings.Contains(line, oldStr) {
				lines = append(lines, fmt.Sprint(i+1))
			}
		}
		return nil, fmt.Errorf("%w: no replacement was performed, multiple occurrences of old_str %q in lines %s, please ensure it is unique",
			tools.ErrInvalidArgument, oldStr, strings.Join(lines, ", "))
	}

	replaced := strings.Replace(content, oldStr, newStr, 1)
	if err := os.WriteFile(path, []byte(replaced), 0o644); err != nil {
		return nil, err
	}
	e.pushHistory(path, content)

	// snippet around the edit
	replacementLine := strings.Count(content[:strings.Index(content, oldStr)], "\n")
	lines := strings.Split(replaced, "\n")
	start := max(0, replacementLine-snippetLines)
	end := min(len(lines), replacementLine+snippetLines+strings.Count(newStr, "\n")+1)
	snippet := numbered(strings.Join(lines[start:end], "\n"), start+1)

	return &tools.Result{Output: fmt.Sprintf(
		"The file %s has been edited. Here's the result of running `cat -n` on a snippet of %s:\n%s\n"+
			"Review the changes and make sure they are as expected. Edit the file again if necessary.",
		path, path, snippet)}, nil
}

func (e *Editor) insert(path string, line int, newStr string) (*tools.Result, error) {
	content, err := e.readFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(content, "\n")
	if line < 0 || line > len(lines) {
		return nil, fmt.Errorf("%w: insert_line %d should be within [0, %d]", tools.ErrInvalidArgument, line, len(lines))
	}

	newLines := strings.Split(newStr, "\n")
	updated := make([]string, 0, len(lines)+len(newLines))
	updated = append(updated, lines[:line]...)
	updated = append(updated, newLines...)
	updated = append(updated, lines[line:]...)

	if err := os.WriteFile(path, []byte(strings.Join(updated, "\n")), 0o644); err != nil {
		return nil, err
	}
	e.pushHistory(path, content)

	start := max(0, line-snippetLines)
	end := min(len(updated), line+len(newLines)+snippetLines)
	snippet := numbered(strings.Join(updated[start:end], "\n"), start+1)

	return &tools.Result{Output: fmt.Sprintf(
		"The file %s has been edited. Here's the result of running `cat -n` on a snippet of the edited file:\n%s\n"+
			"Review the changes and make sure they are as expected (correct indentation, no duplicate lines, etc). Edit the file again if necessary.",
		path, snippet)}, nil
}

func (e *Editor) undo(path string) (*tools.Result, error) {
	e.mu.Lock()
	hist := e.history[path]
	if len(hist) == 0 {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: no edit history found for %s", tools.ErrInvalidArgument, path)
	}
	prev := hist[len(hist)-1]
	e.history[path] = hist[:len(hist)-1]
	e.mu.Unlock()

	if err := os.WriteFile(path, []byte(prev), 0o644); err != nil {
		return nil, err
	}
	return &tools.Result{Output: fmt.Sprintf("Last edit to %s undone successfully. %s", path, numbered(prev, 1))}, nil
}

func (e *Editor) readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: the path %s does not exist", tools.ErrInvalidArgument, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: the path %s is a directory, only view can be used on directories", tools.ErrInvalidArgument, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// pushHistory records the content a file had before an edit.
func (e *Editor) pushHistory(path, content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history[path] = append(e.history[path], content)
}

func numbered(content string, start int) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%6d\t%s", start+i, line)
	}
	return b.String()
}
