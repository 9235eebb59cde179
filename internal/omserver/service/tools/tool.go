package tools

import (
	"context"
	"fmt"
)

// Tool is an executable capability that describes itself with a Descriptor.
type Tool interface {
	Descriptor() Descriptor
	// Execute runs the tool. args only holds parameters the caller supplied.
	// The result is text, a map[string]any, or a value with a Dump method.
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Cleaner is implemented by tools holding resources that must be released
// at shutdown.
type Cleaner interface {
	Cleanup(ctx context.Context) error
}

// HandlerFunc is the function form of Tool.Execute.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

type funcTool struct {
	desc Descriptor
	fn   HandlerFunc
}

// NewFuncTool builds a Tool from a descriptor and a plain function.
func NewFuncTool(desc Descriptor, fn HandlerFunc) Tool {
	return &funcTool{desc: desc, fn: fn}
}

func (t *funcTool) Descriptor() Descriptor { return t.desc }

func (t *funcTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}

// StringArg returns args[name] as a string, or "" if absent.
func StringArg(args map[string]any, name string) string {
	v, ok := args[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// RequireString returns args[name] and fails if it is absent or empty.
func RequireString(args map[string]any, name string) (string, error) {
	s := StringArg(args, name)
	if s == "" {
		return "", fmt.Errorf("%w: parameter %q is required", ErrInvalidArgument, name)
	}
	return s, nil
}

// IntArg returns args[name] as an int. ok is false if the parameter is absent.
func IntArg(args map[string]any, name string) (n int, ok bool, err error) {
	v, present := args[name]
	if !present || v == nil {
		return 0, false, nil
	}
	switch x := v.(type) {
	case int:
		return x, true, nil
	case int64:
		return int(x), true, nil
	case float64:
		if x != float64(int(x)) {
			return 0, true, fmt.Errorf("%w: parameter %q must be an integer", ErrInvalidArgument, name)
		}
		return int(x), true, nil
	default:
		return 0, true, fmt.Errorf("%w: parameter %q must be an integer, got %T", ErrInvalidArgument, name, v)
	}
}

// IntSliceArg returns args[name] as []int.
func IntSliceArg(args map[string]any, name string) ([]int, bool, error) {
	v, present := args[name]
	if !present || v == nil {
		return nil, false, nil
	}
	var items []any
	switch x := v.(type) {
	case []int:
		return x, true, nil
	case []any:
		items = x
	default:
		return nil, true, fmt.Errorf("%w: parameter %q must be an array of integers", ErrInvalidArgument, name)
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, _, err := IntArg(map[string]any{name: item}, name)
		if err != nil {
			return nil, true, err
		}
		out = append(out, n)
	}
	return out, true, nil
}
