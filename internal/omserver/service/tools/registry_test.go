package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cleanTool struct {
	Tool
	calls int
	err   error
}

func (c *cleanTool) Cleanup(context.Context) error {
	c.calls++
	return c.err
}

func echoTool(name string) Tool {
	return NewFuncTool(Descriptor{
		Name:        name,
		Description: "echo",
		Parameters:  []Parameter{{Name: "text", Type: TypeString, Required: true}},
	}, func(_ context.Context, args map[string]any) (any, error) {
		return args["text"], nil
	})
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		ok   bool
	}{
		{"valid", Descriptor{Name: "a", Parameters: []Parameter{{Name: "x"}, {Name: "y"}}}, true},
		{"no parameters", Descriptor{Name: "a"}, true},
		{"empty name", Descriptor{}, false},
		{"empty parameter name", Descriptor{Name: "a", Parameters: []Parameter{{Name: ""}}}, false},
		{"duplicate parameter", Descriptor{Name: "a", Parameters: []Parameter{{Name: "x"}, {Name: "x"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidDescriptor)
			}
		})
	}
}

func TestRegistry_RegisterKeepsOrderAndRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	first := echoTool("b")
	require.NoError(t, reg.Register(first))
	require.NoError(t, reg.Register(echoTool("a")))

	err := reg.Register(echoTool("b"))
	require.ErrorIs(t, err, ErrDuplicateTool)

	got, ok := reg.Get("b")
	require.True(t, ok)
	assert.Same(t, first, got)

	var names []string
	for _, tl := range reg.List() {
		names = append(names, tl.Descriptor().Name)
	}
	assert.Equal(t, []string{"b", "a"}, names)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_CleanupAllRunsOnce(t *testing.T) {
	reg := NewRegistry()
	c1 := &cleanTool{Tool: echoTool("one")}
	c2 := &cleanTool{Tool: echoTool("two"), err: errors.New("stuck")}
	require.NoError(t, reg.Register(c1))
	require.NoError(t, reg.Register(echoTool("plain")))
	require.NoError(t, reg.Register(c2))

	err := reg.CleanupAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stuck")

	err2 := reg.CleanupAll(context.Background())
	assert.Equal(t, err, err2)
	assert.Equal(t, 1, c1.calls)
	assert.Equal(t, 1, c2.calls)
}

func TestModule_NewAndClose(t *testing.T) {
	c := &cleanTool{Tool: echoTool("one")}
	cfg := &Config{Tools: []Tool{c, echoTool("two")}}
	m, err := cfg.Complete().New(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.Registry.Len())

	require.NoError(t, m.Close(context.Background()))
	require.NoError(t, m.Close(context.Background()))
	assert.Equal(t, 1, c.calls)

	_, err = (&Config{Tools: []Tool{echoTool("x"), echoTool("x")}}).Complete().New(context.Background())
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{"s": "v", "i": 3, "f": float64(4), "bad": 1.5, "arr": []any{float64(1), 2}}

	assert.Equal(t, "v", StringArg(args, "s"))
	assert.Equal(t, "", StringArg(args, "missing"))

	_, err := RequireString(args, "missing")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	n, ok, err := IntArg(args, "i")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok, err = IntArg(args, "f")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, _, err = IntArg(args, "bad")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, ok, err = IntArg(args, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	arr, ok, err := IntSliceArg(args, "arr")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, arr)
}

func TestResultDump(t *testing.T) {
	r := &Result{Output: "out", System: "sys"}
	assert.Equal(t, map[string]any{"output": "out", "system": "sys"}, r.Dump())
	assert.Equal(t, "out", r.String())
	assert.Equal(t, "Error: boom", Failure("boom").String())
	assert.Empty(t, (&Result{}).Dump())
}
