package mcp

import (
	"fmt"
	"reflect"

	"github.com/xAGI-labs/ProjectOM/pkg/utils/json"
)

// Dumper is implemented by results that can describe themselves as a map.
type Dumper interface {
	Dump() map[string]any
}

// Normalize turns a tool result into the text payload returned to callers.
// Structured results and mappings of any type are serialized as JSON with
// sorted keys, text passes through unchanged.
func Normalize(v any) (string, error) {
	if isMapping(v) {
		return json.MarshalToString(v)
	}
	switch r := v.(type) {
	case nil:
		return "", nil
	case Dumper:
		return json.MarshalToString(r.Dump())
	case string:
		return r, nil
	case []byte:
		return string(r), nil
	case fmt.Stringer:
		return r.String(), nil
	default:
		return fmt.Sprint(r), nil
	}
}

// isMapping reports whether v is a map that is not a Dumper.
func isMapping(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(Dumper); ok {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Map
}
