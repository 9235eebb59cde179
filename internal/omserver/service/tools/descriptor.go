package tools

import (
	"fmt"
)

// ParamType is the declarative schema type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
	TypeAny     ParamType = "any"
)

// Parameter defines a single parameter for a tool.
type Parameter struct {
	// Name is the parameter's unique name. (e.g. "command")
	Name string `json:"name"`
	// Type is the parameter's data type. Unknown types are treated as any.
	Type ParamType `json:"type"`
	// Description is a brief description of the parameter's purpose.
	Description string `json:"description"`
	// Required indicates whether the parameter is mandatory.
	Required bool `json:"required"`
}

// Descriptor is the declarative schema a tool publishes about itself.
// Parameters keep their declaration order.
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// Validate checks that the descriptor can be turned into a binding table.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty tool name", ErrInvalidDescriptor)
	}
	seen := make(map[string]struct{}, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: tool %q has a parameter without a name", ErrInvalidDescriptor, d.Name)
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("%w: tool %q declares parameter %q twice", ErrInvalidDescriptor, d.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Parameter returns the parameter named name.
func (d Descriptor) Parameter(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}
