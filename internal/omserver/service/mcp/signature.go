package mcp

import (
	"fmt"
	"math"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
)

// Kind is the call-signature type of a parameter.
type Kind int

const (
	KindAny Kind = iota
	KindText
	KindInteger
	KindFloat
	KindBool
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "any"
	}
}

// KindOf maps a declarative parameter type to its call-signature kind.
func KindOf(t tools.ParamType) Kind {
	switch t {
	case tools.TypeString:
		return KindText
	case tools.TypeInteger:
		return KindInteger
	case tools.TypeNumber:
		return KindFloat
	case tools.TypeBoolean:
		return KindBool
	case tools.TypeObject:
		return KindMapping
	case tools.TypeArray:
		return KindSequence
	default:
		return KindAny
	}
}

// Param is one keyword-only parameter of a generated signature.
type Param struct {
	Name     string
	Kind     Kind
	Required bool
	// HasDefault is true for optional parameters, whose default is "absent".
	HasDefault bool
}

// Signature is the binding table generated from a descriptor.
type Signature struct {
	Params []Param
}

// BuildSignature derives the call signature of desc. Parameters keep the
// declaration order.
func BuildSignature(desc tools.Descriptor) Signature {
	params := make([]Param, 0, len(desc.Parameters))
	for _, p := range desc.Parameters {
		params = append(params, Param{
			Name:       p.Name,
			Kind:       KindOf(p.Type),
			Required:   p.Required,
			HasDefault: !p.Required,
		})
	}
	return Signature{Params: params}
}

// Param returns the parameter named name.
func (s Signature) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Bind checks args against the signature and returns the arguments to pass
// to the tool. Omitted optional parameters are left out, unknown arguments
// are dropped, and integral numbers are converted to int for integer
// parameters.
func (s Signature) Bind(args map[string]any) (map[string]any, error) {
	bound := make(map[string]any, len(s.Params))
	for _, p := range s.Params {
		v, ok := args[p.Name]
		if !ok || v == nil {
			if p.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingArgument, p.Name)
			}
			continue
		}
		cv, err := coerce(p, v)
		if err != nil {
			return nil, err
		}
		bound[p.Name] = cv
	}
	return bound, nil
}

func coerce(p Param, v any) (any, error) {
	switch p.Kind {
	case KindText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n == math.Trunc(n) && !math.IsInf(n, 0) {
				return int(n), nil
			}
		}
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindMapping:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	case KindSequence:
		if l, ok := v.([]any); ok {
			return l, nil
		}
	default:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidArgument, p.Name, p.Kind, v)
}
