package mcp

import (
	"strings"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
)

// ParamSchema is the raw schema entry kept alongside an operation.
type ParamSchema struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
}

// BuildDoc renders the description followed by one line per parameter:
//
//	name (type) (required|optional): description
func BuildDoc(desc tools.Descriptor) string {
	if len(desc.Parameters) == 0 {
		return desc.Description
	}

	var b strings.Builder
	b.WriteString(desc.Description)
	b.WriteString("\n\nParameters:\n")
	for _, p := range desc.Parameters {
		req := "(optional)"
		if p.Required {
			req = "(required)"
		}
		b.WriteString("    ")
		b.WriteString(p.Name)
		b.WriteString(" (")
		b.WriteString(typeName(p.Type))
		b.WriteString(") ")
		b.WriteString(req)
		b.WriteString(": ")
		b.WriteString(p.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// BuildSchema returns the name -> schema table of desc.
func BuildSchema(desc tools.Descriptor) map[string]ParamSchema {
	out := make(map[string]ParamSchema, len(desc.Parameters))
	for _, p := range desc.Parameters {
		out[p.Name] = ParamSchema{
			Description: p.Description,
			Type:        typeName(p.Type),
			Required:    p.Required,
		}
	}
	return out
}

func typeName(t tools.ParamType) string {
	if t == "" {
		return string(tools.TypeAny)
	}
	return string(t)
}
