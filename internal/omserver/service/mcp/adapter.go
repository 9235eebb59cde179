package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

// Meta keys under which an operation publishes its doc and raw schema.
const (
	MetaDoc    = "doc"
	MetaSchema = "parameterSchema"
)

// Operation is a tool adapted for the protocol host. It is immutable once built.
type Operation struct {
	Name      string
	Doc       string
	Signature Signature
	Schema    map[string]ParamSchema
	// Tool is the protocol level definition advertised by tools/list.
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Adapt builds the operation exposing t under desc.Name.
func Adapt(desc tools.Descriptor, t tools.Tool) (*Operation, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	op := &Operation{
		Name:      desc.Name,
		Doc:       BuildDoc(desc),
		Signature: BuildSignature(desc),
		Schema:    BuildSchema(desc),
	}
	op.Tool = buildTool(op, desc)
	op.Handler = wrap(op.Name, op.Signature, t)
	return op, nil
}

// Call binds args and runs the operation without going through a transport.
func (op *Operation) Call(ctx context.Context, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = op.Name
	req.Params.Arguments = args
	res, err := op.Handler(ctx, req)
	if err != nil {
		return "", err
	}
	return textOf(res), nil
}

func buildTool(op *Operation, desc tools.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(op.Doc)}
	for _, p := range desc.Parameters {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		switch KindOf(p.Type) {
		case KindText:
			opts = append(opts, mcp.WithString(p.Name, popts...))
		case KindInteger:
			opts = append(opts, mcp.WithNumber(p.Name, append(popts, integerType())...))
		case KindFloat:
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		case KindBool:
			opts = append(opts, mcp.WithBoolean(p.Name, popts...))
		case KindMapping:
			opts = append(opts, mcp.WithObject(p.Name, popts...))
		case KindSequence:
			opts = append(opts, mcp.WithArray(p.Name, popts...))
		default:
			opts = append(opts, mcp.WithAny(p.Name, popts...))
		}
	}

	tool := mcp.NewTool(op.Name, opts...)
	schema := make(map[string]any, len(op.Schema))
	for name, s := range op.Schema {
		schema[name] = map[string]any{
			"description": s.Description,
			"type":        s.Type,
			"required":    s.Required,
		}
	}
	tool.Meta = &mcp.Meta{AdditionalFields: map[string]any{
		MetaDoc:    op.Doc,
		MetaSchema: schema,
	}}
	return tool
}

// integerType narrows a number property to JSON schema integer.
func integerType() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// wrap logs the call, runs the tool and normalizes its result. Tool errors
// are returned unchanged so the host reports them on its own error path.
func wrap(name string, sig Signature, t tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := sig.Bind(req.GetArguments())
		if err != nil {
			return nil, err
		}

		logger.Info("Executing %s: %v", name, args)
		result, err := t.Execute(ctx, args)
		if err != nil {
			logger.Warn("Execution of %s failed: %v", name, err)
			return nil, err
		}
		logger.Info("Result of %s: %v", name, result)

		text, err := Normalize(result)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(text), nil
	}
}

func textOf(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}
