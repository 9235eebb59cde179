package tools

import "errors"

var (
	ErrInvalidDescriptor = errors.New("invalid tool descriptor")
	ErrDuplicateTool     = errors.New("tool already registered")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrInvalidArgument   = errors.New("invalid argument")
)
