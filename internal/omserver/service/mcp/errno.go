package mcp

import "errors"

var (
	ErrDuplicateOperation = errors.New("operation already registered")
	ErrMissingArgument    = errors.New("missing required argument")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrHostClosed         = errors.New("protocol host is shut down")
)
