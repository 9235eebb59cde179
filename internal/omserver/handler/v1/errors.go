package v1

import (
	"net/http"

	"github.com/xAGI-labs/ProjectOM/pkg/errorx"
)

// omserver handler error codes.
// Code format: 1XXYYZ
//   - 1:  module prefix (omserver handler)
//   - XX: resource group (00=common, 01=prompt, 02=task, 03=tool)
//   - YY: sequential error number
//   - Z:  reserved (0)

const (
	// Common request errors (100xxx).
	ErrBind = 100001

	// Task errors (1002xx).
	ErrTaskList = 100201

	// Tool errors (1003xx).
	ErrToolNotFound = 100301
)

func init() {
	errorx.MustRegister(newCoder(ErrBind, http.StatusBadRequest, "Request body binding failed"))

	errorx.MustRegister(newCoder(ErrTaskList, http.StatusInternalServerError, "Failed to list tasks"))

	errorx.MustRegister(newCoder(ErrToolNotFound, http.StatusNotFound, "Tool not found"))
}

type coder struct {
	code int
	http int
	msg  string
}

func newCoder(code, httpStatus int, msg string) *coder {
	return &coder{code: code, http: httpStatus, msg: msg}
}

func (c *coder) Code() int         { return c.code }
func (c *coder) HTTPStatus() int   { return c.http }
func (c *coder) String() string    { return c.msg }
func (c *coder) Reference() string { return "" }
