// Package errorx attaches registered business codes to errors so HTTP
// handlers can map any failure to a status code and a stable message.
package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Coder describes a registered error code.
type Coder interface {
	// Code is the business error code.
	Code() int
	// HTTPStatus is the HTTP status that should be returned for this code.
	HTTPStatus() int
	// String is the external (user facing) message.
	String() string
	// Reference points to documentation for the code, may be empty.
	Reference() string
}

// UnknownCode is used for errors that carry no registered code.
const UnknownCode = 1

type defaultCoder struct {
	code int
	http int
	msg  string
}

func (c defaultCoder) Code() int         { return c.code }
func (c defaultCoder) HTTPStatus() int   { return c.http }
func (c defaultCoder) String() string    { return c.msg }
func (c defaultCoder) Reference() string { return "" }

var (
	unknownCoder = defaultCoder{code: UnknownCode, http: http.StatusInternalServerError, msg: "An internal server error occurred"}

	codesMu sync.RWMutex
	codes   = map[int]Coder{}
)

// Register registers a coder, replacing any existing one with the same code.
func Register(c Coder) {
	if c.Code() == UnknownCode {
		panic(fmt.Sprintf("errorx: code %d is reserved", UnknownCode))
	}
	codesMu.Lock()
	defer codesMu.Unlock()
	codes[c.Code()] = c
}

// MustRegister registers a coder and panics on a duplicate code.
func MustRegister(c Coder) {
	if c.Code() == UnknownCode {
		panic(fmt.Sprintf("errorx: code %d is reserved", UnknownCode))
	}
	codesMu.Lock()
	defer codesMu.Unlock()
	if _, ok := codes[c.Code()]; ok {
		panic(fmt.Sprintf("errorx: code %d already registered", c.Code()))
	}
	codes[c.Code()] = c
}

// withCode is an error annotated with a business code.
type withCode struct {
	msg   string
	code  int
	cause error
}

func (w *withCode) Error() string {
	if w.cause == nil {
		return w.msg
	}
	return w.msg + ": " + w.cause.Error()
}

func (w *withCode) Unwrap() error { return w.cause }

// WithCode returns a new coded error.
func WithCode(code int, format string, args ...any) error {
	return &withCode{msg: fmt.Sprintf(format, args...), code: code}
}

// WrapC wraps err with a code and message. It returns nil if err is nil.
func WrapC(err error, code int, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &withCode{msg: fmt.Sprintf(format, args...), code: code, cause: err}
}

// ParseCoder returns the Coder of the outermost coded error in err's chain.
// Errors without a registered code resolve to the unknown coder.
func ParseCoder(err error) Coder {
	if err == nil {
		return nil
	}
	var wc *withCode
	if errors.As(err, &wc) {
		codesMu.RLock()
		defer codesMu.RUnlock()
		if c, ok := codes[wc.code]; ok {
			return c
		}
	}
	return unknownCoder
}

// IsCode reports whether any error in err's chain carries code.
func IsCode(err error, code int) bool {
	for err != nil {
		var wc *withCode
		if !errors.As(err, &wc) {
			return false
		}
		if wc.code == code {
			return true
		}
		err = wc.cause
	}
	return false
}
