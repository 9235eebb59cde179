// Package json is the project-wide JSON codec. It is backed by sonic in its
// encoding/json compatible configuration, so map keys are always sorted.
package json

import (
	"github.com/bytedance/sonic"
)

var std = sonic.ConfigStd

func Marshal(v any) ([]byte, error) {
	return std.Marshal(v)
}

func MarshalToString(v any) (string, error) {
	return std.MarshalToString(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return std.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return std.Unmarshal(data, v)
}

func UnmarshalFromString(s string, v any) error {
	return std.UnmarshalFromString(s, v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return std.Valid(data)
}
