package tools

// Result is the structured outcome most builtin tools return.
type Result struct {
	Output      string `json:"output,omitempty"`
	Error       string `json:"error,omitempty"`
	Base64Image string `json:"base64_image,omitempty"`
	System      string `json:"system,omitempty"`
}

// Dump returns the non-empty fields of r as a map.
func (r *Result) Dump() map[string]any {
	m := make(map[string]any, 4)
	if r.Output != "" {
		m["output"] = r.Output
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	if r.Base64Image != "" {
		m["base64_image"] = r.Base64Image
	}
	if r.System != "" {
		m["system"] = r.System
	}
	return m
}

func (r *Result) String() string {
	if r.Error != "" {
		return "Error: " + r.Error
	}
	return r.Output
}

// Failure is a Result carrying only an error message.
func Failure(msg string) *Result {
	return &Result{Error: msg}
}
