package entity

import (
	"fmt"
	"strings"
)

// ViewStatus is the status reported to pollers.
type ViewStatus string

const (
	ViewStatusSuccess    ViewStatus = "success"
	ViewStatusError      ViewStatus = "error"
	ViewStatusProcessing ViewStatus = "processing"
)

// noResults stands in for the result of a completed task that produced no
// text at all: nothing was written to its sink and the orchestrator returned
// an empty final output.
const noResults = "No results available"

// View is what submit and status calls return. Results is null when absent.
type View struct {
	Status  ViewStatus `json:"status"`
	Message string     `json:"message"`
	Results *string    `json:"results"`
}

// SubmittedView acknowledges a new task.
func SubmittedView(id string) View {
	return View{
		Status:  ViewStatusSuccess,
		Message: fmt.Sprintf("Prompt received and processing started with ID: %s", id),
	}
}

// SubmitErrorView reports a submission that could not be accepted.
func SubmitErrorView(err error) View {
	return View{
		Status:  ViewStatusError,
		Message: fmt.Sprintf("Error: %v", err),
	}
}

// NotFoundView is returned for unknown task ids.
func NotFoundView() View {
	return View{
		Status:  ViewStatusError,
		Message: "Task not found",
	}
}

// ViewOf renders t. logs overrides t.Logs, callers pass the live capture of
// a running task.
func ViewOf(t *Task, logs []string) View {
	switch t.Status {
	case TaskStatusCompleted:
		result := t.Result
		if result == "" {
			result = noResults
		}
		return View{
			Status:  ViewStatusSuccess,
			Message: "Task completed",
			Results: &result,
		}
	case TaskStatusError:
		joined := strings.Join(t.Logs, "\n")
		return View{
			Status:  ViewStatusError,
			Message: fmt.Sprintf("Task failed: %s", t.Error),
			Results: &joined,
		}
	default:
		if logs == nil {
			logs = t.Logs
		}
		joined := strings.Join(logs, "\n")
		return View{
			Status:  ViewStatusProcessing,
			Message: "Task is still processing",
			Results: &joined,
		}
	}
}
