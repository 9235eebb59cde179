package entity

import (
	"time"
)

// TaskStatus is the lifecycle state of a Task.
//
// State machine: PROCESSING -> COMPLETED | ERROR
type TaskStatus string

const (
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusError      TaskStatus = "ERROR"
)

// IsTerminal returns true if the task has finished.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// Task is one submitted prompt and the state of its background run.
type Task struct {
	// ID is allocated from submission order, e.g. "task_1".
	ID string `json:"id"`
	// Seq is the numeric part of ID, used for ordering.
	Seq uint64 `json:"-"`

	// Input is the prompt as submitted.
	Input string `json:"input"`

	Status TaskStatus `json:"status"`

	// Logs are the output fragments written during the run, in order.
	Logs []string `json:"logs"`

	// Result is set once Status is COMPLETED.
	Result string `json:"result,omitempty"`

	// Error is set once Status is ERROR.
	Error string `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Clone returns a deep copy, so stored records are never shared with callers.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Logs = append([]string(nil), t.Logs...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}
