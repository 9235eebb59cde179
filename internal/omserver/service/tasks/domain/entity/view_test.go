package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xAGI-labs/ProjectOM/pkg/utils/json"
)

func TestViewOf(t *testing.T) {
	tests := []struct {
		name    string
		task    *Task
		live    []string
		status  ViewStatus
		message string
		results string
	}{
		{
			name:    "completed",
			task:    &Task{Status: TaskStatusCompleted, Result: "Step 1\nDone\n"},
			status:  ViewStatusSuccess,
			message: "Task completed",
			results: "Step 1\nDone\n",
		},
		{
			name:    "completed without output",
			task:    &Task{Status: TaskStatusCompleted},
			status:  ViewStatusSuccess,
			message: "Task completed",
			results: "No results available",
		},
		{
			name:    "failed",
			task:    &Task{Status: TaskStatusError, Error: "boom", Logs: []string{"partial", "more"}},
			status:  ViewStatusError,
			message: "Task failed: boom",
			results: "partial\nmore",
		},
		{
			name:    "processing uses live logs",
			task:    &Task{Status: TaskStatusProcessing, Logs: []string{"stale"}},
			live:    []string{"a", "b"},
			status:  ViewStatusProcessing,
			message: "Task is still processing",
			results: "a\nb",
		},
		{
			name:    "processing without live logs",
			task:    &Task{Status: TaskStatusProcessing},
			status:  ViewStatusProcessing,
			message: "Task is still processing",
			results: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ViewOf(tt.task, tt.live)
			assert.Equal(t, tt.status, v.Status)
			assert.Equal(t, tt.message, v.Message)
			require.NotNil(t, v.Results)
			assert.Equal(t, tt.results, *v.Results)
		})
	}
}

func TestFixedViews(t *testing.T) {
	v := SubmittedView("task_1")
	assert.Equal(t, ViewStatusSuccess, v.Status)
	assert.Equal(t, "Prompt received and processing started with ID: task_1", v.Message)
	assert.Nil(t, v.Results)

	v = NotFoundView()
	assert.Equal(t, ViewStatusError, v.Status)
	assert.Equal(t, "Task not found", v.Message)

	v = SubmitErrorView(errors.New("closed"))
	assert.Equal(t, "Error: closed", v.Message)

	b, err := json.Marshal(NotFoundView())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"Task not found","results":null}`, string(b))
}

func TestTaskClone(t *testing.T) {
	task := &Task{ID: "task_1", Logs: []string{"a"}}
	c := task.Clone()
	c.Logs[0] = "b"
	assert.Equal(t, "a", task.Logs[0])
	assert.Nil(t, (*Task)(nil).Clone())
	assert.True(t, TaskStatusError.IsTerminal())
	assert.False(t, TaskStatusProcessing.IsTerminal())
}
