package tasks

import (
	"time"

	"github.com/example/task-api/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	UserID      int64   `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ListTasksRequest is the request for listing a user's tasks.
type ListTasksRequest struct {
	UserID int64 `json:"user_id"`
}

// ListTasksResponse is the response containing a user's tasks, newest first.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	TaskID uint  `json:"task_id"`
	UserID int64 `json:"user_id"`
}

// ReplaceTaskRequest is the request for a full update. An omitted
// description clears the stored one.
type ReplaceTaskRequest struct {
	TaskID      uint    `json:"task_id"`
	UserID      int64   `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
}

// PatchTaskRequest is the request for a partial update. Nil fields are left
// unchanged.
type PatchTaskRequest struct {
	TaskID      uint    `json:"task_id"`
	UserID      int64   `json:"user_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID uint  `json:"task_id"`
	UserID int64 `json:"user_id"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
	ID      uint `json:"id"`
}

// TaskResponse represents a task in responses. Description is null when
// absent.
type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskResponse converts a Task entity to a TaskResponse.
func NewTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
