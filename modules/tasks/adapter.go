package tasks

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TasksPort defines the interface other modules use to reach the task
// service.
type TasksPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error)
	Get(ctx context.Context, req GetTaskRequest) (TaskResponse, error)
	Replace(ctx context.Context, req ReplaceTaskRequest) (TaskResponse, error)
	Patch(ctx context.Context, req PatchTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, req DeleteTaskRequest) (DeleteTaskResponse, error)
}

// TasksAdapter implements TasksPort over the service container. Errors are
// returned unwrapped so the boundary sees the service's own messages and can
// map them to statuses.
type TasksAdapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ TasksPort = (*TasksAdapter)(nil)

// NewTasksAdapter creates a new TasksAdapter.
func NewTasksAdapter(container mono.ServiceContainer) *TasksAdapter {
	return &TasksAdapter{container: container}
}

// Create creates a new task for the requesting user.
func (a *TasksAdapter) Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, "create", json.Marshal, json.Unmarshal, &req, &resp,
	)
	return resp, err
}

// List returns the requesting user's tasks, newest first.
func (a *TasksAdapter) List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error) {
	var resp ListTasksResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, &req, &resp,
	)
	return resp, err
}

// Get returns a single task after the ownership check.
func (a *TasksAdapter) Get(ctx context.Context, req GetTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &resp,
	)
	return resp, err
}

// Replace fully overwrites a task's mutable fields.
func (a *TasksAdapter) Replace(ctx context.Context, req ReplaceTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, "replace", json.Marshal, json.Unmarshal, &req, &resp,
	)
	return resp, err
}

// Patch overwrites only the supplied fields of a task.
func (a *TasksAdapter) Patch(ctx context.Context, req PatchTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, "patch", json.Marshal, json.Unmarshal, &req, &resp,
	)
	return resp, err
}

// Delete removes a task after the ownership check.
func (a *TasksAdapter) Delete(ctx context.Context, req DeleteTaskRequest) (DeleteTaskResponse, error) {
	var resp DeleteTaskResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, "delete", json.Marshal, json.Unmarshal, &req, &resp,
	)
	return resp, err
}
