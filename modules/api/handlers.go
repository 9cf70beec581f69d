package api

import (
	"log"
	"strconv"
	"strings"

	"github.com/example/task-api/domain/identity"
	"github.com/example/task-api/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the task API.
type Handlers struct {
	tasksPort tasks.TasksPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(tasksPort tasks.TasksPort) *Handlers {
	return &Handlers{tasksPort: tasksPort}
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	caller, ok := callerClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}

	resp, err := h.tasksPort.Create(c.UserContext(), tasks.CreateTaskRequest{
		UserID:      caller.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return h.mapTaskError(c, "create", caller.UserID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(resp))
}

// ListTasks handles GET /tasks. The response is a bare array, newest first.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	caller, ok := callerClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.tasksPort.List(c.UserContext(), tasks.ListTasksRequest{
		UserID: caller.UserID,
	})
	if err != nil {
		return h.mapTaskError(c, "list", caller.UserID, err)
	}

	out := make([]TaskResponse, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		out = append(out, toTaskResponse(t))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// GetTask handles GET /tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	caller, ok := callerClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return badRequest(c, "Task id must be a positive integer", "id")
	}

	resp, err := h.tasksPort.Get(c.UserContext(), tasks.GetTaskRequest{
		TaskID: taskID,
		UserID: caller.UserID,
	})
	if err != nil {
		return h.mapTaskError(c, "get", caller.UserID, err)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskResponse(resp))
}

// ReplaceTask handles PUT /tasks/:id. All mutable fields are overwritten; an
// omitted description clears the stored one.
func (h *Handlers) ReplaceTask(c *fiber.Ctx) error {
	caller, ok := callerClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return badRequest(c, "Task id must be a positive integer", "id")
	}

	var req ReplaceTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if req.Completed == nil {
		return badRequest(c, "completed is required", "completed")
	}

	resp, err := h.tasksPort.Replace(c.UserContext(), tasks.ReplaceTaskRequest{
		TaskID:      taskID,
		UserID:      caller.UserID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   *req.Completed,
	})
	if err != nil {
		return h.mapTaskError(c, "replace", caller.UserID, err)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskResponse(resp))
}

// PatchTask handles PATCH /tasks/:id. Only supplied fields are overwritten.
func (h *Handlers) PatchTask(c *fiber.Ctx) error {
	caller, ok := callerClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return badRequest(c, "Task id must be a positive integer", "id")
	}

	var req PatchTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}

	resp, err := h.tasksPort.Patch(c.UserContext(), tasks.PatchTaskRequest{
		TaskID:      taskID,
		UserID:      caller.UserID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return h.mapTaskError(c, "patch", caller.UserID, err)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskResponse(resp))
}

// DeleteTask handles DELETE /tasks/:id. Success is a 204 with an empty body.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	caller, ok := callerClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return badRequest(c, "Task id must be a positive integer", "id")
	}

	if _, err := h.tasksPort.Delete(c.UserContext(), tasks.DeleteTaskRequest{
		TaskID: taskID,
		UserID: caller.UserID,
	}); err != nil {
		return h.mapTaskError(c, "delete", caller.UserID, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// callerClaims returns the verified caller set by AuthMiddleware.
func callerClaims(c *fiber.Ctx) (*identity.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*identity.Claims)
	return claims, ok
}

// taskIDParam parses the :id path parameter.
func taskIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

// badRequest sends a 400 VALIDATION_ERROR, naming the offending field when
// known.
func badRequest(c *fiber.Ctx, message, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Field:   field,
	})
}

// mapTaskError maps task service failures onto the status/code contract.
// Errors cross the service container flattened to strings, so the mapping
// matches the service's known messages; anything unrecognized is an
// infrastructure failure and surfaces as a 500 after logging.
func (h *Handlers) mapTaskError(c *fiber.Ctx, op string, userID int64, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"):
		log.Printf("[api] %s: task not found (user_id=%d, path=%s)", op, userID, c.Path())
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "TASK_NOT_FOUND",
			Message: "Task not found",
		})
	case strings.Contains(errStr, "task access denied"):
		log.Printf("[api] %s: access denied (user_id=%d, path=%s)", op, userID, c.Path())
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "TASK_ACCESS_DENIED",
			Message: "Task belongs to another user",
		})
	case strings.Contains(errStr, "title"):
		log.Printf("[api] %s: validation failed (user_id=%d): %v", op, userID, err)
		return badRequest(c, errStr, "title")
	case strings.Contains(errStr, "description"):
		log.Printf("[api] %s: validation failed (user_id=%d): %v", op, userID, err)
		return badRequest(c, errStr, "description")
	default:
		log.Printf("[api] %s: internal error (user_id=%d): %v", op, userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: "An internal error occurred",
		})
	}
}
