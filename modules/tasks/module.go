package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/example/task-api/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TasksModule provides the task store, repository, and service, exposed as
// request-reply services on the service container.
type TasksModule struct {
	db      *gorm.DB
	repo    *Repository
	service *Service
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TasksModule)(nil)
var _ mono.ServiceProviderModule = (*TasksModule)(nil)
var _ mono.HealthCheckableModule = (*TasksModule)(nil)

// NewModule creates a new TasksModule.
func NewModule() *TasksModule {
	dbPath := os.Getenv("TASKS_DB_PATH")
	if dbPath == "" {
		dbPath = "tasks.db"
	}
	return &TasksModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TasksModule) Name() string {
	return "tasks"
}

// Start opens the database, runs migrations, and wires the service.
func (m *TasksModule) Start(_ context.Context) error {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := m.db.AutoMigrate(&task.Task{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.repo = NewRepository(m.db)
	m.service = NewService(m.repo)

	log.Printf("[tasks] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop closes the database connection.
func (m *TasksModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[tasks] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TasksModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.tasks." automatically.
func (m *TasksModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "replace", json.Unmarshal, json.Marshal, m.handleReplace,
	); err != nil {
		return fmt.Errorf("failed to register replace service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "patch", json.Unmarshal, json.Marshal, m.handlePatch,
	); err != nil {
		return fmt.Errorf("failed to register patch service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	log.Printf("[tasks] Registered services: services.tasks.{create,list,get,replace,patch,delete}")
	return nil
}

// handleCreate handles the tasks.create service request.
func (m *TasksModule) handleCreate(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(req.UserID, req.Title, req.Description)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleList handles the tasks.list service request.
func (m *TasksModule) handleList(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	ts, err := m.service.List(req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(ts)),
		Total: len(ts),
	}
	for _, t := range ts {
		resp.Tasks = append(resp.Tasks, NewTaskResponse(t))
	}
	return resp, nil
}

// handleGet handles the tasks.get service request.
func (m *TasksModule) handleGet(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleReplace handles the tasks.replace service request.
func (m *TasksModule) handleReplace(_ context.Context, req ReplaceTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Replace(req.TaskID, req.UserID, req.Title, req.Description, req.Completed)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handlePatch handles the tasks.patch service request.
func (m *TasksModule) handlePatch(_ context.Context, req PatchTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Patch(req.TaskID, req.UserID, req.Title, req.Description, req.Completed)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleDelete handles the tasks.delete service request.
func (m *TasksModule) handleDelete(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(req.TaskID, req.UserID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.TaskID}, err
	}
	return DeleteTaskResponse{Deleted: true, ID: req.TaskID}, nil
}
