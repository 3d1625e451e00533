package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module owns the tasks table and provides the task CRUD, listing and status
// transition services. It depends on the auth module for user lookups.
type Module struct {
	db      *gorm.DB
	service *Service
	users   auth.UserPort
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new task Module.
func NewModule() *Module {
	dbPath := os.Getenv("TASKBOARD_DB_PATH")
	if dbPath == "" {
		dbPath = "taskboard.db"
	}
	return &Module{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.users = auth.NewAdapter(container)
	}
}

// Start opens the database, migrates the task schema and wires the service.
func (m *Module) Start(_ context.Context) error {
	if m.users == nil {
		return fmt.Errorf("auth dependency not set")
	}

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

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(NewRepository(db), m.users)

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
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
			Message: fmt.Sprintf("failed to get database connection: %v", err),
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
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "change-status", json.Unmarshal, json.Marshal, m.handleChangeStatus,
	); err != nil {
		return fmt.Errorf("failed to register change-status service: %w", err)
	}

	log.Printf("[task] Registered services: services.task.{create,get,list,update,delete,change-status}")
	return nil
}

func (m *Module) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (SingleTaskResponse, error) {
	task, err := m.service.Create(ctx, req)
	if err != nil {
		return SingleTaskResponse{}, err
	}
	return SingleTaskResponse{Task: *task}, nil
}

func (m *Module) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (SingleTaskResponse, error) {
	task, err := m.service.Get(ctx, req)
	if err != nil {
		return SingleTaskResponse{}, err
	}
	return SingleTaskResponse{Task: *task}, nil
}

func (m *Module) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (TaskPageResponse, error) {
	page, err := m.service.List(ctx, req)
	if err != nil {
		return TaskPageResponse{}, err
	}
	return *page, nil
}

func (m *Module) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (SingleTaskResponse, error) {
	task, err := m.service.Update(ctx, req)
	if err != nil {
		return SingleTaskResponse{}, err
	}
	return SingleTaskResponse{Task: *task}, nil
}

func (m *Module) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	resp, err := m.service.Delete(ctx, req)
	if err != nil {
		return DeleteTaskResponse{}, err
	}
	return *resp, nil
}

func (m *Module) handleChangeStatus(ctx context.Context, req ChangeStatusRequest, _ *mono.Msg) (ChangeStatusResponse, error) {
	resp, err := m.service.ChangeStatus(ctx, req)
	if err != nil {
		return ChangeStatusResponse{}, err
	}
	return *resp, nil
}
