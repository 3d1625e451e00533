package api

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Module is the HTTP API module. It exposes the task and user operations over
// Fiber and depends on the auth and task modules through the service
// container.
type Module struct {
	app           *fiber.App
	authContainer mono.ServiceContainer
	taskContainer mono.ServiceContainer
	users         auth.UserPort
	rateLimit     *ratelimit.Module
	port          int
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new API Module.
func NewModule() *Module {
	port := 3000
	if raw := os.Getenv("HTTP_PORT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			port = parsed
		}
	}
	return &Module{
		port: port,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth", "task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.users = auth.NewAdapter(container)
	case "task":
		m.taskContainer = container
	}
}

// SetRateLimitModule wires the optional rate limiting module. When unset the
// API runs without rate limits.
func (m *Module) SetRateLimitModule(rl *ratelimit.Module) {
	m.rateLimit = rl
}

// Start initializes the Fiber HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.taskContainer == nil {
		return fmt.Errorf("task dependency not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(fmt.Sprintf(":%d", m.port)); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%d", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *Module) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.taskContainer, m.users)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := m.app.Group("/api/v1")

	// Public auth routes, rate limited per client IP.
	authRoutes := v1.Group("/auth")
	if m.rateLimit != nil && m.rateLimit.Enabled() {
		authRoutes.Use(m.rateLimit.Middleware().IPRateLimit())
	}
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/refresh", handlers.Refresh)

	// Protected routes, rate limited per authenticated user.
	protected := v1.Group("")
	protected.Use(AuthMiddleware(m.users))
	if m.rateLimit != nil && m.rateLimit.Enabled() {
		protected.Use(m.rateLimit.Middleware().UserRateLimit())
	}

	protected.Get("/tasks", handlers.ListTasks)
	protected.Post("/tasks", handlers.CreateTask)
	protected.Get("/tasks/:id", handlers.GetTask)
	protected.Put("/tasks/:id", handlers.UpdateTask)
	protected.Delete("/tasks/:id", handlers.DeleteTask)
	protected.Patch("/tasks/:id/status", handlers.ChangeTaskStatus)

	protected.Get("/users", handlers.ListUsers)
	protected.Get("/users/:id", handlers.GetUser)
	protected.Patch("/users/:id/status", handlers.SetUserActive)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
