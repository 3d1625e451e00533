package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskboard/modules/api"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/ratelimit"
	"github.com/example/taskboard/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Taskboard ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework.
	// Order: independent modules first, then dependent modules.
	rateLimitModule := ratelimit.NewModule()
	apiModule := api.NewModule()
	apiModule.SetRateLimitModule(rateLimitModule)

	app.Register(auth.NewModule())
	app.Register(task.NewModule())
	app.Register(rateLimitModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/register        - Register a new user")
	log.Println("  POST   /api/v1/auth/login           - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh         - Refresh access token")
	log.Println("  GET    /health                      - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/tasks                - List tasks (filters + pagination)")
	log.Println("  POST   /api/v1/tasks                - Create a task")
	log.Println("  GET    /api/v1/tasks/:id            - Get a task")
	log.Println("  PUT    /api/v1/tasks/:id            - Update a task")
	log.Println("  DELETE /api/v1/tasks/:id            - Delete a task (creator/admin)")
	log.Println("  PATCH  /api/v1/tasks/:id/status     - Change task status")
	log.Println("  GET    /api/v1/users                - List users")
	log.Println("  GET    /api/v1/users/:id            - Get user detail (admin)")
	log.Println("  PATCH  /api/v1/users/:id/status     - Activate/deactivate user (admin)")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
