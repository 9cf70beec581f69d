// Task Management API - a multi-tenant task backend with per-user isolation.
//
// Authenticated users create, read, update, and delete their own tasks
// through a versioned REST API. Ownership is enforced in the service layer:
// every read or mutation of a specific task checks existence first and
// ownership second, so absent tasks and foreign tasks stay distinguishable.
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/task-api/modules/api"
	"github.com/example/task-api/modules/auth"
	"github.com/example/task-api/modules/ratelimit"
	"github.com/example/task-api/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Task Management API ===")

	httpPort := getEnvInt("HTTP_PORT", 8080)
	redisAddr := getEnv("REDIS_ADDR", "")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	tasksModule := tasks.NewModule()
	authModule := auth.NewModule()
	apiModule := api.NewModule(httpPort)

	// Independent modules first, then the HTTP boundary that depends on them.
	app.Register(tasksModule)
	app.Register(authModule)

	if redisAddr != "" {
		rateLimitModule := ratelimit.NewModule(redisAddr)
		apiModule.SetRateLimitModule(rateLimitModule)
		app.Register(rateLimitModule)
	}

	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(httpPort)

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

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("  GET    /health             - Health check (no authentication)")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /api/v1/tasks       - Create a task")
	log.Println("  GET    /api/v1/tasks       - List own tasks, newest first")
	log.Println("  GET    /api/v1/tasks/:id   - Get a task")
	log.Println("  PUT    /api/v1/tasks/:id   - Replace a task (full update)")
	log.Println("  PATCH  /api/v1/tasks/:id   - Patch a task (partial update)")
	log.Println("  DELETE /api/v1/tasks/:id   - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a
// default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
