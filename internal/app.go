package internal

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy-engine/internal/config"
	"github.com/lk16/flippy-engine/internal/middleware"
	"github.com/lk16/flippy-engine/internal/routes"
	"github.com/lk16/flippy-engine/internal/services"
)

const (
	defaultConcurrency = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout = 10 * time.Second
	defaultIdleTimeout = 5 * time.Second
	defaultBodyLimit   = 64 * 1024 // 64KB
)

// SetupApp loads the configuration from the environment and creates the Fiber app.
// The caller closes the returned services after the app stops.
func SetupApp() (*fiber.App, *config.ServerConfig, *services.Services) {
	// Load configuration
	cfg := config.LoadServerConfig()

	// Initialize services
	services, err := services.InitServices(cfg)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	return BuildApp(cfg, services), cfg, services
}

// BuildApp creates the Fiber app with the given configuration and services.
func BuildApp(cfg *config.ServerConfig, services *services.Services) *fiber.App {
	// Searches can take up to the maximum time limit, writing the response comes after that.
	writeTimeout := time.Duration(cfg.MaxTimeLimit*float64(time.Second)) + defaultReadTimeout

	app := fiber.New(fiber.Config{
		Prefork:      cfg.Prefork,
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	// Setup connections to external services and config in Fiber app
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("services", services)
		c.Locals("config", cfg)
		return c.Next()
	})

	// Add logging middleware
	app.Use(middleware.Logging())

	// Setup all routes
	routes.SetupRoutes(app)

	return app
}
