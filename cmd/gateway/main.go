package main

import (
	"fmt"
	"log"
	"time"

	"structify/internal/common/config"
	"structify/internal/common/middleware"
	"structify/internal/gateway/handlers"
	"structify/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
		AppName:      "Structify Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(cfg.ProjectsURL))
	app.Get("/health/startup", handlers.StartupProbe)

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.OpenAPIDoc(cfg.OpenAPIPath))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Structify API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	projects := proxy.NewForwarder(cfg.ProjectsURL, time.Duration(cfg.ProxyTimeout)*time.Second)
	api.Post("/detect", projects.To("/detect"))
	api.Post("/import", projects.To("/import"))
	api.All("/projects", projects.Strip("/api/v1"))
	api.All("/projects/*", projects.Strip("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Structify Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /api/v1/projects, /import, /detect to %s", cfg.ProjectsURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
