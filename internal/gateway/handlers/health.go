package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe reports ready once the projects service answers its own health check.
func ReadinessProbe(projectsURL string) fiber.Handler {
	client := &http.Client{Timeout: 2 * time.Second}

	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, projectsURL+"/health", nil)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "not ready", "error": err.Error()})
		}
		resp, err := client.Do(req)
		if err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "error": err.Error()})
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "not ready",
				"upstream": resp.StatusCode,
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
