package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	mode string
	// checks maps a dependency name to its ping; a nil ping reports "disabled"
	checks map[string]func() error
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mode string, checks map[string]func() error) *HealthHandler {
	return &HealthHandler{mode: mode, checks: checks}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "clubhub API v1 is running",
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck pings every registered dependency
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	checks := fiber.Map{"api": "healthy"}
	for name, ping := range h.checks {
		switch {
		case ping == nil:
			checks[name] = "disabled"
		case ping() != nil:
			checks[name] = "unhealthy"
			status = "degraded"
		default:
			checks[name] = "healthy"
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}
