package handlers

import (
	"context"
	"log/slog"

	"github.com/bailey339/websiteThatlegendjack/params"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) GetHealth(ctx *fiber.Ctx) error {
	checkCtx, cancel := context.WithTimeout(ctx.UserContext(), params.UpstreamTimeout)
	defer cancel()

	for name, check := range h.checks {
		if err := check(checkCtx); err != nil {
			slog.Error("Health check failed", "check", name, "error", err)
			return ctx.Status(fiber.StatusServiceUnavailable).SendString("unhealthy")
		}
	}
	return ctx.SendString("ok")
}
