package middlewares

import (
	"github.com/bailey339/websiteThatlegendjack/internal/middlewares/sessions"
	"github.com/gofiber/fiber/v2"
)

// RequireStaff lets the request through only for a logged in operator.
func RequireStaff() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		session := sessions.Get(ctx)
		if !session.IsStaff() {
			return fiber.ErrUnauthorized
		}
		return ctx.Next()
	}
}

// RequireStaffIf applies RequireStaff only when enabled, for routes that stay
// public on sites without operator accounts.
func RequireStaffIf(enabled bool) fiber.Handler {
	if !enabled {
		return func(ctx *fiber.Ctx) error {
			return ctx.Next()
		}
	}
	return RequireStaff()
}
