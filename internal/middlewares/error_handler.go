package middlewares

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/bailey339/websiteThatlegendjack/internal/render"
	"github.com/gofiber/fiber/v2"
)

func isAPIRequest(ctx *fiber.Ctx) bool {
	return strings.HasPrefix(ctx.Path(), "/api/")
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("Unhandled error", "path", ctx.Path(), "code", code, "error", err)
	} else {
		slog.Debug("Request failed", "path", ctx.Path(), "code", code, "error", err)
	}

	if isAPIRequest(ctx) {
		message := "internal_error"
		if fiberErr != nil && code < fiber.StatusInternalServerError {
			message = strings.ToLower(strings.ReplaceAll(fiberErr.Message, " ", "_"))
		}
		return ctx.Status(code).JSON(fiber.Map{"error": message})
	}

	switch code {
	case fiber.StatusBadRequest:
		return render.RenderBadRequestError(ctx)
	case fiber.StatusUnauthorized:
		return render.RenderUnauthorizedError(ctx)
	case fiber.StatusForbidden:
		return render.RenderForbiddenError(ctx)
	case fiber.StatusNotFound:
		return render.RenderNotFoundError(ctx)
	default:
		return render.RenderInternalError(ctx)
	}
}
