package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bailey339/websiteThatlegendjack/internal/middlewares/csrf"
	"github.com/bailey339/websiteThatlegendjack/internal/middlewares/sessions"
	"github.com/bailey339/websiteThatlegendjack/internal/staff"
	"github.com/gofiber/fiber/v2"
)

type StaffHandler struct {
	staffService StaffService
}

func NewStaffHandler(staffService StaffService) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
	}
}

func (h *StaffHandler) PostLogin(ctx *fiber.Ctx) error {
	var form StaffLoginForm
	if err := ctx.BodyParser(&form); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrCodeMissingFields})
	}
	if formErrors := form.Validate(); len(formErrors) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  ErrCodeMissingFields,
			"fields": formErrors,
		})
	}

	username, err := h.staffService.Authenticate(form.Username, form.Password)
	if errors.Is(err, staff.ErrInvalidCredentials) {
		slog.Info("Staff login failed", "ip", ctx.IP())
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrCodeInvalidCredentials})
	}
	if err != nil {
		return err
	}

	session := sessions.SessionData{
		IP:        ctx.IP(),
		StaffUser: username,
		LoginTime: time.Now(),
	}
	if err := sessions.Reset(ctx, &session); err != nil {
		return err
	}
	csrfToken, err := csrf.Get(ctx)
	if err != nil {
		return err
	}
	slog.Info("Staff logged in", "staff", username, "ip", ctx.IP())
	return ctx.JSON(fiber.Map{
		"success":   true,
		"username":  username,
		"csrfToken": csrfToken,
	})
}

func (h *StaffHandler) PostLogout(ctx *fiber.Ctx) error {
	if err := sessions.Destroy(ctx); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true})
}

func (h *StaffHandler) GetMe(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderCacheControl, "no-store")

	session := sessions.Get(ctx)
	if !session.IsStaff() {
		return fiber.ErrUnauthorized
	}
	csrfToken, err := csrf.Get(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"username":  session.StaffUser,
		"loginTime": session.LoginTime,
		"csrfToken": csrfToken,
	})
}
