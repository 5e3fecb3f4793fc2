package handlers

import (
	"errors"
	"log/slog"

	"github.com/bailey339/websiteThatlegendjack/internal/auth"
	"github.com/bailey339/websiteThatlegendjack/internal/middlewares/sessions"
	"github.com/bailey339/websiteThatlegendjack/internal/oauth"
	"github.com/bailey339/websiteThatlegendjack/internal/render"
	"github.com/gofiber/fiber/v2"
)

// SpotifyAuthHandler connects the site's Spotify account through the
// authorization code flow.
type SpotifyAuthHandler struct {
	authorizeService AuthorizeService
}

func NewSpotifyAuthHandler(authorizeService AuthorizeService) *SpotifyAuthHandler {
	return &SpotifyAuthHandler{
		authorizeService: authorizeService,
	}
}

func renderConnectError(ctx *fiber.Ctx, status int, message string) error {
	ctx.Status(status)
	return render.RenderConnectError(ctx, render.ConnectErrorPageData{
		Title:   MsgConnectFailedTitle,
		Message: message,
	})
}

func (h *SpotifyAuthHandler) GetLogin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	session.IP = ctx.IP()
	// storing data makes the session persist until the callback
	sessions.Set(ctx, session)

	consentURL, err := h.authorizeService.BeginAuthorization(ctx.UserContext(), session.ID())
	if errors.Is(err, oauth.ErrNotConfigured) {
		slog.Error("Spotify client credentials are not configured")
		return renderConnectError(ctx, fiber.StatusInternalServerError, MsgConnectNotConfigured)
	}
	if err != nil {
		return err
	}
	return ctx.Redirect(consentURL)
}

func (h *SpotifyAuthHandler) GetCallback(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)

	if reason := ctx.Query("error"); reason != "" {
		if err := h.authorizeService.CancelAuthorization(ctx.UserContext(), session.ID()); err != nil {
			slog.Warn("Could not discard pending authorization", "error", err)
		}
		slog.Info("Spotify authorization declined", "reason", reason)
		return renderConnectError(ctx, fiber.StatusBadRequest, MsgConnectDeclined)
	}

	err := h.authorizeService.CompleteAuthorization(ctx.UserContext(), session.ID(), ctx.Query("code"), ctx.Query("state"))
	if err == nil {
		return redirect(ctx, "/")
	}

	var exchangeErr *oauth.ExchangeError
	switch {
	case errors.Is(err, auth.ErrStateMismatch):
		slog.Warn("Rejected Spotify callback with mismatched state", "ip", ctx.IP())
		return renderConnectError(ctx, fiber.StatusBadRequest, MsgConnectInvalidState)
	case errors.As(err, &exchangeErr):
		slog.Error("Spotify code exchange failed",
			"status", exchangeErr.StatusCode,
			"errorCode", exchangeErr.ErrorCode,
			"body", exchangeErr.Body,
			"error", exchangeErr.Err,
		)
		return renderConnectError(ctx, fiber.StatusInternalServerError, MsgConnectFailed)
	case errors.Is(err, oauth.ErrNotConfigured):
		slog.Error("Spotify client credentials are not configured")
		return renderConnectError(ctx, fiber.StatusInternalServerError, MsgConnectNotConfigured)
	default:
		return err
	}
}
