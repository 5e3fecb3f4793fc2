package handlers

import (
	"log/slog"

	"github.com/bailey339/websiteThatlegendjack/internal/middlewares/sessions"
	"github.com/bailey339/websiteThatlegendjack/internal/nowplaying"
	"github.com/gofiber/fiber/v2"
)

type nowPlayingResponse struct {
	Playing bool `json:"playing"`
	*nowplaying.Track
}

// APIHandler serves the JSON endpoints polled by the site.
type APIHandler struct {
	nowPlaying    NowPlayingService
	tokenManager  TokenManager
	discordUserID string
}

func NewAPIHandler(nowPlaying NowPlayingService, tokenManager TokenManager, discordUserID string) *APIHandler {
	return &APIHandler{
		nowPlaying:    nowPlaying,
		tokenManager:  tokenManager,
		discordUserID: discordUserID,
	}
}

func (h *APIHandler) GetNowPlaying(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderCacheControl, "no-store")

	result, err := h.nowPlaying.GetNowPlaying(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": ErrCodeUpstream})
	}

	switch result.Status {
	case nowplaying.StatusNotConnected:
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrCodeNotConnected})
	case nowplaying.StatusPlaying:
		return ctx.JSON(nowPlayingResponse{Playing: true, Track: result.Track})
	default:
		return ctx.JSON(fiber.Map{"playing": false})
	}
}

func (h *APIHandler) GetConnectionStatus(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderCacheControl, "no-store")

	connected, err := h.tokenManager.Status(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"connected": connected})
}

func (h *APIHandler) DeleteDisconnect(ctx *fiber.Ctx) error {
	if err := h.tokenManager.Disconnect(ctx.UserContext()); err != nil {
		return err
	}
	slog.Info("Spotify account disconnected", "staff", sessions.Get(ctx).StaffUser)
	return ctx.JSON(fiber.Map{"success": true})
}

func (h *APIHandler) GetConfig(ctx *fiber.Ctx) error {
	var discordUserID any
	if h.discordUserID != "" {
		discordUserID = h.discordUserID
	}
	return ctx.JSON(fiber.Map{"discord_user_id": discordUserID})
}
