package handlers

import (
	"github.com/bailey339/websiteThatlegendjack/internal/middlewares"
	"github.com/bailey339/websiteThatlegendjack/internal/middlewares/csrf"
	"github.com/bailey339/websiteThatlegendjack/params"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	SpotifyAuth *SpotifyAuthHandler
	API         *APIHandler
	Staff       *StaffHandler
	Health      *HealthHandler
}

type RouteOptions struct {
	// StaffEnabled puts /auth/login behind a staff session.
	StaffEnabled bool
	// LimiterStorage holds the staff login attempt counters, nil keeps them
	// in memory.
	LimiterStorage fiber.Storage
}

func staffLoginLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        params.StaffLoginMaxAttempts,
		Expiration: params.StaffLoginWindow,
		Storage:    storage,
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": ErrCodeTooManyRequests})
		},
	})
}

// SetupRoutes registers every server route except static files.
func SetupRoutes(router fiber.Router, h *Handlers, opts RouteOptions) {
	router.Get("/healthz", h.Health.GetHealth)

	router.Get("/auth/login", middlewares.RequireStaffIf(opts.StaffEnabled), h.SpotifyAuth.GetLogin)
	router.Get("/auth/callback", h.SpotifyAuth.GetCallback)

	api := router.Group("/api")
	api.Get("/now-playing", h.API.GetNowPlaying)
	api.Get("/connection-status", h.API.GetConnectionStatus)
	api.Get("/config", h.API.GetConfig)
	api.Delete("/disconnect", middlewares.RequireStaff(), csrf.New(), h.API.DeleteDisconnect)

	api.Post("/staff/login", staffLoginLimiter(opts.LimiterStorage), h.Staff.PostLogin)
	api.Post("/staff/logout", middlewares.RequireStaff(), csrf.New(), h.Staff.PostLogout)
	api.Get("/staff/me", h.Staff.GetMe)

	api.All("/*", func(ctx *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
