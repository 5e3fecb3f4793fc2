package middlewares

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bailey339/websiteThatlegendjack/internal/render"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	render.InitValues(fiber.Map{"siteName": "ThatLegendJack"})
	app := fiber.New(fiber.Config{
		Views:        render.NewHtmlEngine(""),
		ErrorHandler: ErrorHandler,
	})
	app.Get("/api/forbidden", func(ctx *fiber.Ctx) error { return fiber.ErrForbidden })
	app.Get("/api/broken", func(ctx *fiber.Ctx) error { return errors.New("database is down") })
	app.Get("/broken", func(ctx *fiber.Ctx) error { return errors.New("database is down") })
	app.Get("/missing", func(ctx *fiber.Ctx) error { return fiber.ErrNotFound })
	return app
}

func TestErrorHandlerAPI(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/forbidden", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "forbidden", body["error"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/broken", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "internal_error", body["error"])
}

func TestErrorHandlerPages(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/broken", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Something Went Wrong")
	assert.NotContains(t, string(page), "database is down")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
