package render

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var globalVars fiber.Map

func InitValues(data fiber.Map) {
	globalVars = data
}

func NewHtmlEngine(templateDir string) fiber.Views {
	if templateDir != "" {
		return html.NewFileSystem(http.Dir(templateDir), ".html")
	}
	renderFS, _ := fs.Sub(templateFS, "templates")
	return html.NewFileSystem(http.FS(renderFS), ".html")
}

func RenderConnectError(ctx *fiber.Ctx, data ConnectErrorPageData) error {
	return ctx.Render("connect-error", fiber.Map{
		"siteName": globalVars["siteName"],
		"title":    data.Title,
		"message":  data.Message,
	})
}

func RenderBadRequestError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusBadRequest).Render("bad-request", fiber.Map{
		"siteName": globalVars["siteName"],
	})
}

func RenderUnauthorizedError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).Render("unauthorized", fiber.Map{
		"siteName": globalVars["siteName"],
	})
}

func RenderForbiddenError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusForbidden).Render("unauthorized", fiber.Map{
		"siteName": globalVars["siteName"],
	})
}

func RenderNotFoundError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusNotFound).Render("not-found", fiber.Map{
		"siteName": globalVars["siteName"],
	})
}

func RenderInternalError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusInternalServerError).Render("internal-error", fiber.Map{
		"siteName": globalVars["siteName"],
	})
}
