package csrf

import (
	"errors"
	"time"

	"github.com/bailey339/websiteThatlegendjack/internal/common"
	"github.com/bailey339/websiteThatlegendjack/internal/middlewares/sessions"
	"github.com/bailey339/websiteThatlegendjack/params"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderName    = "X-CSRF-Token"
	FormFieldName = "_csrf"
	tokenLength   = 32
)

var (
	ErrInvalidToken = errors.New("invalid CSRF token")
)

// Get returns the session's CSRF token, issuing a new one when it is missing
// or expired.
func Get(ctx *fiber.Ctx) (string, error) {
	session := sessions.Get(ctx)
	if session.CSRFToken != "" && time.Now().Before(session.CSRFExpireTime) {
		return session.CSRFToken, nil
	}
	token, err := common.RandomToken(tokenLength)
	if err != nil {
		return "", err
	}
	session.CSRFToken = token
	session.CSRFExpireTime = time.Now().Add(params.CSRFTokenExpiration)
	sessions.Set(ctx, session)
	return token, nil
}

func Verify(ctx *fiber.Ctx) bool {
	token := ctx.Get(HeaderName)
	if token == "" && ctx.Method() == fiber.MethodPost {
		token = ctx.FormValue(FormFieldName)
	}
	if token == "" {
		return false
	}

	session := sessions.Get(ctx)
	if session.CSRFToken == "" || time.Now().After(session.CSRFExpireTime) {
		return false
	}
	return common.SecureCompare(session.CSRFToken, token)
}

func isSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

// New rejects state changing requests that do not carry the session's token.
func New() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if isSafeMethod(ctx.Method()) || Verify(ctx) {
			return ctx.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, ErrInvalidToken.Error())
	}
}
