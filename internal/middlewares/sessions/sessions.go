package sessions

import (
	"encoding/gob"
	"log/slog"
	"time"

	"github.com/bailey339/websiteThatlegendjack/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	injectSessionKey = "session"
	sessionDataKey   = "data"
)

type SessionData struct {
	id             string    // session id
	IP             string    // client ip address
	StaffUser      string    // operator username
	CSRFToken      string    // csrf token
	CSRFExpireTime time.Time // csrf token expire time
	LastSeen       time.Time // last request time
	LoginTime      time.Time // last login time
}

func (s SessionData) ID() string {
	return s.id
}

func (s *SessionData) IsStaff() bool {
	return s.StaffUser != ""
}

func init() {
	gob.Register(SessionData{})
}

func GenerateSessionID() string {
	id, err := common.RandomToken(16)
	if err != nil {
		slog.Error("Could not generate session id", "error", err)
		return ""
	}
	return id
}

func Get(ctx *fiber.Ctx) SessionData {
	session := ctx.Locals(injectSessionKey).(*session.Session)
	data, _ := session.Get(sessionDataKey).(SessionData)
	data.id = session.ID()
	return data
}

func Set(ctx *fiber.Ctx, data SessionData) {
	session := ctx.Locals(injectSessionKey).(*session.Session)
	session.Set(sessionDataKey, data)
}

func Destroy(ctx *fiber.Ctx) error {
	sess := ctx.Locals(injectSessionKey).(*session.Session)
	return sess.Destroy()
}

// Reset issues a new session id, used on login to prevent fixation.
func Reset(ctx *fiber.Ctx, data *SessionData) error {
	sess := ctx.Locals(injectSessionKey).(*session.Session)
	err := sess.Reset()
	if err != nil {
		return err
	}
	data.id = sess.ID()
	sess.Set(sessionDataKey, *data)
	return nil
}

// SessionMiddleware loads the visitor's session. Sessions are only persisted
// once a handler stored data in them.
func SessionMiddleware(store *session.Store) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess, err := store.Get(ctx)
		if err != nil {
			return err
		}

		ctx.Locals(injectSessionKey, sess)
		if err := ctx.Next(); err != nil {
			return err
		}

		data, ok := sess.Get(sessionDataKey).(SessionData)
		if ok {
			data.LastSeen = time.Now()
			sess.Set(sessionDataKey, data)
			return sess.Save()
		}

		return nil
	}
}
