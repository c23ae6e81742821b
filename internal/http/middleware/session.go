package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/linkdash/internal/app/session"
	"github.com/sifan077/linkdash/internal/http/util"
	"go.uber.org/zap"
)

const (
	SessionCookie = "linkdash_session"
	// LocalSessionID is the fiber.Locals key holding the session id.
	LocalSessionID = "session_id"
)

// Session resumes the session from its signed cookie, or starts a new one,
// and stores the id in the request's user context.
func Session(signer *util.SessionSigner, secure bool, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sid string
		if token := c.Cookies(SessionCookie); token != "" {
			if id, err := signer.Validate(token); err == nil {
				sid = id
			}
		}

		if sid == "" {
			id, token, err := signer.Issue()
			if err != nil {
				logger.Error("failed to issue session", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "session unavailable",
				})
			}
			sid = id
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    token,
				Path:     "/",
				Expires:  time.Now().Add(signer.TTL()),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(LocalSessionID, sid)
		c.SetUserContext(session.WithID(c.UserContext(), sid))
		return c.Next()
	}
}

// SessionID returns the id stored by Session, if any.
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(LocalSessionID).(string)
	return sid
}
