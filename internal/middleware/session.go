package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/session"
)

const sessionContextKey = "staybook_session"

// EnsureSession guarantees every request carries a session, minting an
// anonymous one on first contact. The intent slot needs an owner before the
// visitor ever logs in.
func EnsureSession(manager *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var s *session.Session
		if sid, err := c.Cookie(cookieName); err == nil && sid != "" {
			s, _ = manager.Get(c.Request.Context(), sid)
		}
		if s == nil {
			created, err := manager.Begin(c.Request.Context())
			if err != nil {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session storage is unavailable. Please try again later."})
				return
			}
			s = created
			c.SetCookie(cookieName, s.ID, int(manager.TTL().Seconds()), "/", "", false, true)
		}
		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// SessionFrom returns the request's session. It is always present behind
// EnsureSession.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// SetSession replaces the request-scoped session, used by tests and by the
// auth handlers after an upgrade.
func SetSession(c *gin.Context, s *session.Session) {
	c.Set(sessionContextKey, s)
}
