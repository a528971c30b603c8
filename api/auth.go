package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/middleware"
	"github.com/holvik/staybook/internal/remote"
	"github.com/holvik/staybook/internal/session"
)

type Authenticator interface {
	Login(ctx context.Context, in remote.LoginInput) (*remote.Credentials, error)
	Register(ctx context.Context, in remote.RegisterInput) (*remote.Credentials, error)
}

type SessionUpgrader interface {
	Authenticate(ctx context.Context, s *session.Session, creds *remote.Credentials) error
	Clear(ctx context.Context, sid string) error
}

// IntentChecker answers the login gate's one question: does this session
// carry a booking waiting to be paid for.
type IntentChecker interface {
	HasPendingIntent(ctx context.Context, sid string) bool
}

type AuthHandler struct {
	remote   Authenticator
	sessions SessionUpgrader
	intents  IntentChecker
}

func NewAuthHandler(remote Authenticator, sessions SessionUpgrader, intents IntentChecker) *AuthHandler {
	return &AuthHandler{remote: remote, sessions: sessions, intents: intents}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/login", h.login)
	router.POST("/register", h.register)
	router.POST("/logout", h.logout)
}

// login upgrades the caller's session in place so a booking intent captured
// before the login gate stays attached to the same session id. The response
// routes straight to payment when such an intent is waiting.
func (h *AuthHandler) login(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session is unavailable. Please reload and try again."})
		return
	}

	var req remote.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creds, err := h.remote.Login(c.Request.Context(), req)
	if err != nil {
		writeRemoteError(c, err, "Login failed. Please check your email and password.")
		return
	}

	if err := h.sessions.Authenticate(c.Request.Context(), sess, creds); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session storage is unavailable. Please try again later."})
		return
	}
	middleware.SetSession(c, sess)

	c.JSON(http.StatusOK, gin.H{
		"name":         creds.Name,
		"email":        creds.Email,
		"venueManager": creds.VenueManager,
		"next":         h.nextAfterAuth(c, sess.ID),
	})
}

// register creates the account and then signs it in. The remote registration
// response may omit the access token, so a follow-up login fills it in.
func (h *AuthHandler) register(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session is unavailable. Please reload and try again."})
		return
	}

	var req remote.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creds, err := h.remote.Register(c.Request.Context(), req)
	if err != nil {
		writeRemoteError(c, err, "Registration failed. Please try again.")
		return
	}

	if creds.AccessToken == "" {
		creds, err = h.remote.Login(c.Request.Context(), remote.LoginInput{Email: req.Email, Password: req.Password})
		if err != nil {
			writeRemoteError(c, err, "Account created, but sign-in failed. Please log in.")
			return
		}
	}

	if err := h.sessions.Authenticate(c.Request.Context(), sess, creds); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session storage is unavailable. Please try again later."})
		return
	}
	middleware.SetSession(c, sess)

	c.JSON(http.StatusCreated, gin.H{
		"name":         creds.Name,
		"email":        creds.Email,
		"venueManager": creds.VenueManager,
		"next":         h.nextAfterAuth(c, sess.ID),
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	if sess := middleware.SessionFrom(c); sess != nil {
		_ = h.sessions.Clear(c.Request.Context(), sess.ID)
	}
	c.SetCookie(cookieNameFrom(c), "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"next": "home"})
}

func (h *AuthHandler) nextAfterAuth(c *gin.Context, sid string) string {
	if h.intents != nil && h.intents.HasPendingIntent(c.Request.Context(), sid) {
		return "payment"
	}
	return "profile"
}

const cookieNameKey = "staybook_cookie_name"

// WithCookieName exposes the configured session cookie name to handlers that
// need to unset it.
func WithCookieName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cookieNameKey, name)
		c.Next()
	}
}

func cookieNameFrom(c *gin.Context) string {
	if v, ok := c.Get(cookieNameKey); ok {
		if name, ok := v.(string); ok && name != "" {
			return name
		}
	}
	return "staybook_sid"
}
