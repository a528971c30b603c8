package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/middleware"
	"github.com/holvik/staybook/internal/remote"
	"github.com/holvik/staybook/internal/session"
)

// requireAuth resolves the request session and rejects unauthenticated
// callers with a login hint.
func requireAuth(c *gin.Context) (*session.Session, bool) {
	s := middleware.SessionFrom(c)
	if s == nil || !s.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Please log in to continue.",
			"next":  "login",
		})
		return nil, false
	}
	return s, true
}

// writeRemoteError surfaces a remote rejection with its own status and a
// short message. Transport failures collapse to the fallback banner; raw
// errors never reach the response.
func writeRemoteError(c *gin.Context, err error, fallback string) {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		c.JSON(apiErr.Status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
}
