package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/domain"
	"github.com/holvik/staybook/internal/middleware"
	"github.com/holvik/staybook/internal/remote"
	"github.com/holvik/staybook/internal/service/dashboard"
	"github.com/holvik/staybook/internal/session"
)

type ProfileSource interface {
	GetProfile(ctx context.Context, token, name string, withVenues, withBookings bool) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, token, name string, in remote.ProfileUpdate) (*domain.Profile, error)
	ProfileVenues(ctx context.Context, token, name string) ([]domain.Venue, error)
	ProfileBookings(ctx context.Context, token, name string) ([]domain.Booking, error)
}

// NoticeTaker hands out the session's one-shot booking-success notice.
type NoticeTaker interface {
	TakeNotice(ctx context.Context, sid string) *domain.SuccessNotice
}

type DashboardBuilder interface {
	Build(ctx context.Context, token, name string) ([]dashboard.VenueBookings, error)
}

type SessionUpdater interface {
	Update(ctx context.Context, s *session.Session) error
}

type ProfileHandler struct {
	source    ProfileSource
	notices   NoticeTaker
	dashboard DashboardBuilder
	sessions  SessionUpdater
}

func NewProfileHandler(source ProfileSource, notices NoticeTaker, dashboard DashboardBuilder, sessions SessionUpdater) *ProfileHandler {
	return &ProfileHandler{source: source, notices: notices, dashboard: dashboard, sessions: sessions}
}

func (h *ProfileHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.get)
	router.PUT("/", h.update)
	router.GET("/bookings", h.bookings)
	router.GET("/venues", h.venues)
	router.GET("/dashboard", h.managerDashboard)
}

// get returns the caller's profile. A freshly created booking surfaces here
// exactly once, as a notice riding along with the profile payload.
func (h *ProfileHandler) get(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}

	profile, err := h.source.GetProfile(c.Request.Context(), sess.AccessToken, sess.Name, false, false)
	if err != nil {
		writeRemoteError(c, err, "Failed to load your profile. Please try again later.")
		return
	}

	resp := gin.H{"profile": profile}
	if notice := h.notices.TakeNotice(c.Request.Context(), sess.ID); notice != nil {
		resp["notice"] = notice
	}
	c.JSON(http.StatusOK, resp)
}

// update edits the remote profile and mirrors the fields the session caches
// so subsequent requests see the change without a re-login.
func (h *ProfileHandler) update(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}

	var req remote.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.source.UpdateProfile(c.Request.Context(), sess.AccessToken, sess.Name, req)
	if err != nil {
		writeRemoteError(c, err, "Failed to update your profile. Please try again.")
		return
	}

	sess.Avatar = profile.Avatar
	sess.Banner = profile.Banner
	sess.VenueManager = profile.VenueManager
	if err := h.sessions.Update(c.Request.Context(), sess); err == nil {
		middleware.SetSession(c, sess)
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) bookings(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}

	bookings, err := h.source.ProfileBookings(c.Request.Context(), sess.AccessToken, sess.Name)
	if err != nil {
		writeRemoteError(c, err, "Failed to load your bookings. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *ProfileHandler) venues(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}

	venues, err := h.source.ProfileVenues(c.Request.Context(), sess.AccessToken, sess.Name)
	if err != nil {
		writeRemoteError(c, err, "Failed to load your venues. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"venues": venues})
}

// managerDashboard aggregates upcoming bookings per owned venue. Rows that
// fail to load carry their own error instead of failing the whole page.
func (h *ProfileHandler) managerDashboard(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}
	if !sess.VenueManager {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only venue managers can view the dashboard."})
		return
	}

	rows, err := h.dashboard.Build(c.Request.Context(), sess.AccessToken, sess.Name)
	if err != nil {
		writeRemoteError(c, err, "Failed to load the dashboard. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"venues": rows})
}
