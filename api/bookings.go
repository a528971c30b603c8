package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/domain"
	"github.com/holvik/staybook/internal/middleware"
	"github.com/holvik/staybook/internal/remote"
	"github.com/holvik/staybook/internal/service/handoff"
)

const noIntentMessage = "No booking details found. Please start a new booking."

// BookingFlow is the intent-to-booking pipeline the handler drives.
type BookingFlow interface {
	CaptureIntent(ctx context.Context, sid string, authenticated bool, in handoff.IntentInput) (handoff.Next, error)
	PaymentSummary(ctx context.Context, sid string) (*handoff.Summary, error)
	ConfirmAndPay(ctx context.Context, sid, token, email string, card handoff.CardDetails) (*domain.Booking, error)
}

// BookingWriter covers direct edits to an existing booking, proxied to the
// remote API under the caller's token.
type BookingWriter interface {
	UpdateBooking(ctx context.Context, token, id string, in remote.BookingUpdate) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, token, id string) error
}

type BookingHandler struct {
	flow   BookingFlow
	writer BookingWriter
}

func NewBookingHandler(flow BookingFlow, writer BookingWriter) *BookingHandler {
	return &BookingHandler{flow: flow, writer: writer}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/intent", h.captureIntent)
	router.GET("/payment", h.paymentSummary)
	router.POST("/pay", h.pay)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
}

// captureIntent stores the (venue, dates, guests) tuple for the session and
// answers with the next stop: payment for a logged-in caller, login otherwise.
// Anonymous captures are allowed; the intent waits out the login gate.
func (h *BookingHandler) captureIntent(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session is unavailable. Please reload and try again."})
		return
	}

	var req handoff.IntentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next, err := h.flow.CaptureIntent(c.Request.Context(), sess.ID, sess.Authenticated(), req)
	if err != nil {
		writeFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"next": next})
}

func (h *BookingHandler) paymentSummary(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}

	summary, err := h.flow.PaymentSummary(c.Request.Context(), sess.ID)
	if err != nil {
		writeFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *BookingHandler) pay(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}

	var req handoff.CardDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.flow.ConfirmAndPay(c.Request.Context(), sess.ID, sess.AccessToken, sess.Email, req)
	if err != nil {
		writeFlowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking, "next": "profile"})
}

func (h *BookingHandler) update(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}

	var req remote.BookingUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.writer.UpdateBooking(c.Request.Context(), sess.AccessToken, c.Param("id"), req)
	if err != nil {
		writeRemoteError(c, err, "Failed to update the booking. Please try again.")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) remove(c *gin.Context) {
	sess, ok := requireAuth(c)
	if !ok {
		return
	}

	if err := h.writer.DeleteBooking(c.Request.Context(), sess.AccessToken, c.Param("id")); err != nil {
		writeRemoteError(c, err, "Failed to cancel the booking. Please try again.")
		return
	}

	c.Status(http.StatusNoContent)
}

// writeFlowError translates handoff errors into responses: field problems
// land inline, missing intent sends the user back to the start, and remote
// rejections keep their own status and reason.
func writeFlowError(c *gin.Context, err error) {
	var fieldErr *handoff.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Reason, "field": fieldErr.Field})
		return
	}

	if errors.Is(err, handoff.ErrNoIntent) {
		c.JSON(http.StatusNotFound, gin.H{"error": noIntentMessage})
		return
	}
	if errors.Is(err, handoff.ErrInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": "A booking is already being processed. Please wait."})
		return
	}

	var bookingErr *handoff.BookingError
	if errors.As(err, &bookingErr) {
		status := bookingErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": bookingErr.Reason})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
}
