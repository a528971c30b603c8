package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/domain"
	"github.com/holvik/staybook/internal/middleware"
	"github.com/holvik/staybook/internal/remote"
	"github.com/holvik/staybook/internal/service/handoff"
	"github.com/holvik/staybook/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingFlow is a mock implementation of BookingFlow
type MockBookingFlow struct {
	mock.Mock
}

func (m *MockBookingFlow) CaptureIntent(ctx context.Context, sid string, authenticated bool, in handoff.IntentInput) (handoff.Next, error) {
	args := m.Called(ctx, sid, authenticated, in)
	return args.Get(0).(handoff.Next), args.Error(1)
}

func (m *MockBookingFlow) PaymentSummary(ctx context.Context, sid string) (*handoff.Summary, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoff.Summary), args.Error(1)
}

func (m *MockBookingFlow) ConfirmAndPay(ctx context.Context, sid, token, email string, card handoff.CardDetails) (*domain.Booking, error) {
	args := m.Called(ctx, sid, token, email, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// MockBookingWriter is a mock implementation of BookingWriter
type MockBookingWriter struct {
	mock.Mock
}

func (m *MockBookingWriter) UpdateBooking(ctx context.Context, token, id string, in remote.BookingUpdate) (*domain.Booking, error) {
	args := m.Called(ctx, token, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingWriter) DeleteBooking(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func newTestContext(t *testing.T, method, path string, body any, sess *session.Session) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")

	if sess != nil {
		middleware.SetSession(c, sess)
	}
	return c, w
}

// An opaque token counts as authenticated; only the remote API can judge it.
func authedSession() *session.Session {
	return &session.Session{ID: "sid", AccessToken: "token", Name: "ola", Email: "ola@example.com"}
}

func anonymousSession() *session.Session {
	return &session.Session{ID: "sid"}
}

func TestBookingHandler_captureIntent_authenticatedRoutesToPayment(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	input := handoff.IntentInput{VenueID: "v1", DateFrom: "2024-06-01", DateTo: "2024-06-04", Guests: 2}
	c, w := newTestContext(t, "POST", "/bookings/intent", input, authedSession())

	flow.On("CaptureIntent", mock.Anything, "sid", true, input).Return(handoff.NextPayment, nil)

	handler.captureIntent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "payment", resp["next"])
	flow.AssertExpectations(t)
}

func TestBookingHandler_captureIntent_anonymousRoutesToLogin(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	input := handoff.IntentInput{VenueID: "v1", DateFrom: "2024-06-01", DateTo: "2024-06-04", Guests: 2}
	c, w := newTestContext(t, "POST", "/bookings/intent", input, anonymousSession())

	flow.On("CaptureIntent", mock.Anything, "sid", false, input).Return(handoff.NextLogin, nil)

	handler.captureIntent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "login", resp["next"])
}

func TestBookingHandler_captureIntent_fieldErrorLandsInline(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	input := handoff.IntentInput{VenueID: "v1", DateFrom: "2024-06-04", DateTo: "2024-06-01", Guests: 2}
	c, w := newTestContext(t, "POST", "/bookings/intent", input, authedSession())

	flow.On("CaptureIntent", mock.Anything, "sid", true, input).
		Return(handoff.Next(""), &handoff.FieldError{Field: "dateTo", Reason: "Check-out must be after check-in."})

	handler.captureIntent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dateTo", resp["field"])
	assert.Equal(t, "Check-out must be after check-in.", resp["error"])
}

func TestBookingHandler_paymentSummary(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	c, w := newTestContext(t, "GET", "/bookings/payment", nil, authedSession())

	summary := &handoff.Summary{
		Venue:  &domain.Venue{ID: "v1", Name: "Beach House", Price: 100},
		Intent: domain.BookingIntent{VenueID: "v1", Guests: 2},
		Nights: 3, TotalPrice: 300,
	}
	flow.On("PaymentSummary", mock.Anything, "sid").Return(summary, nil)

	handler.paymentSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handoff.Summary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Nights)
	assert.Equal(t, 300.0, resp.TotalPrice)
}

func TestBookingHandler_paymentSummary_withoutIntent(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	c, w := newTestContext(t, "GET", "/bookings/payment", nil, authedSession())

	flow.On("PaymentSummary", mock.Anything, "sid").Return(nil, handoff.ErrNoIntent)

	handler.paymentSummary(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, noIntentMessage, resp["error"])
}

func TestBookingHandler_paymentSummary_requiresAuth(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	c, w := newTestContext(t, "GET", "/bookings/payment", nil, anonymousSession())

	handler.paymentSummary(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "login", resp["next"])
	flow.AssertNotCalled(t, "PaymentSummary", mock.Anything, mock.Anything)
}

func TestBookingHandler_pay_success(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	card := handoff.CardDetails{HolderName: "Ola Nordmann", Number: "4111111111111111", Expiry: "12/28", CVC: "123"}
	c, w := newTestContext(t, "POST", "/bookings/pay", card, authedSession())

	booking := &domain.Booking{ID: "b1", Guests: 2, DateFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	flow.On("ConfirmAndPay", mock.Anything, "sid", "token", "ola@example.com", card).Return(booking, nil)

	handler.pay(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Booking domain.Booking `json:"booking"`
		Next    string         `json:"next"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b1", resp.Booking.ID)
	assert.Equal(t, "profile", resp.Next)
	flow.AssertExpectations(t)
}

func TestBookingHandler_pay_conflictKeepsRemoteStatus(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	card := handoff.CardDetails{HolderName: "Ola Nordmann", Number: "4111111111111111", Expiry: "12/28", CVC: "123"}
	c, w := newTestContext(t, "POST", "/bookings/pay", card, authedSession())

	flow.On("ConfirmAndPay", mock.Anything, "sid", "token", "ola@example.com", card).
		Return(nil, &handoff.BookingError{Status: http.StatusConflict, Reason: "This venue is already booked for the selected dates."})

	handler.pay(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "This venue is already booked for the selected dates.", resp["error"])
}

func TestBookingHandler_pay_inFlight(t *testing.T) {
	flow := &MockBookingFlow{}
	handler := NewBookingHandler(flow, &MockBookingWriter{})

	card := handoff.CardDetails{HolderName: "Ola Nordmann", Number: "4111111111111111", Expiry: "12/28", CVC: "123"}
	c, w := newTestContext(t, "POST", "/bookings/pay", card, authedSession())

	flow.On("ConfirmAndPay", mock.Anything, "sid", "token", "ola@example.com", card).
		Return(nil, handoff.ErrInFlight)

	handler.pay(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_update(t *testing.T) {
	writer := &MockBookingWriter{}
	handler := NewBookingHandler(&MockBookingFlow{}, writer)

	guests := 3
	input := remote.BookingUpdate{Guests: &guests}
	c, w := newTestContext(t, "PUT", "/bookings/b1", input, authedSession())
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	updated := &domain.Booking{ID: "b1", Guests: 3}
	writer.On("UpdateBooking", mock.Anything, "token", "b1", input).Return(updated, nil)

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp domain.Booking
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Guests)
	writer.AssertExpectations(t)
}

func TestBookingHandler_remove(t *testing.T) {
	writer := &MockBookingWriter{}
	handler := NewBookingHandler(&MockBookingFlow{}, writer)

	c, w := newTestContext(t, "DELETE", "/bookings/b1", nil, authedSession())
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	writer.On("DeleteBooking", mock.Anything, "token", "b1").Return(nil)

	handler.remove(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	writer.AssertExpectations(t)
}
