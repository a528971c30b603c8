package handoff

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/holvik/staybook/internal/remote"
)

var (
	// ErrNoIntent means the payment step found no stored booking details;
	// the flow terminates with a start-over screen, never a crash.
	ErrNoIntent = errors.New("no booking details found")
	// ErrInFlight means a booking creation is already running for this
	// session's intent.
	ErrInFlight = errors.New("a booking is already being processed")
)

// FieldError is a local validation rejection. It renders inline next to the
// offending field and never leaves the form as a banner.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// BookingError is a remote booking-creation rejection mapped to a short
// user-facing reason. The stored intent survives it so the user can retry.
type BookingError struct {
	Status int
	Reason string
}

func (e *BookingError) Error() string {
	return e.Reason
}

func classifyBookingError(err error) error {
	status := remote.StatusOf(err)
	switch {
	case status == http.StatusUnauthorized:
		return &BookingError{Status: status, Reason: "Authentication failed. Please log in again and try again."}
	case status == http.StatusForbidden:
		return &BookingError{Status: status, Reason: "You don't have permission to create this booking."}
	case status == http.StatusNotFound:
		return &BookingError{Status: status, Reason: "The venue couldn't be found. It may have been removed."}
	case status == http.StatusConflict:
		return &BookingError{Status: status, Reason: "This venue is already booked for the selected dates."}
	case status == http.StatusTooManyRequests:
		return &BookingError{Status: status, Reason: "Too many requests. Please wait a moment and try again."}
	case status >= 500:
		return &BookingError{Status: status, Reason: "Server error. Please try again later."}
	default:
		return &BookingError{Status: status, Reason: "Failed to create booking. Please try again."}
	}
}
