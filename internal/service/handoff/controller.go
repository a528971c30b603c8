// Package handoff carries a booking selection across the authentication
// boundary and into payment, ending in exactly one booking-creation call.
//
// The flow is strictly sequential per session: select dates on the venue page
// (CaptureIntent), pass the login gate if anonymous, render the priced
// summary (PaymentSummary), then settle and submit (ConfirmAndPay). The
// intent lives in the session's mailbox slot between steps; an in-flight lock
// keeps double submissions from creating duplicate bookings.
package handoff

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/holvik/staybook/internal/domain"
	"github.com/holvik/staybook/internal/kafka"
	"github.com/holvik/staybook/internal/remote"
)

// Next tells the caller where the flow goes after intent capture.
type Next string

const (
	NextLogin   Next = "login"
	NextPayment Next = "payment"
)

type VenueGetter interface {
	GetVenue(ctx context.Context, id string, withOwner, withBookings bool) (*domain.Venue, error)
}

type BookingCreator interface {
	CreateBooking(ctx context.Context, token string, in remote.BookingCreate) (*domain.Booking, error)
}

type IntentStore interface {
	PutIntent(ctx context.Context, sid string, in domain.BookingIntent) error
	TakeIntent(ctx context.Context, sid string) (*domain.BookingIntent, error)
	PeekIntent(ctx context.Context, sid string) (*domain.BookingIntent, error)
	HasIntent(ctx context.Context, sid string) (bool, error)
	PutNotice(ctx context.Context, sid string, n domain.SuccessNotice) error
	TakeNotice(ctx context.Context, sid string) (*domain.SuccessNotice, error)
}

type Locker interface {
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Controller struct {
	venues   VenueGetter
	bookings BookingCreator
	intents  IntentStore
	locks    Locker
	producer Producer
	topic    string
	payDelay time.Duration
}

type ControllerOption func(*Controller)

func WithNotifications(producer Producer, topic string) ControllerOption {
	return func(c *Controller) {
		c.producer = producer
		c.topic = topic
	}
}

func WithSettleDelay(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.payDelay = d
	}
}

func NewController(venues VenueGetter, bookings BookingCreator, intents IntentStore, locks Locker, opts ...ControllerOption) *Controller {
	c := &Controller{
		venues:   venues,
		bookings: bookings,
		intents:  intents,
		locks:    locks,
		payDelay: 1500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var validate = newValidator()

// Validation errors report the json field name so they land next to the
// right form input.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type IntentInput struct {
	VenueID  string `json:"venueId" validate:"required"`
	DateFrom string `json:"dateFrom" validate:"required"`
	DateTo   string `json:"dateTo" validate:"required"`
	Guests   int    `json:"guests" validate:"required,min=1"`
}

// CardDetails are validated locally and then discarded. No gateway is
// involved; settlement is simulated.
type CardDetails struct {
	HolderName string `json:"holderName" validate:"required"`
	Number     string `json:"number" validate:"required,numeric,min=12,max=19"`
	Expiry     string `json:"expiry" validate:"required"`
	CVC        string `json:"cvc" validate:"required,numeric,min=3,max=4"`
}

type Summary struct {
	Venue      *domain.Venue        `json:"venue"`
	Intent     domain.BookingIntent `json:"intent"`
	Nights     int                  `json:"nights"`
	TotalPrice float64              `json:"totalPrice"`
}

// CaptureIntent validates the (venue, dates, guests) tuple and stores it in
// the session slot. Nothing is stored when validation fails. The returned
// Next routes an anonymous visitor through the login gate with the intent
// left intact for after the redirect.
func (c *Controller) CaptureIntent(ctx context.Context, sid string, authenticated bool, in IntentInput) (Next, error) {
	if err := validate.Struct(in); err != nil {
		return "", firstFieldError(err)
	}

	from, err := parseDate(in.DateFrom)
	if err != nil {
		return "", &FieldError{Field: "dateFrom", Reason: "Check-in date is invalid."}
	}
	to, err := parseDate(in.DateTo)
	if err != nil {
		return "", &FieldError{Field: "dateTo", Reason: "Check-out date is invalid."}
	}
	if !to.After(from) {
		return "", &FieldError{Field: "dateTo", Reason: "Check-out must be after check-in."}
	}

	venue, err := c.venues.GetVenue(ctx, in.VenueID, false, false)
	if err != nil {
		return "", classifyBookingError(err)
	}
	if in.Guests > venue.MaxGuests {
		return "", &FieldError{Field: "guests", Reason: "This venue allows at most the listed number of guests."}
	}

	intent := domain.BookingIntent{VenueID: in.VenueID, DateFrom: from, DateTo: to, Guests: in.Guests}
	if err := c.intents.PutIntent(ctx, sid, intent); err != nil {
		return "", err
	}

	if authenticated {
		return NextPayment, nil
	}
	return NextLogin, nil
}

// HasPendingIntent is the login gate's probe: a successful login with a
// pending intent skips the profile landing and goes straight to payment.
func (c *Controller) HasPendingIntent(ctx context.Context, sid string) bool {
	ok, err := c.intents.HasIntent(ctx, sid)
	return err == nil && ok
}

// PaymentSummary renders the priced confirmation: venue details plus
// nights × nightly price. The intent is only peeked; it stays available for
// ConfirmAndPay or a page reload.
func (c *Controller) PaymentSummary(ctx context.Context, sid string) (*Summary, error) {
	intent, err := c.intents.PeekIntent(ctx, sid)
	if err != nil {
		return nil, ErrNoIntent
	}

	venue, err := c.venues.GetVenue(ctx, intent.VenueID, false, false)
	if err != nil {
		return nil, classifyBookingError(err)
	}

	nights := domain.Nights(intent.DateFrom, intent.DateTo)
	return &Summary{
		Venue:      venue,
		Intent:     *intent,
		Nights:     nights,
		TotalPrice: venue.TotalFor(nights),
	}, nil
}

// ConfirmAndPay settles the simulated payment, consumes the intent and
// creates the booking. On remote rejection the intent is put back so the user
// retries without re-entering dates; on success the slot is cleared for good
// and a one-shot success notice is written for the profile page.
func (c *Controller) ConfirmAndPay(ctx context.Context, sid, token, email string, card CardDetails) (*domain.Booking, error) {
	if err := validate.Struct(card); err != nil {
		return nil, firstFieldError(err)
	}

	locked, err := c.locks.SetNX(ctx, payLockKey(sid), []byte("1"), 30*time.Second)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrInFlight
	}
	defer func() { _ = c.locks.Del(ctx, payLockKey(sid)) }()

	if err := c.settle(ctx); err != nil {
		return nil, err
	}

	intent, err := c.intents.TakeIntent(ctx, sid)
	if err != nil {
		return nil, ErrNoIntent
	}

	booking, err := c.bookings.CreateBooking(ctx, token, remote.BookingCreate{
		DateFrom: intent.DateFrom,
		DateTo:   intent.DateTo,
		Guests:   intent.Guests,
		VenueID:  intent.VenueID,
	})
	if err != nil || booking == nil || booking.ID == "" {
		// The slot was consumed above; restore it so a retry needs no
		// re-entry of dates.
		_ = c.intents.PutIntent(ctx, sid, *intent)
		if err == nil {
			err = errors.New("booking creation returned no id")
		}
		return nil, classifyBookingError(err)
	}

	venueName := "Venue"
	if venue, verr := c.venues.GetVenue(ctx, intent.VenueID, false, false); verr == nil {
		venueName = venue.Name
	}

	notice := domain.SuccessNotice{
		Message:   "Your booking was successfully created!",
		BookingID: booking.ID,
		VenueID:   intent.VenueID,
		VenueName: venueName,
	}
	if err := c.intents.PutNotice(ctx, sid, notice); err != nil {
		return booking, nil
	}

	c.publishCreated(ctx, booking, intent.VenueID, venueName, email)
	return booking, nil
}

// TakeNotice hands out the one-shot success notice, at most once.
func (c *Controller) TakeNotice(ctx context.Context, sid string) *domain.SuccessNotice {
	notice, err := c.intents.TakeNotice(ctx, sid)
	if err != nil {
		return nil
	}
	return notice
}

// settle is the simulated gateway round trip: a fixed delay that still
// honors cancellation.
func (c *Controller) settle(ctx context.Context) error {
	select {
	case <-time.After(c.payDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) publishCreated(ctx context.Context, booking *domain.Booking, venueID, venueName, email string) {
	if c.producer == nil || c.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      "booking_created",
		BookingID: booking.ID,
		VenueID:   venueID,
		VenueName: venueName,
		Email:     email,
		DateFrom:  booking.DateFrom,
		DateTo:    booking.DateTo,
		Guests:    booking.Guests,
	}
	_ = c.producer.Publish(ctx, c.topic, booking.ID, event)
}

func payLockKey(sid string) string {
	return "paylock:" + sid
}

// parseDate accepts the two formats forms send: a bare date or full RFC3339.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func firstFieldError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		switch verrs[0].Tag() {
		case "required":
			return &FieldError{Field: field, Reason: "This field is required."}
		default:
			return &FieldError{Field: field, Reason: "This value is invalid."}
		}
	}
	return err
}
