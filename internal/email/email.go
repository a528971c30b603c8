package email

import (
	"context"
	"fmt"

	"github.com/holvik/staybook/config"
	"github.com/holvik/staybook/internal/kafka"
	gomail "gopkg.in/gomail.v2"
)

// Sender mails booking confirmations to the customer. It runs in the worker,
// off the request path; a failed send is logged by the caller and skipped.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", event.Email)
	m.SetHeader("Subject", fmt.Sprintf("Booking confirmed: %s", event.VenueName))
	m.SetBody("text/plain", fmt.Sprintf(
		"Your booking at %s is confirmed.\n\nCheck-in:  %s\nCheck-out: %s\nGuests:    %d\nBooking reference: %s\n",
		event.VenueName,
		event.DateFrom.Format("2 January 2006"),
		event.DateTo.Format("2 January 2006"),
		event.Guests,
		event.BookingID,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send confirmation for booking %s: %w", event.BookingID, err)
	}
	return nil
}
