package domain

import "time"

type Booking struct {
	ID       string    `json:"id"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	Venue    *Venue    `json:"venue,omitempty"`
	Customer *Profile  `json:"customer,omitempty"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// BookingIntent is the client-held draft of a prospective booking. It only
// ever lives in the per-session mailbox slot; a confirmed Booking comes from
// the remote API alone.
type BookingIntent struct {
	VenueID  string    `json:"venueId"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
}

// SuccessNotice carries the one-shot booking confirmation across the redirect
// to the profile page.
type SuccessNotice struct {
	Message   string `json:"message"`
	BookingID string `json:"id"`
	VenueID   string `json:"venueId"`
	VenueName string `json:"venueName"`
}
