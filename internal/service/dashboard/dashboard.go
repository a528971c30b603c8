// Package dashboard assembles the venue-manager view: every owned venue with
// its bookings and, where available, the customer behind each booking.
package dashboard

import (
	"context"
	"sync"

	"github.com/holvik/staybook/internal/domain"
)

type VenueSource interface {
	ProfileVenues(ctx context.Context, token, name string) ([]domain.Venue, error)
	GetVenue(ctx context.Context, id string, withOwner, withBookings bool) (*domain.Venue, error)
}

type BookingSource interface {
	GetBooking(ctx context.Context, token, id string, withVenue, withCustomer bool) (*domain.Booking, error)
}

// VenueBookings is one dashboard row. LoadError is set when the bookings for
// this venue could not be fetched; the rest of the dashboard still renders.
type VenueBookings struct {
	Venue     domain.Venue     `json:"venue"`
	Bookings  []domain.Booking `json:"bookings"`
	LoadError string           `json:"loadError,omitempty"`
}

type Service struct {
	venues   VenueSource
	bookings BookingSource
}

func NewService(venues VenueSource, bookings BookingSource) *Service {
	return &Service{venues: venues, bookings: bookings}
}

// Build fans out one call per owned venue and one per booking that needs
// customer detail. The calls run concurrently and are joined before
// returning; a failed sub-call degrades that row to partial data instead of
// aborting its siblings.
func (s *Service) Build(ctx context.Context, token, name string) ([]VenueBookings, error) {
	owned, err := s.venues.ProfileVenues(ctx, token, name)
	if err != nil {
		return nil, err
	}

	rows := make([]VenueBookings, len(owned))
	var wg sync.WaitGroup
	for i, venue := range owned {
		rows[i] = VenueBookings{Venue: venue, Bookings: []domain.Booking{}}

		wg.Add(1)
		go func(i int, venueID string) {
			defer wg.Done()
			full, err := s.venues.GetVenue(ctx, venueID, false, true)
			if err != nil {
				rows[i].LoadError = "Could not load bookings for this venue."
				return
			}
			rows[i].Bookings = s.fillCustomers(ctx, token, full.Bookings)
		}(i, venue.ID)
	}
	wg.Wait()

	return rows, nil
}

func (s *Service) fillCustomers(ctx context.Context, token string, bookings []domain.Booking) []domain.Booking {
	if bookings == nil {
		return []domain.Booking{}
	}

	var wg sync.WaitGroup
	for i := range bookings {
		if bookings[i].Customer != nil {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			detailed, err := s.bookings.GetBooking(ctx, token, bookings[i].ID, false, true)
			if err != nil {
				// Partial data: the booking renders without its customer.
				return
			}
			bookings[i].Customer = detailed.Customer
		}(i)
	}
	wg.Wait()
	return bookings
}
