package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/holvik/staybook/internal/domain"
)

const bookingsPath = "/holidaze/bookings"

type BookingCreate struct {
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	VenueID  string    `json:"venueId"`
}

type BookingUpdate struct {
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`
	Guests   *int       `json:"guests,omitempty"`
}

func (c *Client) CreateBooking(ctx context.Context, token string, in BookingCreate) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.do(ctx, http.MethodPost, bookingsPath, nil, token, in, &booking, nil); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) GetBooking(ctx context.Context, token, id string, withVenue, withCustomer bool) (*domain.Booking, error) {
	q := url.Values{}
	if withVenue {
		q.Set("_venue", "true")
	}
	if withCustomer {
		q.Set("_customer", "true")
	}

	var booking domain.Booking
	if err := c.do(ctx, http.MethodGet, bookingsPath+"/"+url.PathEscape(id), q, token, nil, &booking, nil); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) ListBookings(ctx context.Context, token string, p ListParams) ([]domain.Booking, Meta, error) {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
		if p.SortOrder != "" {
			q.Set("sortOrder", p.SortOrder)
		}
	}

	var bookings []domain.Booking
	var meta Meta
	if err := c.do(ctx, http.MethodGet, bookingsPath, q, token, nil, &bookings, &meta); err != nil {
		return nil, Meta{}, err
	}
	return bookings, meta, nil
}

func (c *Client) UpdateBooking(ctx context.Context, token, id string, in BookingUpdate) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.do(ctx, http.MethodPut, bookingsPath+"/"+url.PathEscape(id), nil, token, in, &booking, nil); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) DeleteBooking(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, bookingsPath+"/"+url.PathEscape(id), nil, token, nil, nil, nil)
}
