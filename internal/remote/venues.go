package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/holvik/staybook/internal/domain"
)

const venuesPath = "/holidaze/venues"

// ListParams mirrors the list endpoint's server-side knobs.
type ListParams struct {
	Limit     int
	Page      int
	Sort      string
	SortOrder string
}

type VenueCreate struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Media       []domain.Media    `json:"media,omitempty"`
	Price       float64           `json:"price"`
	MaxGuests   int               `json:"maxGuests"`
	Rating      float64           `json:"rating,omitempty"`
	Amenities   *domain.Amenities `json:"meta,omitempty"`
	Location    *domain.Location  `json:"location,omitempty"`
}

func (c *Client) ListVenues(ctx context.Context, p ListParams) ([]domain.Venue, Meta, error) {
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

	var venues []domain.Venue
	var meta Meta
	if err := c.do(ctx, http.MethodGet, venuesPath, q, "", nil, &venues, &meta); err != nil {
		return nil, Meta{}, err
	}
	return venues, meta, nil
}

// SearchVenues hits the free-text endpoint, which returns an unpaginated,
// unsorted candidate set.
func (c *Client) SearchVenues(ctx context.Context, query string) ([]domain.Venue, error) {
	q := url.Values{"q": {query}}
	var venues []domain.Venue
	if err := c.do(ctx, http.MethodGet, venuesPath+"/search", q, "", nil, &venues, nil); err != nil {
		return nil, err
	}
	return venues, nil
}

func (c *Client) GetVenue(ctx context.Context, id string, withOwner, withBookings bool) (*domain.Venue, error) {
	q := url.Values{}
	if withOwner {
		q.Set("_owner", "true")
	}
	if withBookings {
		q.Set("_bookings", "true")
	}

	var venue domain.Venue
	if err := c.do(ctx, http.MethodGet, venuesPath+"/"+url.PathEscape(id), q, "", nil, &venue, nil); err != nil {
		return nil, fmt.Errorf("get venue %s: %w", id, err)
	}
	return &venue, nil
}

func (c *Client) CreateVenue(ctx context.Context, token string, in VenueCreate) (*domain.Venue, error) {
	var venue domain.Venue
	if err := c.do(ctx, http.MethodPost, venuesPath, nil, token, in, &venue, nil); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (c *Client) UpdateVenue(ctx context.Context, token, id string, in VenueCreate) (*domain.Venue, error) {
	var venue domain.Venue
	if err := c.do(ctx, http.MethodPut, venuesPath+"/"+url.PathEscape(id), nil, token, in, &venue, nil); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (c *Client) DeleteVenue(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, venuesPath+"/"+url.PathEscape(id), nil, token, nil, nil, nil)
}
