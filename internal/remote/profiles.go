package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/holvik/staybook/internal/domain"
)

const profilesPath = "/holidaze/profiles"

type ProfileUpdate struct {
	Bio          *string       `json:"bio,omitempty"`
	Avatar       *domain.Media `json:"avatar,omitempty"`
	Banner       *domain.Media `json:"banner,omitempty"`
	VenueManager *bool         `json:"venueManager,omitempty"`
}

func (c *Client) GetProfile(ctx context.Context, token, name string, withVenues, withBookings bool) (*domain.Profile, error) {
	q := url.Values{}
	if withVenues {
		q.Set("_venues", "true")
	}
	if withBookings {
		q.Set("_bookings", "true")
	}

	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, profilesPath+"/"+url.PathEscape(name), q, token, nil, &profile, nil); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token, name string, in ProfileUpdate) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodPut, profilesPath+"/"+url.PathEscape(name), nil, token, in, &profile, nil); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ProfileVenues(ctx context.Context, token, name string) ([]domain.Venue, error) {
	var venues []domain.Venue
	if err := c.do(ctx, http.MethodGet, profilesPath+"/"+url.PathEscape(name)+"/venues", nil, token, nil, &venues, nil); err != nil {
		return nil, err
	}
	return venues, nil
}

// ProfileBookings returns the profile's bookings with their venues embedded,
// which is what the upcoming-trips view renders.
func (c *Client) ProfileBookings(ctx context.Context, token, name string) ([]domain.Booking, error) {
	q := url.Values{"_venue": {"true"}}
	var bookings []domain.Booking
	if err := c.do(ctx, http.MethodGet, profilesPath+"/"+url.PathEscape(name)+"/bookings", q, token, nil, &bookings, nil); err != nil {
		return nil, err
	}
	return bookings, nil
}
