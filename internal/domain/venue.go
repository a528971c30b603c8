package domain

import (
	"math"
	"time"
)

type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type Location struct {
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	Zip     string  `json:"zip,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// Amenities maps the remote API's "meta" object. Each flag doubles as a
// client-side filter.
type Amenities struct {
	Wifi      bool `json:"wifi"`
	Parking   bool `json:"parking"`
	Breakfast bool `json:"breakfast"`
	Pets      bool `json:"pets"`
}

type Venue struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Media       []Media   `json:"media"`
	Price       float64   `json:"price"`
	MaxGuests   int       `json:"maxGuests"`
	Rating      float64   `json:"rating"`
	Location    Location  `json:"location"`
	Amenities   Amenities `json:"meta"`
	Owner       *Profile  `json:"owner,omitempty"`
	Bookings    []Booking `json:"bookings,omitempty"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// Nights counts billable nights between check-in and check-out, rounding a
// partial day up. A degenerate range still bills a single night.
func Nights(from, to time.Time) int {
	n := int(math.Ceil(to.Sub(from).Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}

func (v Venue) TotalFor(nights int) float64 {
	if nights < 1 {
		nights = 1
	}
	return v.Price * float64(nights)
}
