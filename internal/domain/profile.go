package domain

type ProfileCounts struct {
	Venues   int `json:"venues"`
	Bookings int `json:"bookings"`
}

type Profile struct {
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Bio          string         `json:"bio,omitempty"`
	Avatar       *Media         `json:"avatar,omitempty"`
	Banner       *Media         `json:"banner,omitempty"`
	VenueManager bool           `json:"venueManager"`
	Counts       *ProfileCounts `json:"_count,omitempty"`
}
