package remote

import (
	"context"
	"net/http"

	"github.com/holvik/staybook/internal/domain"
)

const authPath = "/auth"

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Password     string        `json:"password"`
	Avatar       *domain.Media `json:"avatar,omitempty"`
	VenueManager bool          `json:"venueManager"`
}

// Credentials is the authenticated identity the auth endpoints hand back.
// AccessToken is empty on register responses; callers log in afterwards.
type Credentials struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Avatar       *domain.Media `json:"avatar,omitempty"`
	Banner       *domain.Media `json:"banner,omitempty"`
	AccessToken  string        `json:"accessToken"`
	VenueManager bool          `json:"venueManager"`
}

func (c *Client) Login(ctx context.Context, in LoginInput) (*Credentials, error) {
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, authPath+"/login", nil, "", in, &creds, nil); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*Credentials, error) {
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, authPath+"/register", nil, "", in, &creds, nil); err != nil {
		return nil, err
	}
	return &creds, nil
}
