// Package session is the single owner of the durable per-visitor state:
// the remote access token and the profile fields the UI needs between
// requests. Nothing else reads those keys directly.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/holvik/staybook/internal/cache"
	"github.com/holvik/staybook/internal/domain"
	"github.com/holvik/staybook/internal/remote"
)

type Session struct {
	ID           string        `json:"id"`
	AccessToken  string        `json:"accessToken,omitempty"`
	Name         string        `json:"name,omitempty"`
	Email        string        `json:"email,omitempty"`
	Avatar       *domain.Media `json:"avatar,omitempty"`
	Banner       *domain.Media `json:"banner,omitempty"`
	VenueManager bool          `json:"venueManager"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Authenticated reports whether the session carries a usable access token.
// The token is a JWT issued and verified by the remote API; here only the exp
// claim is probed, unverified, to avoid sending a token the API will reject.
func (s *Session) Authenticated() bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		// Opaque tokens pass through; the remote API is the authority.
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}

type Manager struct {
	store cache.Store
	ttl   time.Duration
}

func NewManager(store cache.Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Begin creates an anonymous session. Visitors get one before any login so
// the booking-intent slot has an owner to survive the auth gate.
func (m *Manager) Begin(ctx context.Context) (*Session, error) {
	s := &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get loads a session and refreshes its TTL. A missing or unparsable record
// returns (nil, nil); the caller starts over with Begin.
func (m *Manager) Get(ctx context.Context, sid string) (*Session, error) {
	data, err := m.store.Get(ctx, sessionKey(sid))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}
	_ = m.store.Expire(ctx, sessionKey(sid), m.ttl)
	return &s, nil
}

// Authenticate upgrades the session in place with the identity the remote
// auth endpoint handed back. The session ID is kept so any intent stored
// before the login gate stays addressable.
func (m *Manager) Authenticate(ctx context.Context, s *Session, creds *remote.Credentials) error {
	s.AccessToken = creds.AccessToken
	s.Name = creds.Name
	s.Email = creds.Email
	s.Avatar = creds.Avatar
	s.Banner = creds.Banner
	s.VenueManager = creds.VenueManager
	return m.save(ctx, s)
}

func (m *Manager) Update(ctx context.Context, s *Session) error {
	return m.save(ctx, s)
}

// Clear tears the session down (logout).
func (m *Manager) Clear(ctx context.Context, sid string) error {
	return m.store.Del(ctx, sessionKey(sid))
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, sessionKey(s.ID), payload, m.ttl)
}

func sessionKey(sid string) string {
	return "session:" + sid
}
