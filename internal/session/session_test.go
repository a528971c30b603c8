package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/holvik/staybook/internal/cache"
	"github.com/holvik/staybook/internal/remote"
	"github.com/stretchr/testify/assert"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (s *memStore) GetDel(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	delete(s.data, key)
	return data, nil
}

func (s *memStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = value
	return true, nil
}

func (s *memStore) Del(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *memStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

var _ cache.Store = (*memStore)(nil)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": "ola",
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func TestManager_Begin_mintsAnonymousSession(t *testing.T) {
	manager := NewManager(newMemStore(), time.Hour)

	s, err := manager.Begin(context.Background())

	assert.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Authenticated())

	loaded, err := manager.Get(context.Background(), s.ID)
	assert.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
}

func TestManager_Get_missingSessionIsNotAnError(t *testing.T) {
	manager := NewManager(newMemStore(), time.Hour)

	s, err := manager.Get(context.Background(), "nope")

	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestManager_Authenticate_keepsTheSessionID(t *testing.T) {
	manager := NewManager(newMemStore(), time.Hour)
	ctx := context.Background()

	s, err := manager.Begin(ctx)
	assert.NoError(t, err)
	anonymousID := s.ID

	creds := &remote.Credentials{
		Name:         "ola",
		Email:        "ola@example.com",
		AccessToken:  signedToken(t, time.Now().Add(time.Hour)),
		VenueManager: true,
	}
	assert.NoError(t, manager.Authenticate(ctx, s, creds))

	// Same ID before and after, so a pre-login intent slot stays addressable.
	assert.Equal(t, anonymousID, s.ID)
	assert.True(t, s.Authenticated())

	loaded, err := manager.Get(ctx, anonymousID)
	assert.NoError(t, err)
	assert.Equal(t, "ola", loaded.Name)
	assert.True(t, loaded.VenueManager)
}

func TestManager_Clear(t *testing.T) {
	manager := NewManager(newMemStore(), time.Hour)
	ctx := context.Background()

	s, err := manager.Begin(ctx)
	assert.NoError(t, err)
	assert.NoError(t, manager.Clear(ctx, s.ID))

	loaded, err := manager.Get(ctx, s.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSession_Authenticated(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "no token", token: "", want: false},
		{name: "live jwt", token: "live", want: true},
		{name: "expired jwt", token: "expired", want: false},
		{name: "opaque token", token: "not-a-jwt-at-all", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.token
			switch token {
			case "live":
				token = signedToken(t, time.Now().Add(time.Hour))
			case "expired":
				token = signedToken(t, time.Now().Add(-time.Hour))
			}
			s := &Session{ID: "sid", AccessToken: token}
			assert.Equal(t, tt.want, s.Authenticated())
		})
	}
}

func TestSession_Authenticated_nilSession(t *testing.T) {
	var s *Session
	assert.False(t, s.Authenticated())
}
