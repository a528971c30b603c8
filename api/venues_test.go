package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/domain"
	"github.com/holvik/staybook/internal/remote"
	"github.com/holvik/staybook/internal/service/venues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVenueEngine is a mock implementation of VenueEngine
type MockVenueEngine struct {
	mock.Mock
}

func (m *MockVenueEngine) Load(ctx context.Context, c venues.Criteria) (*venues.Result, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venues.Result), args.Error(1)
}

// MockVenueWriter is a mock implementation of VenueWriter
type MockVenueWriter struct {
	mock.Mock
}

func (m *MockVenueWriter) GetVenue(ctx context.Context, id string, withOwner, withBookings bool) (*domain.Venue, error) {
	args := m.Called(ctx, id, withOwner, withBookings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

func (m *MockVenueWriter) CreateVenue(ctx context.Context, token string, in remote.VenueCreate) (*domain.Venue, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

func (m *MockVenueWriter) UpdateVenue(ctx context.Context, token, id string, in remote.VenueCreate) (*domain.Venue, error) {
	args := m.Called(ctx, token, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

func (m *MockVenueWriter) DeleteVenue(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func TestVenueHandler_list_passesCriteriaThrough(t *testing.T) {
	engine := &MockVenueEngine{}
	handler := NewVenueHandler(engine, &MockVenueWriter{})

	c, w := newTestContext(t, "GET", "/venues/?country=Norway&wifi=true&sort=price&sortOrder=asc&page=2", nil, nil)

	want := venues.Criteria{
		Country: "Norway", Wifi: true,
		Sort: venues.SortPrice, SortOrder: "asc", Page: 2,
	}
	result := &venues.Result{
		Items:      []domain.Venue{{ID: "v1"}},
		TotalCount: 1, Page: 2, PageCount: 2,
		Pages: venues.PageSequence(2, 2),
	}
	engine.On("Load", mock.Anything, want).Return(result, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp venues.Result
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.TotalCount)
	engine.AssertExpectations(t)
}

func TestVenueHandler_list_failureDegradesToEmptyPage(t *testing.T) {
	engine := &MockVenueEngine{}
	handler := NewVenueHandler(engine, &MockVenueWriter{})

	c, w := newTestContext(t, "GET", "/venues/", nil, nil)

	engine.On("Load", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	handler.list(c)

	// The grid still renders; the failure arrives as a banner, not a status.
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []domain.Venue `json:"items"`
		Error string         `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, venuesLoadFailed, resp.Error)
}

func TestVenueHandler_get(t *testing.T) {
	writer := &MockVenueWriter{}
	handler := NewVenueHandler(&MockVenueEngine{}, writer)

	c, w := newTestContext(t, "GET", "/venues/v1?_owner=true", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "v1"}}

	writer.On("GetVenue", mock.Anything, "v1", true, false).
		Return(&domain.Venue{ID: "v1", Name: "Beach House"}, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp domain.Venue
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Beach House", resp.Name)
}

func TestVenueHandler_get_unknownVenue(t *testing.T) {
	writer := &MockVenueWriter{}
	handler := NewVenueHandler(&MockVenueEngine{}, writer)

	c, w := newTestContext(t, "GET", "/venues/nope", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	writer.On("GetVenue", mock.Anything, "nope", false, false).
		Return(nil, &remote.APIError{Status: http.StatusNotFound, Message: "venue not found"})

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVenueHandler_create_requiresVenueManager(t *testing.T) {
	writer := &MockVenueWriter{}
	handler := NewVenueHandler(&MockVenueEngine{}, writer)

	input := remote.VenueCreate{Name: "Cabin", Price: 120, MaxGuests: 4}
	c, w := newTestContext(t, "POST", "/venues/", input, authedSession())

	handler.create(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	writer.AssertNotCalled(t, "CreateVenue", mock.Anything, mock.Anything, mock.Anything)
}

func TestVenueHandler_create(t *testing.T) {
	writer := &MockVenueWriter{}
	handler := NewVenueHandler(&MockVenueEngine{}, writer)

	sess := authedSession()
	sess.VenueManager = true

	input := remote.VenueCreate{Name: "Cabin", Price: 120, MaxGuests: 4}
	c, w := newTestContext(t, "POST", "/venues/", input, sess)

	writer.On("CreateVenue", mock.Anything, "token", input).
		Return(&domain.Venue{ID: "v9", Name: "Cabin"}, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp domain.Venue
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "v9", resp.ID)
	writer.AssertExpectations(t)
}

func TestVenueHandler_remove(t *testing.T) {
	writer := &MockVenueWriter{}
	handler := NewVenueHandler(&MockVenueEngine{}, writer)

	sess := authedSession()
	sess.VenueManager = true

	c, w := newTestContext(t, "DELETE", "/venues/v1", nil, sess)
	c.Params = gin.Params{{Key: "id", Value: "v1"}}

	writer.On("DeleteVenue", mock.Anything, "token", "v1").Return(nil)

	handler.remove(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}
