package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"weather-chat/internal/models"

	"github.com/rs/zerolog/log"
)

// PlaceGeocoder resolves a place name.
type PlaceGeocoder interface {
	Geocode(ctx context.Context, name string) (models.Place, bool)
}

// IPLocator infers the caller's place from its network address.
type IPLocator interface {
	Locate(ctx context.Context) (models.Place, bool)
	Invalidate()
}

// LocationState holds the active place of one session.
type LocationState struct {
	geocoder PlaceGeocoder
	locator  IPLocator
	fallback models.Place

	mu    sync.RWMutex
	place models.Place
}

// NewLocationState initialises the state from the IP locator, using fallback
// when the caller can't be located.
func NewLocationState(ctx context.Context, locator IPLocator, geocoder PlaceGeocoder, fallback models.Place) *LocationState {
	s := &LocationState{
		geocoder: geocoder,
		locator:  locator,
		fallback: fallback,
	}
	s.place = s.locate(ctx)
	return s
}

// Current returns the active place.
func (s *LocationState) Current() models.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.place
}

// Refresh drops the memoized IP location and resolves it again.
func (s *LocationState) Refresh(ctx context.Context) models.Place {
	s.locator.Invalidate()
	place := s.locate(ctx)

	s.mu.Lock()
	s.place = place
	s.mu.Unlock()
	return place
}

// Apply replaces the place fields with the geocoded name and keeps the
// network fields. On failure the state is left unchanged.
func (s *LocationState) Apply(ctx context.Context, name string) (models.Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.Current(), ErrEmptyInput
	}

	resolved, ok := s.geocoder.Geocode(ctx, name)
	if !ok {
		return s.Current(), fmt.Errorf("%w: %s", ErrPlaceNotFound, name)
	}

	s.mu.Lock()
	s.place = s.place.WithPlaceOf(resolved)
	place := s.place
	s.mu.Unlock()

	log.Debug().Str("name", name).Str("place", place.Label()).Msg("manual location applied")
	return place, nil
}

func (s *LocationState) locate(ctx context.Context) models.Place {
	if place, ok := s.locator.Locate(ctx); ok {
		return place
	}
	log.Debug().Str("fallback", s.fallback.Label()).Msg("ip location unavailable, using fallback")
	return s.fallback
}
