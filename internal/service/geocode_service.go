package service

import (
	"context"
	"strings"
	"time"

	"weather-chat/internal/models"

	"github.com/rs/zerolog/log"
)

// GeoCodeService resolves free-text place names into places.
type GeoCodeService struct {
	repo    GeoCodeRepository
	timeout time.Duration
}

// GeoCodeRepository is any backend able to find the best place for a name.
// It returns nil without error when nothing matched.
type GeoCodeRepository interface {
	SearchPlace(ctx context.Context, name string) (*models.Place, error)
}

// NewGeoCodeService creates a new geo code service. timeout bounds every lookup.
func NewGeoCodeService(repo GeoCodeRepository, timeout time.Duration) *GeoCodeService {
	return &GeoCodeService{repo: repo, timeout: timeout}
}

// Geocode returns the best match for name. Empty input, no match, timeouts
// and backend failures all yield ok=false; it never returns an error.
func (s *GeoCodeService) Geocode(ctx context.Context, name string) (models.Place, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Place{}, false
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	place, err := s.repo.SearchPlace(ctx, name)
	if err != nil {
		log.Debug().Err(err).Str("name", name).Msg("geocode lookup failed")
		return models.Place{}, false
	}
	if place == nil {
		return models.Place{}, false
	}

	// only the place fields come from geocoding
	return models.Place{
		Name:    place.Name,
		Country: place.Country,
		Lat:     place.Lat,
		Lon:     place.Lon,
	}, true
}
