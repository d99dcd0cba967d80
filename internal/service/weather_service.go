package service

import (
	"context"
	"time"

	"weather-chat/internal/models"

	"github.com/rs/zerolog/log"
)

// ForecastRepository reads current conditions at a coordinate.
type ForecastRepository interface {
	Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
}

// WeatherService fetches a fresh snapshot on every call; nothing is cached.
type WeatherService struct {
	repo    ForecastRepository
	timeout time.Duration
}

func NewWeatherService(repo ForecastRepository, timeout time.Duration) *WeatherService {
	return &WeatherService{repo: repo, timeout: timeout}
}

// Current returns the conditions at lat/lon, or ok=false on any failure.
func (s *WeatherService) Current(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, bool) {
	if !models.ValidCoordinates(lat, lon) {
		return models.WeatherSnapshot{}, false
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	snapshot, err := s.repo.Current(ctx, lat, lon)
	if err != nil {
		log.Debug().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("weather lookup failed")
		return models.WeatherSnapshot{}, false
	}
	if snapshot == nil {
		return models.WeatherSnapshot{}, false
	}
	return *snapshot, true
}
