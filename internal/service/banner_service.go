package service

import (
	"context"
	"fmt"

	"weather-chat/internal/models"
)

const appTitle = "Chatbot"

// WeatherFetcher returns current conditions at a coordinate.
type WeatherFetcher interface {
	Current(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, bool)
}

// BannerService derives the title block shown above the transcript.
type BannerService struct {
	weather WeatherFetcher
}

func NewBannerService(weather WeatherFetcher) *BannerService {
	return &BannerService{weather: weather}
}

// Render fetches fresh weather for place. Without weather the chat glyph is
// shown and the subtitle is left empty.
func (s *BannerService) Render(ctx context.Context, place models.Place) models.Banner {
	banner := models.Banner{
		Icon:  models.GlyphChat,
		Place: place,
	}

	snapshot, ok := s.weather.Current(ctx, place.Lat, place.Lon)
	if ok {
		banner.Icon = WeatherIcon(snapshot.Code, snapshot.IsDay)
		banner.Weather = &snapshot
		if snapshot.TemperatureC != nil {
			banner.Subtitle = fmt.Sprintf("(%s · 현재 %.1f°C)", place.Label(), *snapshot.TemperatureC)
		} else {
			banner.Subtitle = fmt.Sprintf("(%s)", place.Label())
		}
	}

	banner.Title = fmt.Sprintf("%s %s", banner.Icon, appTitle)
	return banner
}
