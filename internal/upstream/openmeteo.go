package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"weather-chat/internal/models"

	"github.com/go-resty/resty/v2"
)

type geocodeResponse struct {
	Results []struct {
		Name      string   `json:"name"`
		Country   string   `json:"country"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"results"`
}

// GeocodingClient searches place names with the Open-Meteo geocoding API.
type GeocodingClient struct {
	client   *resty.Client
	language string
}

// NewGeocodingClient creates a geocoding client. language is the naming
// preference sent with every search, e.g. "ko".
func NewGeocodingClient(opts Options, language string) *GeocodingClient {
	return &GeocodingClient{
		client:   newRestyClient("open-meteo-geocoding", opts),
		language: language,
	}
}

// SearchPlace returns the best match for name, or nil when there is none.
func (c *GeocodingClient) SearchPlace(ctx context.Context, name string) (*models.Place, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     name,
			"count":    "1",
			"language": c.language,
			"format":   "json",
		}).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("upstream: geocoding request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out geocodeResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("upstream: failed to decode geocoding response: %w", err)
	}
	if len(out.Results) == 0 {
		return nil, nil
	}

	res := out.Results[0]
	if res.Latitude == nil || res.Longitude == nil {
		return nil, fmt.Errorf("%w: geocoding result without coordinates", ErrIncomplete)
	}
	if !models.ValidCoordinates(*res.Latitude, *res.Longitude) {
		return nil, fmt.Errorf("%w: geocoding coordinates out of range", ErrIncomplete)
	}

	return &models.Place{
		Name:    res.Name,
		Country: res.Country,
		Lat:     *res.Latitude,
		Lon:     *res.Longitude,
	}, nil
}

type forecastResponse struct {
	Current *struct {
		Temperature2m *float64 `json:"temperature_2m"`
		WeatherCode   *int     `json:"weather_code"`
		IsDay         *int     `json:"is_day"`
	} `json:"current"`
}

// ForecastClient reads current conditions from the Open-Meteo forecast API.
type ForecastClient struct {
	client *resty.Client
}

func NewForecastClient(opts Options) *ForecastClient {
	return &ForecastClient{client: newRestyClient("open-meteo-forecast", opts)}
}

// Current returns temperature, WMO weather code and the day flag at lat/lon.
// Day/night is evaluated in the location's own timezone.
func (c *ForecastClient) Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(lat, 'f', -1, 64),
			"longitude": strconv.FormatFloat(lon, 'f', -1, 64),
			"current":   "temperature_2m,weather_code,is_day",
			"timezone":  "auto",
		}).
		Get("/forecast")
	if err != nil {
		return nil, fmt.Errorf("upstream: forecast request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out forecastResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("upstream: failed to decode forecast response: %w", err)
	}

	snapshot := &models.WeatherSnapshot{}
	if out.Current != nil {
		snapshot.Code = out.Current.WeatherCode
		snapshot.IsDay = out.Current.IsDay
		snapshot.TemperatureC = out.Current.Temperature2m
	}
	return snapshot, nil
}
