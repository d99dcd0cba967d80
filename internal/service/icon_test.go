package service

import (
	"testing"

	"weather-chat/internal/models"

	"github.com/stretchr/testify/assert"
)

func ptr(v int) *int { return &v }

func TestWeatherIcon(t *testing.T) {
	day, night := ptr(1), ptr(0)

	tests := []struct {
		name     string
		code     *int
		isDay    *int
		expected models.Glyph
	}{
		{name: "unknown code", code: nil, isDay: day, expected: models.GlyphUnknown},
		{name: "unknown code at night", code: nil, isDay: night, expected: models.GlyphUnknown},
		{name: "clear day", code: ptr(0), isDay: day, expected: models.GlyphSun},
		{name: "clear night", code: ptr(0), isDay: night, expected: models.GlyphMoon},
		{name: "clear without day flag", code: ptr(0), isDay: nil, expected: models.GlyphMoon},
		{name: "mainly clear day", code: ptr(1), isDay: day, expected: models.GlyphPartlySunny},
		{name: "partly cloudy night", code: ptr(2), isDay: night, expected: models.GlyphMoon},
		{name: "overcast day", code: ptr(3), isDay: day, expected: models.GlyphCloud},
		{name: "overcast night", code: ptr(3), isDay: night, expected: models.GlyphCloud},
		{name: "fog", code: ptr(45), isDay: day, expected: models.GlyphFog},
		{name: "rime fog", code: ptr(48), isDay: night, expected: models.GlyphFog},
		{name: "thunderstorm", code: ptr(95), isDay: day, expected: models.GlyphThunderstorm},
		{name: "thunderstorm heavy hail", code: ptr(99), isDay: nil, expected: models.GlyphThunderstorm},
		{name: "unlisted code", code: ptr(4), isDay: day, expected: models.GlyphRainCloud},
		{name: "negative code", code: ptr(-1), isDay: night, expected: models.GlyphRainCloud},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeatherIcon(tt.code, tt.isDay))
		})
	}
}

func TestWeatherIcon_CodeGroups(t *testing.T) {
	groups := map[models.Glyph][]int{
		models.GlyphRain:         {51, 53, 55, 61, 63, 65, 80, 81, 82, 56, 57, 66, 67},
		models.GlyphSnow:         {71, 73, 75, 77, 85, 86},
		models.GlyphThunderstorm: {95, 96, 99},
		models.GlyphFog:          {45, 48},
	}

	for glyph, codes := range groups {
		for _, code := range codes {
			for _, isDay := range []*int{ptr(0), ptr(1), nil} {
				assert.Equal(t, glyph, WeatherIcon(ptr(code), isDay), "code %d", code)
			}
		}
	}
}

func TestWeatherIcon_Total(t *testing.T) {
	for code := -10; code <= 200; code++ {
		for _, isDay := range []*int{ptr(0), ptr(1), nil} {
			assert.NotEmpty(t, WeatherIcon(ptr(code), isDay), "code %d", code)
		}
	}
}
