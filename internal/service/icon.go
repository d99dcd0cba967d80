package service

import "weather-chat/internal/models"

// WeatherIcon maps a WMO weather code and day flag to a glyph.
// Only the clear and partly clear codes distinguish day from night.
func WeatherIcon(code *int, isDay *int) models.Glyph {
	if code == nil {
		return models.GlyphUnknown
	}
	day := isDay != nil && *isDay == 1

	switch *code {
	case 0: // clear
		if day {
			return models.GlyphSun
		}
		return models.GlyphMoon
	case 1, 2: // mainly clear, partly cloudy
		if day {
			return models.GlyphPartlySunny
		}
		return models.GlyphMoon
	case 3: // overcast
		return models.GlyphCloud
	case 45, 48: // fog
		return models.GlyphFog
	case 51, 53, 55, 61, 63, 65, 80, 81, 82: // drizzle, rain
		return models.GlyphRain
	case 56, 57, 66, 67: // freezing drizzle, freezing rain
		return models.GlyphRain
	case 71, 73, 75, 77, 85, 86: // snow
		return models.GlyphSnow
	case 95, 96, 99: // thunderstorm
		return models.GlyphThunderstorm
	default:
		return models.GlyphRainCloud
	}
}
