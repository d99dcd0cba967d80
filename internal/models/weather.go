package models

// WeatherSnapshot is the current-conditions reading for one place.
// Every field is optional upstream; nil means the value was not reported.
type WeatherSnapshot struct {
	Code         *int     `json:"weather_code"`
	IsDay        *int     `json:"is_day"`
	TemperatureC *float64 `json:"temperature_c"`
}

// Glyph is a single displayable symbol for a weather condition.
type Glyph string

const (
	GlyphUnknown      Glyph = "🌐"
	GlyphSun          Glyph = "☀️"
	GlyphMoon         Glyph = "🌙"
	GlyphPartlySunny  Glyph = "🌤️"
	GlyphCloud        Glyph = "☁️"
	GlyphFog          Glyph = "🌫️"
	GlyphRain         Glyph = "🌧️"
	GlyphSnow         Glyph = "❄️"
	GlyphThunderstorm Glyph = "⛈️"
	GlyphRainCloud    Glyph = "🌦️"

	// GlyphChat is shown when no weather could be fetched at all.
	GlyphChat Glyph = "💬"
)

// Banner is the rendered title block of a session.
type Banner struct {
	Icon     Glyph            `json:"icon"`
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle,omitempty"`
	Place    Place            `json:"place"`
	Weather  *WeatherSnapshot `json:"weather,omitempty"`
}
