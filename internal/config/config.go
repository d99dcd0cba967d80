package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"server_address"`
	DBSource      string `mapstructure:"db_source"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`

	Geocode  GeocodeConfig  `mapstructure:"geocode"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	IP       IPConfig       `mapstructure:"ip"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Session  SessionConfig  `mapstructure:"session"`
	Fallback FallbackPlace  `mapstructure:"fallback"`
}

// GeocodeConfig selects and tunes the place-name lookup.
type GeocodeConfig struct {
	Backend  string        `mapstructure:"backend"`
	BaseURL  string        `mapstructure:"base_url"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ForecastConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// IPConfig configures the ordered IP geolocation providers and the shared result cache.
type IPConfig struct {
	PrimaryURL   string        `mapstructure:"primary_url"`
	SecondaryURL string        `mapstructure:"secondary_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

type HTTPConfig struct {
	RetryCount int `mapstructure:"retry_count"`
}

type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
	Max int           `mapstructure:"max"`
}

// FallbackPlace is used whenever no location could be resolved.
type FallbackPlace struct {
	Name    string  `mapstructure:"name"`
	Country string  `mapstructure:"country"`
	Lat     float64 `mapstructure:"lat"`
	Lon     float64 `mapstructure:"lon"`
}

const (
	BackendOpenMeteo = "open-meteo"
	BackendPostgres  = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_address", ":8080")
	v.SetDefault("db_source", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("geocode.backend", BackendOpenMeteo)
	v.SetDefault("geocode.base_url", "https://geocoding-api.open-meteo.com/v1")
	v.SetDefault("geocode.language", "ko")
	v.SetDefault("geocode.timeout", 7*time.Second)

	v.SetDefault("forecast.base_url", "https://api.open-meteo.com/v1")
	v.SetDefault("forecast.timeout", 7*time.Second)

	v.SetDefault("ip.primary_url", "https://ipapi.co")
	v.SetDefault("ip.secondary_url", "https://ipwho.is")
	v.SetDefault("ip.timeout", 6*time.Second)
	v.SetDefault("ip.cache_ttl", 30*time.Minute)

	v.SetDefault("http.retry_count", 0)

	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-3.5-turbo")

	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.max", 1024)

	v.SetDefault("fallback.name", "Seoul")
	v.SetDefault("fallback.country", "South Korea")
	v.SetDefault("fallback.lat", 37.5665)
	v.SetDefault("fallback.lon", 126.9780)
}

// LoadConfig reads configuration from config.yaml in path (if present) and
// from WEATHERCHAT_* environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("weatherchat")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: read: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks the values that would otherwise fail late at request time.
func (c Config) Validate() error {
	switch c.Geocode.Backend {
	case BackendOpenMeteo:
	case BackendPostgres:
		if c.DBSource == "" {
			return fmt.Errorf("config: db_source is required for geocode backend %q", BackendPostgres)
		}
	default:
		return fmt.Errorf("config: unknown geocode backend %q", c.Geocode.Backend)
	}
	if c.Fallback.Lat < -90 || c.Fallback.Lat > 90 {
		return fmt.Errorf("config: invalid fallback latitude: %f", c.Fallback.Lat)
	}
	if c.Fallback.Lon < -180 || c.Fallback.Lon > 180 {
		return fmt.Errorf("config: invalid fallback longitude: %f", c.Fallback.Lon)
	}
	if c.HTTP.RetryCount < 0 {
		return fmt.Errorf("config: retry_count cannot be negative")
	}
	return nil
}
