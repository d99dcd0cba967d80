package main

import (
	"context"
	"net/http"
	"os"
	"time"

	_ "weather-chat/docs"
	"weather-chat/internal/config"
	"weather-chat/internal/handler"
	"weather-chat/internal/llm"
	"weather-chat/internal/models"
	"weather-chat/internal/repository"
	"weather-chat/internal/service"
	"weather-chat/internal/session"
	"weather-chat/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			weather-chat API
//	@version		1.0
//	@description	Chat sessions with a location-derived weather icon.
//	@BasePath		/

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	setupLogger(cfg)

	// Geocoding backend
	var geocodeRepo service.GeoCodeRepository
	switch cfg.Geocode.Backend {
	case config.BackendPostgres:
		conn, err := pgxpool.New(context.Background(), cfg.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()
		geocodeRepo = repository.NewRepository(conn)
	default:
		geocodeRepo = upstream.NewGeocodingClient(upstream.Options{
			BaseURL:    cfg.Geocode.BaseURL,
			Timeout:    cfg.Geocode.Timeout,
			RetryCount: cfg.HTTP.RetryCount,
		}, cfg.Geocode.Language)
	}

	forecastRepo := upstream.NewForecastClient(upstream.Options{
		BaseURL:    cfg.Forecast.BaseURL,
		Timeout:    cfg.Forecast.Timeout,
		RetryCount: cfg.HTTP.RetryCount,
	})

	ipOpts := func(baseURL string) upstream.Options {
		return upstream.Options{BaseURL: baseURL, Timeout: cfg.IP.Timeout, RetryCount: cfg.HTTP.RetryCount}
	}
	ipProviders := []service.IPLocationProvider{
		upstream.NewIPAPIClient(ipOpts(cfg.IP.PrimaryURL)),
		upstream.NewIPWhoIsClient(ipOpts(cfg.IP.SecondaryURL)),
	}

	// Initialize layers
	geoCodeService := service.NewGeoCodeService(geocodeRepo, cfg.Geocode.Timeout)
	ipLocationService := service.NewIPLocationService(ipProviders, cfg.IP.Timeout, cfg.IP.CacheTTL)
	weatherService := service.NewWeatherService(forecastRepo, cfg.Forecast.Timeout)
	bannerService := service.NewBannerService(weatherService)

	fallback := models.Place{
		Name:    cfg.Fallback.Name,
		Country: cfg.Fallback.Country,
		Lat:     cfg.Fallback.Lat,
		Lon:     cfg.Fallback.Lon,
	}
	store := session.NewStore(ipLocationService, geoCodeService, fallback, cfg.Session.Max, cfg.Session.TTL)

	completions := func(apiKey string) (service.CompletionClient, error) {
		client, err := llm.NewClient(apiKey, llm.Options{BaseURL: cfg.OpenAI.BaseURL, Model: cfg.OpenAI.Model})
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	geoCodeHandler := handler.NewGeoCodeHandler(geoCodeService)
	sessionHandler := handler.NewSessionHandler(store, bannerService, completions)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/geocode", geoCodeHandler.GeoCode)
	sessionHandler.Register(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("addr", cfg.ServerAddress).Str("geocode_backend", cfg.Geocode.Backend).Msg("starting server")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}
