// Package upstream holds the HTTP clients for the public lookup services:
// Open-Meteo geocoding and forecast, and the IP geolocation providers.
package upstream

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const userAgent = "weather-chat/1.0"

var (
	// ErrStatus is returned when an upstream answers with a non-2xx status.
	ErrStatus = errors.New("upstream: unexpected status")
	// ErrIncomplete is returned when a response lacks a required field.
	ErrIncomplete = errors.New("upstream: incomplete response")
)

// Options tunes a resty client for one upstream.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

func newRestyClient(name string, opts Options) *resty.Client {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount)

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		log.Trace().
			Str("upstream", name).
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("upstream request")
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		log.Debug().
			Str("upstream", name).
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("duration", resp.Time()).
			Int("bytes", len(resp.Body())).
			Msg("upstream response")
		return nil
	})

	return client
}

func checkStatus(resp *resty.Response) error {
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %s", ErrStatus, resp.Status())
	}
	return nil
}
