package upstream

import (
	"context"
	"encoding/json"
	"fmt"

	"weather-chat/internal/models"

	"github.com/go-resty/resty/v2"
)

// ipapi.co style response (provider A).
type ipapiResponse struct {
	IP          string   `json:"ip"`
	City        string   `json:"city"`
	CountryName string   `json:"country_name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Org         string   `json:"org"`
	ASN         string   `json:"asn"`
}

// IPAPIClient locates the caller through an ipapi.co compatible endpoint.
type IPAPIClient struct {
	client *resty.Client
}

func NewIPAPIClient(opts Options) *IPAPIClient {
	return &IPAPIClient{client: newRestyClient("ipapi", opts)}
}

func (c *IPAPIClient) Name() string { return "ipapi" }

// Locate returns the caller's approximate place. A response missing any of
// city, country or coordinates is reported as ErrIncomplete.
func (c *IPAPIClient) Locate(ctx context.Context) (*models.Place, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/json/")
	if err != nil {
		return nil, fmt.Errorf("upstream: ipapi request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out ipapiResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("upstream: failed to decode ipapi response: %w", err)
	}
	if out.City == "" || out.CountryName == "" || out.Latitude == nil || out.Longitude == nil {
		return nil, fmt.Errorf("%w: ipapi", ErrIncomplete)
	}

	org := out.Org
	if org == "" {
		org = out.ASN
	}
	return newIPPlace(out.City, out.CountryName, *out.Latitude, *out.Longitude, out.IP, org)
}

// ipwho.is style response (provider B).
type ipwhoisResponse struct {
	Success    bool     `json:"success"`
	IP         string   `json:"ip"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Connection struct {
		ISP string `json:"isp"`
	} `json:"connection"`
}

// IPWhoIsClient locates the caller through an ipwho.is compatible endpoint.
type IPWhoIsClient struct {
	client *resty.Client
}

func NewIPWhoIsClient(opts Options) *IPWhoIsClient {
	return &IPWhoIsClient{client: newRestyClient("ipwhois", opts)}
}

func (c *IPWhoIsClient) Name() string { return "ipwhois" }

// Locate returns the caller's approximate place. success=false counts as incomplete.
func (c *IPWhoIsClient) Locate(ctx context.Context) (*models.Place, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/")
	if err != nil {
		return nil, fmt.Errorf("upstream: ipwhois request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out ipwhoisResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("upstream: failed to decode ipwhois response: %w", err)
	}
	if !out.Success || out.City == "" || out.Country == "" || out.Latitude == nil || out.Longitude == nil {
		return nil, fmt.Errorf("%w: ipwhois", ErrIncomplete)
	}

	return newIPPlace(out.City, out.Country, *out.Latitude, *out.Longitude, out.IP, out.Connection.ISP)
}

func newIPPlace(city, country string, lat, lon float64, ip, org string) (*models.Place, error) {
	if !models.ValidCoordinates(lat, lon) {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrIncomplete)
	}
	return &models.Place{
		Name:    city,
		Country: country,
		Lat:     lat,
		Lon:     lon,
		IP:      ip,
		Org:     org,
	}, nil
}
