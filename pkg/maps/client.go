package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

const (
	defaultStaticMapBaseURL       = "https://maps.googleapis.com/maps/api/staticmap"
	defaultGeocodeBaseURL         = "https://maps.googleapis.com/maps/api/geocode/json"
	responseBodyReadLimit   int64 = 1024
)

// Client wraps the Google Maps APIs used for map rendering and geocoding.
type Client struct {
	httpClient     *http.Client
	staticBaseURL  string
	geocodeBaseURL string
	apiKey         string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithStaticMapBaseURL overrides the static map base URL.
func WithStaticMapBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.staticBaseURL = trimmed
		}
	}
}

// WithGeocodeBaseURL overrides the geocoding base URL.
func WithGeocodeBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.geocodeBaseURL = trimmed
		}
	}
}

// NewClient builds the Google Maps client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	client := &Client{
		apiKey:         trimmedKey,
		staticBaseURL:  defaultStaticMapBaseURL,
		geocodeBaseURL: defaultGeocodeBaseURL,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return client, nil
}

// LatLng is a latitude/longitude pair.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// Marker describes a single pin on a static map.
type Marker struct {
	Location LatLng
	Color    string
}

// StaticMapRequest describes the map image to render.
type StaticMapRequest struct {
	Center  LatLng
	Zoom    int
	Width   int
	Height  int
	Markers []Marker
}

// StaticMapURL builds a keyed provider URL for the requested map image.
func (c *Client) StaticMapURL(req StaticMapRequest) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	if req.Width <= 0 || req.Height <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "map size must be positive")
	}
	if req.Zoom <= 0 {
		req.Zoom = 14
	}

	q := url.Values{}
	q.Set("center", formatLatLng(req.Center))
	q.Set("zoom", fmt.Sprintf("%d", req.Zoom))
	q.Set("size", fmt.Sprintf("%dx%d", req.Width, req.Height))
	for _, m := range req.Markers {
		value := formatLatLng(m.Location)
		if m.Color != "" {
			value = fmt.Sprintf("color:%s|%s", m.Color, value)
		}
		q.Add("markers", value)
	}
	q.Set("key", c.apiKey)

	return fmt.Sprintf("%s?%s", strings.TrimRight(c.staticBaseURL, "/"), q.Encode()), nil
}

// ReverseGeocode resolves coordinates to the nearest formatted address.
func (c *Client) ReverseGeocode(ctx context.Context, loc LatLng) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}

	q := url.Values{}
	q.Set("latlng", formatLatLng(loc))
	q.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s?%s", strings.TrimRight(c.geocodeBaseURL, "/"), q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build geocode request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "geocode request failed")
	}

	var apiResp struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}

	if apiResp.Status != "OK" || len(apiResp.Results) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("geocode returned status %s", apiResp.Status))
	}

	return apiResp.Results[0].FormattedAddress, nil
}

func formatLatLng(loc LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", loc.Latitude, loc.Longitude)
}
