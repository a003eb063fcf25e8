// Package weather fetches current conditions for the weather display mode.
//
// The client tries OpenWeatherMap when an API key is configured and falls
// back to Open-Meteo (keyless, lat/lon based) otherwise. Readings are
// cached for 24 hours; the display loop polls every few seconds and must
// not turn that into API traffic. Every failure path returns a nil
// reading - the loop only ever sees "no data", never a transport error.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/markoshka/markoshka/internal/logging"
)

const (
	// DefaultTimeout bounds a single fetch attempt.
	DefaultTimeout = 5 * time.Second

	// DefaultCacheDuration is how long a reading is reused before the
	// provider is asked again.
	DefaultCacheDuration = 24 * time.Hour

	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	openMeteoBaseURL   = "https://api.open-meteo.com/v1/forecast"

	// Default coordinates (Rostov-on-Don) when no location is configured.
	defaultLatitude  = "47.2357"
	defaultLongitude = "39.7015"
)

// Reading is one snapshot of current conditions. Fields are pointers:
// providers legitimately omit any of them and the display renders missing
// values as "?".
type Reading struct {
	TemperatureC *float64
	HumidityPct  *float64
	WindSpeedMS  *float64
	Location     string
}

// Config selects the provider and location.
type Config struct {
	// APIKey enables OpenWeatherMap. Empty key means Open-Meteo.
	APIKey string `yaml:"api_key,omitempty"`

	// City is the OpenWeatherMap query (default "Moscow").
	City string `yaml:"city,omitempty"`

	// Latitude/Longitude are the Open-Meteo coordinates as decimal
	// degree strings. Empty values use the built-in defaults.
	Latitude  string `yaml:"latitude,omitempty"`
	Longitude string `yaml:"longitude,omitempty"`
}

// Client fetches and caches readings. Safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client

	// Base URLs are fields so tests can point the client at httptest
	// servers.
	openWeatherURL string
	openMeteoURL   string

	cacheDuration time.Duration
	now           func() time.Time

	mu        sync.RWMutex
	cached    *Reading
	fetchedAt time.Time
}

// NewClient builds a client with default timeout and cache duration.
func NewClient(config Config) *Client {
	return &Client{
		config:         config,
		httpClient:     &http.Client{Timeout: DefaultTimeout},
		openWeatherURL: openWeatherBaseURL,
		openMeteoURL:   openMeteoBaseURL,
		cacheDuration:  DefaultCacheDuration,
		now:            time.Now,
	}
}

// Fetch returns the current reading, reusing the cache when it is fresh.
// Returns nil on any failure; the error is logged, never propagated.
func (c *Client) Fetch(ctx context.Context) *Reading {
	c.mu.RLock()
	if c.cached != nil && c.now().Sub(c.fetchedAt) < c.cacheDuration {
		reading := c.cached
		c.mu.RUnlock()
		return reading
	}
	c.mu.RUnlock()

	var (
		reading *Reading
		err     error
	)
	if c.config.APIKey != "" {
		reading, err = c.fetchOpenWeather(ctx)
	} else {
		reading, err = c.fetchOpenMeteo(ctx)
	}
	if err != nil {
		logging.Debug("Weather fetch failed", zap.Error(err))
		return nil
	}

	c.mu.Lock()
	c.cached = reading
	c.fetchedAt = c.now()
	c.mu.Unlock()

	logging.Info("Weather reading updated",
		zap.String("location", reading.Location),
	)
	return reading
}

type openWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

func (c *Client) fetchOpenWeather(ctx context.Context) (*Reading, error) {
	city := c.config.City
	if city == "" {
		city = "Moscow"
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.config.APIKey)
	params.Set("units", "metric")
	params.Set("lang", "ru")

	var resp openWeatherResponse
	if err := c.getJSON(ctx, c.openWeatherURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("openweathermap: %w", err)
	}

	return &Reading{
		TemperatureC: resp.Main.Temp,
		HumidityPct:  resp.Main.Humidity,
		WindSpeedMS:  resp.Wind.Speed,
		Location:     resp.Name,
	}, nil
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature *float64 `json:"temperature"`
		WindSpeed   *float64 `json:"windspeed"`
	} `json:"current_weather"`
	Hourly struct {
		RelativeHumidity []float64 `json:"relativehumidity_2m"`
	} `json:"hourly"`
}

func (c *Client) fetchOpenMeteo(ctx context.Context) (*Reading, error) {
	lat := c.config.Latitude
	lon := c.config.Longitude
	if lat == "" || lon == "" {
		lat, lon = defaultLatitude, defaultLongitude
	}

	params := url.Values{}
	params.Set("latitude", lat)
	params.Set("longitude", lon)
	params.Set("current_weather", "true")
	params.Set("timezone", "UTC")

	var resp openMeteoResponse
	if err := c.getJSON(ctx, c.openMeteoURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("open-meteo: %w", err)
	}

	reading := &Reading{
		TemperatureC: resp.CurrentWeather.Temperature,
		WindSpeedMS:  resp.CurrentWeather.WindSpeed,
	}

	// current_weather has no humidity; ask the hourly series separately.
	// Best effort: a failure here leaves humidity unset, not the whole
	// reading.
	if humidity, err := c.fetchOpenMeteoHumidity(ctx, lat, lon); err == nil {
		reading.HumidityPct = humidity
	} else {
		logging.Debug("Open-Meteo humidity lookup failed", zap.Error(err))
	}

	return reading, nil
}

func (c *Client) fetchOpenMeteoHumidity(ctx context.Context, lat, lon string) (*float64, error) {
	params := url.Values{}
	params.Set("latitude", lat)
	params.Set("longitude", lon)
	params.Set("hourly", "relativehumidity_2m")
	params.Set("timezone", "UTC")

	var resp openMeteoResponse
	if err := c.getJSON(ctx, c.openMeteoURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Hourly.RelativeHumidity) == 0 {
		return nil, fmt.Errorf("no humidity values returned")
	}
	humidity := resp.Hourly.RelativeHumidity[0]
	return &humidity, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
