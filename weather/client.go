// Package weather is a small OpenWeather client used by the get_weather tool.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riza-io/riza-mcp/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBaseURL         = "http://api.openweathermap.org/data/2.5"
	DefaultCity            = "London"
	CurrentWeatherEndpoint = "weather"
	ForecastEndpoint       = "forecast"
	APIKeyEnv              = "OPENWEATHER_API_KEY"
	defaultUnits           = "metric"
	defaultTimeout         = 30 * time.Second
	maxErrorBody           = 4 << 10
)

// Report is the decoded OpenWeather payload.
type Report map[string]interface{}

// Client queries the OpenWeather API.
type Client struct {
	apiKey      string
	baseURL     string
	defaultCity string
	httpClient  *http.Client
	observer    *telemetry.Observer
}

type Option func(c *Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithDefaultCity(city string) Option {
	return func(c *Client) {
		if city != "" {
			c.defaultCity = city
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithObserver(observer *telemetry.Observer) Option {
	return func(c *Client) { c.observer = observer }
}

// New creates a client for apiKey.
func New(apiKey string, options ...Option) *Client {
	ret := &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		defaultCity: DefaultCity,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Current returns current conditions for city (default city when empty).
func (c *Client) Current(ctx context.Context, city string) (Report, error) {
	return c.get(ctx, CurrentWeatherEndpoint, city)
}

// Forecast returns the 5 day / 3 hour forecast for city.
func (c *Client) Forecast(ctx context.Context, city string) (Report, error) {
	return c.get(ctx, ForecastEndpoint, city)
}

func (c *Client) get(ctx context.Context, endpoint, city string) (report Report, err error) {
	if city == "" {
		city = c.defaultCity
	}
	ctx, finish := c.observer.Start(ctx, "weather_"+endpoint, attribute.String("city", city))
	defer func() { finish(err) }()

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", defaultUnits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s for %s: %w", endpoint, city, redactURL(err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("weather api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err = json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return report, nil
}

// redactURL drops the query, which carries the API key, from transport errors.
func redactURL(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	location := urlErr.URL
	if idx := strings.IndexByte(location, '?'); idx != -1 {
		location = location[:idx]
	}
	return &url.Error{Op: urlErr.Op, URL: location, Err: urlErr.Err}
}
