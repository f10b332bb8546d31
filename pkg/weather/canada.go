package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// CanadaClient talks to the Canadian weather provider. Locations are
// free-text city names with an optional province qualifier.
type CanadaClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// CanadaOption configures a CanadaClient.
type CanadaOption func(*CanadaClient)

// WithCanadaHTTPClient overrides the HTTP client, used by tests.
func WithCanadaHTTPClient(c *http.Client) CanadaOption {
	return func(cc *CanadaClient) {
		cc.httpClient = c
	}
}

// NewCanadaClient creates a client for the Canadian weather provider.
func NewCanadaClient(baseURL, apiKey string, opts ...CanadaOption) *CanadaClient {
	client := &CanadaClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Condition is a human-readable condition summary.
type Condition struct {
	Text string `json:"text"`
}

// Location identifies the place a payload describes.
type Location struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// CurrentConditions is the current-weather payload.
type CurrentConditions struct {
	Location Location `json:"location"`
	Current  struct {
		TempC      float64   `json:"temp_c"`
		FeelsLikeC float64   `json:"feelslike_c"`
		WindKph    float64   `json:"wind_kph"`
		WindDir    string    `json:"wind_dir"`
		Humidity   int       `json:"humidity"`
		Condition  Condition `json:"condition"`
	} `json:"current"`
}

// CanadaForecast is the multi-day forecast payload.
type CanadaForecast struct {
	Location Location `json:"location"`
	Forecast struct {
		Days []ForecastDay `json:"forecastday"`
	} `json:"forecast"`
}

// ForecastDay is one day of forecast.
type ForecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC          float64   `json:"maxtemp_c"`
		MinTempC          float64   `json:"mintemp_c"`
		DailyChanceOfRain int       `json:"daily_chance_of_rain"`
		Condition         Condition `json:"condition"`
	} `json:"day"`
}

// GetCurrentConditions fetches the current conditions for a location.
func (c *CanadaClient) GetCurrentConditions(ctx context.Context, location, province string) (*CurrentConditions, error) {
	endpoint := fmt.Sprintf("%s/current.json?%s", c.baseURL, c.query(location, province, 0))

	var current CurrentConditions
	if err := c.fetchJSON(ctx, endpoint, &current); err != nil {
		return nil, err
	}
	return &current, nil
}

// GetForecast fetches a 1-3 day forecast for a location. The upstream API
// only supports 1 to 3 days, so out-of-range values are clamped.
func (c *CanadaClient) GetForecast(ctx context.Context, location, province string, days int) (*CanadaForecast, error) {
	if days < 1 {
		days = 1
	}
	if days > 3 {
		days = 3
	}
	endpoint := fmt.Sprintf("%s/forecast.json?%s", c.baseURL, c.query(location, province, days))

	var forecast CanadaForecast
	if err := c.fetchJSON(ctx, endpoint, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

func (c *CanadaClient) query(location, province string, days int) string {
	q := location
	if province != "" {
		q = fmt.Sprintf("%s,%s", location, province)
	}
	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", q)
	if days > 0 {
		values.Set("days", fmt.Sprintf("%d", days))
	}
	return values.Encode()
}

func (c *CanadaClient) fetchJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}
