// Package weather contains the upstream provider adapters. Each adapter
// performs exactly one fetch attempt with an explicit deadline; any non-2xx
// status, network error or malformed payload comes back as an error the
// tool handlers translate into user-facing text.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// defaultRequestTimeout bounds every upstream call so a hung provider
// cannot stall a tool invocation.
const defaultRequestTimeout = 10 * time.Second

// NWSClient talks to the US National Weather Service API.
type NWSClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NWSOption configures an NWSClient.
type NWSOption func(*NWSClient)

// WithNWSHTTPClient overrides the HTTP client, used by tests.
func WithNWSHTTPClient(c *http.Client) NWSOption {
	return func(n *NWSClient) {
		n.httpClient = c
	}
}

// NewNWSClient creates a client for the NWS API. The NWS requires a
// User-Agent identifying the caller.
func NewNWSClient(baseURL, userAgent string, opts ...NWSOption) *NWSClient {
	client := &NWSClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// AlertsResponse is the GeoJSON alerts payload.
type AlertsResponse struct {
	Features []AlertFeature `json:"features"`
}

// AlertFeature is one active alert.
type AlertFeature struct {
	Properties AlertProperties `json:"properties"`
}

// AlertProperties carries the fields the formatter cares about.
type AlertProperties struct {
	Event       string `json:"event"`
	AreaDesc    string `json:"areaDesc"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
}

// GridPointResponse is the /points lookup payload.
type GridPointResponse struct {
	Properties GridPointProperties `json:"properties"`
}

// GridPointProperties carries the forecast URLs for a grid point.
type GridPointProperties struct {
	Forecast       string `json:"forecast"`
	ForecastHourly string `json:"forecastHourly"`
}

// ForecastResponse is the gridpoint forecast payload.
type ForecastResponse struct {
	Properties ForecastProperties `json:"properties"`
}

// ForecastProperties holds the forecast periods.
type ForecastProperties struct {
	Periods []ForecastPeriod `json:"periods"`
}

// ForecastPeriod is one named forecast window.
type ForecastPeriod struct {
	Name             string `json:"name"`
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

// GetAlerts fetches the active alerts for a two-letter state code.
func (n *NWSClient) GetAlerts(ctx context.Context, state string) (*AlertsResponse, error) {
	url := fmt.Sprintf("%s/alerts/active/area/%s", n.baseURL, state)

	var alerts AlertsResponse
	if err := n.fetchJSON(ctx, url, &alerts); err != nil {
		return nil, err
	}
	return &alerts, nil
}

// GetGridPoint resolves coordinates to an NWS grid point. Coordinates
// outside NWS coverage come back as a non-2xx status, surfaced as an error.
func (n *NWSClient) GetGridPoint(ctx context.Context, latitude, longitude float64) (*GridPointResponse, error) {
	url := fmt.Sprintf("%s/points/%.4f,%.4f", n.baseURL, latitude, longitude)

	var gridPoint GridPointResponse
	if err := n.fetchJSON(ctx, url, &gridPoint); err != nil {
		return nil, err
	}
	return &gridPoint, nil
}

// GetForecast fetches a forecast from the URL a grid point lookup returned.
func (n *NWSClient) GetForecast(ctx context.Context, forecastURL string) (*ForecastResponse, error) {
	var forecast ForecastResponse
	if err := n.fetchJSON(ctx, forecastURL, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

func (n *NWSClient) fetchJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
