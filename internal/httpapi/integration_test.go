package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traego/weather-bridge/pkg/client"
	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
	"github.com/traego/weather-bridge/pkg/server"
	"github.com/traego/weather-bridge/pkg/session/store"
	"github.com/traego/weather-bridge/pkg/toolset"
	"github.com/traego/weather-bridge/pkg/weather"
)

type stubUSProvider struct{}

func (stubUSProvider) GetAlerts(ctx context.Context, state string) (*weather.AlertsResponse, error) {
	return &weather.AlertsResponse{}, nil
}

func (stubUSProvider) GetGridPoint(ctx context.Context, latitude, longitude float64) (*weather.GridPointResponse, error) {
	return &weather.GridPointResponse{}, nil
}

func (stubUSProvider) GetForecast(ctx context.Context, forecastURL string) (*weather.ForecastResponse, error) {
	return &weather.ForecastResponse{}, nil
}

type stubCanadaProvider struct{}

func (stubCanadaProvider) GetCurrentConditions(ctx context.Context, location, province string) (*weather.CurrentConditions, error) {
	current := &weather.CurrentConditions{}
	current.Location.Name = location
	current.Location.Region = "ON"
	current.Current.Condition.Text = "Sunny"
	return current, nil
}

func (stubCanadaProvider) GetForecast(ctx context.Context, location, province string, days int) (*weather.CanadaForecast, error) {
	return &weather.CanadaForecast{}, nil
}

// TestAdapterAgainstRealServer wires the adapter the way cmd/weather-api
// does: a streamable HTTP connection for the Canadian tools and a 2024-11-05
// SSE connection for the US ones, both against one server.
func TestAdapterAgainstRealServer(t *testing.T) {
	deps := toolset.Deps{US: stubUSProvider{}, Canada: stubCanadaProvider{}}
	srv, err := server.NewMcpServer(config.TestConfig(),
		server.WithToolsetSelector(func(kind store.TransportKind) *resources.FeatureRegistry {
			return toolset.ForTransport(kind, deps)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Stop(context.Background()) })

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	canadaClient, err := client.NewMcpClient(ts.URL, client.DefaultClientOptions())
	require.NoError(t, err)
	require.NoError(t, canadaClient.Connect(context.Background()))
	t.Cleanup(func() { _ = canadaClient.Close(context.Background()) })

	usOptions := client.DefaultClientOptions()
	usOptions.ProtocolVersion = protocol.ProtocolVersion20241105
	usClient, err := client.NewMcpClient(ts.URL, usOptions)
	require.NoError(t, err)
	require.NoError(t, usClient.Connect(context.Background()))
	t.Cleanup(func() { _ = usClient.Close(context.Background()) })

	handler := New(usClient, canadaClient, testToken).Router()

	t.Run("us alerts", func(t *testing.T) {
		rec := doRequest(t, handler, "/api/us-weather/alerts?state=TX", testToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		env := decodeEnvelope(t, rec)
		require.True(t, env.Success)
		data := env.Data.(map[string]interface{})
		assert.Equal(t, "No active weather alerts for TX", data["report"])
	})

	t.Run("us forecast", func(t *testing.T) {
		rec := doRequest(t, handler, "/api/us-weather/forecast?lat=47.6&lon=-122.3", testToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		env := decodeEnvelope(t, rec)
		require.True(t, env.Success)
		data := env.Data.(map[string]interface{})
		assert.Equal(t, weather.TextNoForecastURL, data["report"])
	})

	t.Run("canada current", func(t *testing.T) {
		rec := doRequest(t, handler, "/api/canada-weather/current?location=Toronto", testToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		env := decodeEnvelope(t, rec)
		require.True(t, env.Success)
		data := env.Data.(map[string]interface{})
		assert.Contains(t, data["report"], "Current conditions for Toronto, ON")
		assert.Contains(t, data["report"], "Sunny")
	})
}
