package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAlerts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alerts/active/area/TX", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(`{"features":[{"properties":{"event":"Tornado Warning","areaDesc":"Travis County","severity":"Extreme"}}]}`))
	}))
	defer ts.Close()

	client := NewNWSClient(ts.URL, "test-agent")
	alerts, err := client.GetAlerts(context.Background(), "TX")
	require.NoError(t, err)
	require.Len(t, alerts.Features, 1)
	assert.Equal(t, "Tornado Warning", alerts.Features[0].Properties.Event)
}

func TestGetAlertsUpstreamFailure(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"features": not json`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			client := NewNWSClient(ts.URL, "test-agent")
			alerts, err := client.GetAlerts(context.Background(), "TX")
			require.Error(t, err)
			assert.Nil(t, alerts)
		})
	}
}

func TestGetGridPointAndForecast(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"properties":{"forecast":"` + ts.URL + `/forecast"}}`))
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"properties":{"periods":[{"name":"Tonight","temperature":55,"temperatureUnit":"F","windSpeed":"5 mph","windDirection":"NW","detailedForecast":"Clear skies."}]}}`))
	})

	client := NewNWSClient(ts.URL, "test-agent")

	gridPoint, err := client.GetGridPoint(context.Background(), 47.6, -122.3)
	require.NoError(t, err)
	require.Equal(t, ts.URL+"/forecast", gridPoint.Properties.Forecast)

	forecast, err := client.GetForecast(context.Background(), gridPoint.Properties.Forecast)
	require.NoError(t, err)
	require.Len(t, forecast.Properties.Periods, 1)
	assert.Equal(t, "Tonight", forecast.Properties.Periods[0].Name)
	assert.Equal(t, 55, forecast.Properties.Periods[0].Temperature)
}

func TestFormatAlerts(t *testing.T) {
	t.Run("no alerts", func(t *testing.T) {
		text := FormatAlerts("CA", &AlertsResponse{})
		assert.Equal(t, "No active weather alerts for CA", text)
	})

	t.Run("nil response", func(t *testing.T) {
		assert.Equal(t, TextAlertsUnavailable, FormatAlerts("CA", nil))
	})

	t.Run("with alerts", func(t *testing.T) {
		text := FormatAlerts("TX", &AlertsResponse{Features: []AlertFeature{
			{Properties: AlertProperties{Event: "Flood Watch", AreaDesc: "Harris County", Severity: "Moderate"}},
		}})
		assert.Contains(t, text, "Active alerts for TX")
		assert.Contains(t, text, "Event: Flood Watch")
		assert.Contains(t, text, "Area: Harris County")
	})
}

func TestFormatForecast(t *testing.T) {
	t.Run("empty periods", func(t *testing.T) {
		assert.Equal(t, TextForecastUnavailable, FormatForecast(&ForecastResponse{}))
	})

	t.Run("caps at five periods", func(t *testing.T) {
		forecast := &ForecastResponse{}
		for i := 0; i < 8; i++ {
			forecast.Properties.Periods = append(forecast.Properties.Periods, ForecastPeriod{Name: "Period"})
		}
		text := FormatForecast(forecast)
		assert.Equal(t, 4, strings.Count(text, "---"))
	})
}
