// Package toolset builds the capability set a server instance exposes. The
// set is an explicit function of the transport kind: the SSE and stdio
// servers expose the US weather tools, the Streamable HTTP server exposes
// the Canadian tools plus a bundled city dataset and an assistant prompt.
package toolset

import (
	"context"
	"strings"

	"github.com/traego/weather-bridge/pkg/resources"
	"github.com/traego/weather-bridge/pkg/session/store"
	"github.com/traego/weather-bridge/pkg/weather"
)

// USProvider is the US National Weather Service adapter surface the tools
// call. Satisfied by *weather.NWSClient.
type USProvider interface {
	GetAlerts(ctx context.Context, state string) (*weather.AlertsResponse, error)
	GetGridPoint(ctx context.Context, latitude, longitude float64) (*weather.GridPointResponse, error)
	GetForecast(ctx context.Context, forecastURL string) (*weather.ForecastResponse, error)
}

// CanadaProvider is the Canadian provider adapter surface. Satisfied by
// *weather.CanadaClient.
type CanadaProvider interface {
	GetCurrentConditions(ctx context.Context, location, province string) (*weather.CurrentConditions, error)
	GetForecast(ctx context.Context, location, province string, days int) (*weather.CanadaForecast, error)
}

// Deps carries the provider adapters the tool handlers close over.
type Deps struct {
	US     USProvider
	Canada CanadaProvider
}

// ForTransport returns the feature registry for the given transport kind.
func ForTransport(kind store.TransportKind, deps Deps) *resources.FeatureRegistry {
	switch kind {
	case store.TransportStreamableHTTP:
		return canadaSet(deps.Canada)
	default:
		return usSet(deps.US)
	}
}

func usSet(provider USProvider) *resources.FeatureRegistry {
	tools := resources.NewStaticToolRegistry()

	getAlerts := resources.NewTool("get-alerts").
		WithDescription("Get active weather alerts for a US state").
		WithString("state").Required().
		Description("Two-letter US state code (e.g. CA, NY)").Add().
		Build()
	_ = tools.RegisterTool(getAlerts, func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		state := strings.ToUpper(stringParam(params, "state"))
		alerts, err := provider.GetAlerts(ctx, state)
		if err != nil {
			return weather.TextAlertsUnavailable, nil
		}
		return weather.FormatAlerts(state, alerts), nil
	})

	getForecast := resources.NewTool("get-forecast").
		WithDescription("Get the weather forecast for a US location").
		WithNumber("latitude").Required().
		Description("Latitude of the location").Range(-90, 90).Add().
		WithNumber("longitude").Required().
		Description("Longitude of the location").Range(-180, 180).Add().
		Build()
	_ = tools.RegisterTool(getForecast, func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		latitude := floatParam(params, "latitude")
		longitude := floatParam(params, "longitude")

		grid, err := provider.GetGridPoint(ctx, latitude, longitude)
		if err != nil || grid == nil {
			return weather.TextNoGridPoint, nil
		}
		forecastURL := grid.Properties.Forecast
		if forecastURL == "" {
			return weather.TextNoForecastURL, nil
		}

		forecast, err := provider.GetForecast(ctx, forecastURL)
		if err != nil {
			return weather.TextForecastUnavailable, nil
		}
		return weather.FormatForecast(forecast), nil
	})

	return &resources.FeatureRegistry{
		ToolRegistry:     tools,
		PromptRegistry:   resources.NewStaticPromptRegistry(),
		ResourceRegistry: resources.NewStaticResourceRegistry(),
	}
}

func canadaSet(provider CanadaProvider) *resources.FeatureRegistry {
	tools := resources.NewStaticToolRegistry()

	getCurrent := resources.NewTool("get-current-conditions").
		WithDescription("Get current weather conditions for a Canadian city").
		WithString("location").Required().
		Description("City name (e.g. Toronto, Montreal)").Add().
		WithString("province").
		Description("Two-letter province code (e.g. ON, QC)").Add().
		Build()
	_ = tools.RegisterTool(getCurrent, func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		current, err := provider.GetCurrentConditions(ctx, stringParam(params, "location"), stringParam(params, "province"))
		if err != nil {
			return weather.TextCurrentUnavailable, nil
		}
		return weather.FormatCurrentConditions(current), nil
	})

	getForecast := resources.NewTool("get-canada-forecast").
		WithDescription("Get a 1-3 day weather forecast for a Canadian city").
		WithString("location").Required().
		Description("City name (e.g. Toronto, Montreal)").Add().
		WithString("province").
		Description("Two-letter province code (e.g. ON, QC)").Add().
		WithInteger("days").
		Description("Number of forecast days").Default(1).Range(1, 3).Add().
		Build()
	_ = tools.RegisterTool(getForecast, func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		days := int(floatParam(params, "days"))
		if days == 0 {
			days = 1
		}
		forecast, err := provider.GetForecast(ctx, stringParam(params, "location"), stringParam(params, "province"), days)
		if err != nil {
			return weather.TextForecastUnavailable, nil
		}
		return weather.FormatCanadaForecast(forecast), nil
	})

	res := resources.NewStaticResourceRegistry()
	_ = res.RegisterStaticText(resources.Resource{
		URI:         CitiesResourceURI,
		Name:        "canada-cities",
		Title:       "Major Canadian Cities",
		Description: "Major Canadian cities with their provinces, for use with the forecast tools",
		MimeType:    "application/json",
	}, canadaCitiesJSON)

	prompts := resources.NewStaticPromptRegistry()
	_ = prompts.RegisterPrompt(resources.Prompt{
		Name:        "weather-assistant",
		Description: "System prompt framing the assistant as a Canadian weather helper",
		Messages: []resources.PromptMessage{
			{
				Role: "assistant",
				Content: "You are a helpful weather assistant for Canadian cities. " +
					"Use the available tools to answer questions about current conditions " +
					"and forecasts. When the user names a city without a province, consult " +
					"the canada-cities resource to resolve it. Keep answers short and " +
					"mention temperatures in Celsius.",
			},
		},
	})

	return &resources.FeatureRegistry{
		ToolRegistry:     tools,
		PromptRegistry:   prompts,
		ResourceRegistry: res,
	}
}

func stringParam(params map[string]interface{}, name string) string {
	if v, ok := params[name].(string); ok {
		return v
	}
	return ""
}

func floatParam(params map[string]interface{}, name string) float64 {
	switch v := params[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
