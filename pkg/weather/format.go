package weather

import (
	"fmt"
	"strings"
)

// User-facing failure texts. Every provider failure becomes one of these
// plain sentences, never a raw error or stack trace.
const (
	TextNoGridPoint = "Failed to retrieve grid point data for this location. " +
		"This location may not be supported by the NWS API (only US locations are supported)."
	TextNoForecastURL       = "Failed to get forecast URL from grid point data"
	TextForecastUnavailable = "Failed to retrieve forecast data. Please try again later."
	TextAlertsUnavailable   = "Failed to retrieve alerts data. Please try again later."
	TextCurrentUnavailable  = "Failed to retrieve current conditions. Please try again later."
)

// FormatAlerts renders active alerts as text blocks, or the explicit
// no-alerts sentence when the list is empty.
func FormatAlerts(state string, alerts *AlertsResponse) string {
	if alerts == nil {
		return TextAlertsUnavailable
	}
	if len(alerts.Features) == 0 {
		return fmt.Sprintf("No active weather alerts for %s", state)
	}

	blocks := make([]string, 0, len(alerts.Features))
	for _, feature := range alerts.Features {
		p := feature.Properties
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("Event: %s", orUnknown(p.Event)),
			fmt.Sprintf("Area: %s", orUnknown(p.AreaDesc)),
			fmt.Sprintf("Severity: %s", orUnknown(p.Severity)),
			fmt.Sprintf("Description: %s", firstNonEmpty(p.Description, p.Headline, "No description available")),
			fmt.Sprintf("Instructions: %s", firstNonEmpty(p.Instruction, "No specific instructions provided")),
		}, "\n"))
	}

	return fmt.Sprintf("Active alerts for %s:\n\n%s", state, strings.Join(blocks, "\n---\n"))
}

// FormatForecast renders the first few forecast periods as text.
func FormatForecast(forecast *ForecastResponse) string {
	if forecast == nil || len(forecast.Properties.Periods) == 0 {
		return TextForecastUnavailable
	}

	periods := forecast.Properties.Periods
	if len(periods) > 5 {
		periods = periods[:5]
	}

	blocks := make([]string, 0, len(periods))
	for _, period := range periods {
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("%s:", period.Name),
			fmt.Sprintf("Temperature: %d°%s", period.Temperature, period.TemperatureUnit),
			fmt.Sprintf("Wind: %s %s", period.WindSpeed, period.WindDirection),
			period.DetailedForecast,
		}, "\n"))
	}

	return strings.Join(blocks, "\n---\n")
}

// FormatCurrentConditions renders the Canada current-weather payload.
func FormatCurrentConditions(current *CurrentConditions) string {
	if current == nil {
		return TextCurrentUnavailable
	}

	return strings.Join([]string{
		fmt.Sprintf("Current conditions for %s, %s:", current.Location.Name, current.Location.Region),
		fmt.Sprintf("Condition: %s", current.Current.Condition.Text),
		fmt.Sprintf("Temperature: %.1f°C (feels like %.1f°C)", current.Current.TempC, current.Current.FeelsLikeC),
		fmt.Sprintf("Wind: %.0f km/h %s", current.Current.WindKph, current.Current.WindDir),
		fmt.Sprintf("Humidity: %d%%", current.Current.Humidity),
	}, "\n")
}

// FormatCanadaForecast renders the Canada multi-day forecast payload.
func FormatCanadaForecast(forecast *CanadaForecast) string {
	if forecast == nil || len(forecast.Forecast.Days) == 0 {
		return TextForecastUnavailable
	}

	blocks := make([]string, 0, len(forecast.Forecast.Days))
	for _, day := range forecast.Forecast.Days {
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("%s:", day.Date),
			fmt.Sprintf("Condition: %s", day.Day.Condition.Text),
			fmt.Sprintf("High: %.1f°C, Low: %.1f°C", day.Day.MaxTempC, day.Day.MinTempC),
			fmt.Sprintf("Chance of rain: %d%%", day.Day.DailyChanceOfRain),
		}, "\n"))
	}

	return fmt.Sprintf("Forecast for %s, %s:\n\n%s",
		forecast.Location.Name, forecast.Location.Region, strings.Join(blocks, "\n---\n"))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
