package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names. Required variables that are missing at
// startup are a fatal configuration error, not a deferred one.
const (
	EnvNWSAPIBase     = "NWS_API_BASE"
	EnvNWSUserAgent   = "NWS_USER_AGENT"
	EnvCanadaAPIBase  = "CANADA_API_BASE"
	EnvCanadaAPIKey   = "CANADA_API_KEY"
	EnvOllamaHost     = "OLLAMA_HOST"
	EnvLLMModel       = "LLM_MODEL"
	EnvAPIBearerToken = "API_BEARER_TOKEN"
	EnvMCPServers     = "MCP_SERVERS"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
)

const (
	defaultNWSAPIBase    = "https://api.weather.gov"
	defaultNWSUserAgent  = "weather-bridge/1.0 (weather-bridge@traego.dev)"
	defaultCanadaAPIBase = "https://api.weatherapi.com/v1"
	defaultOllamaHost    = "http://localhost:11434"
)

// WeatherEnv holds the provider endpoints and credentials.
type WeatherEnv struct {
	NWSAPIBase    string
	NWSUserAgent  string
	CanadaAPIBase string
	CanadaAPIKey  string
}

// LLMEnv holds the completion endpoint settings.
type LLMEnv struct {
	OllamaHost string
	Model      string
}

// LoadDotenv loads a .env file when present. A missing file is not an
// error; explicit environment always wins.
func LoadDotenv() {
	_ = godotenv.Load()
}

// LoadWeatherEnv reads the weather provider settings. requireCanadaKey
// controls whether the Canada API key is mandatory (it is for servers
// exposing the Canada tools, not for the US-only variants).
func LoadWeatherEnv(requireCanadaKey bool) (WeatherEnv, error) {
	env := WeatherEnv{
		NWSAPIBase:    getenvDefault(EnvNWSAPIBase, defaultNWSAPIBase),
		NWSUserAgent:  getenvDefault(EnvNWSUserAgent, defaultNWSUserAgent),
		CanadaAPIBase: getenvDefault(EnvCanadaAPIBase, defaultCanadaAPIBase),
		CanadaAPIKey:  os.Getenv(EnvCanadaAPIKey),
	}

	if requireCanadaKey && env.CanadaAPIKey == "" {
		return WeatherEnv{}, fmt.Errorf("required environment variable %s is not set", EnvCanadaAPIKey)
	}
	return env, nil
}

// LoadLLMEnv reads the LLM settings. The model name is required.
func LoadLLMEnv() (LLMEnv, error) {
	env := LLMEnv{
		OllamaHost: getenvDefault(EnvOllamaHost, defaultOllamaHost),
		Model:      os.Getenv(EnvLLMModel),
	}
	if env.Model == "" {
		return LLMEnv{}, fmt.Errorf("required environment variable %s is not set", EnvLLMModel)
	}
	return env, nil
}

// LoadBearerToken reads the REST adapter's bearer token. Required.
func LoadBearerToken() (string, error) {
	token := os.Getenv(EnvAPIBearerToken)
	if token == "" {
		return "", fmt.Errorf("required environment variable %s is not set", EnvAPIBearerToken)
	}
	return token, nil
}

// LoadMCPServers reads the comma-separated list of server URLs for the
// unified client.
func LoadMCPServers() []string {
	raw := os.Getenv(EnvMCPServers)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

// LogLevel returns the configured log level name, defaulting to info.
func LogLevel() string {
	return getenvDefault(EnvLogLevel, "info")
}

// LogFormat returns the configured log format, defaulting to json.
func LogFormat() string {
	return getenvDefault(EnvLogFormat, "json")
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
