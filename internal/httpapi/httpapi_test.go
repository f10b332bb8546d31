package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traego/weather-bridge/pkg/protocol"
)

type fakeCaller struct {
	gotTool string
	gotArgs map[string]interface{}
	text    string
	err     error
}

func (f *fakeCaller) CallTool(ctx context.Context, toolName string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	f.gotTool = toolName
	f.gotArgs = args
	if f.err != nil {
		return nil, f.err
	}
	return &protocol.CallToolResult{Content: []protocol.Content{protocol.NewTextContent(f.text)}}, nil
}

const testToken = "secret-token"

func doRequest(t *testing.T, handler http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestBearerAuth(t *testing.T) {
	handler := New(&fakeCaller{text: "ok"}, &fakeCaller{}, testToken).Router()

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/us-weather/alerts?state=TX", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, "missing bearer token")
	})

	t.Run("wrong token", func(t *testing.T) {
		rec := doRequest(t, handler, "/api/us-weather/alerts?state=TX", "wrong")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("health endpoint is unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAlertsEndpoint(t *testing.T) {
	caller := &fakeCaller{text: "No active weather alerts for TX"}
	canada := &fakeCaller{}
	handler := New(caller, canada, testToken).Router()

	rec := doRequest(t, handler, "/api/us-weather/alerts?state=TX", testToken)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "No active weather alerts for TX", data["report"])

	assert.Equal(t, "get-alerts", caller.gotTool)
	assert.Equal(t, map[string]interface{}{"state": "TX"}, caller.gotArgs)
	assert.Empty(t, canada.gotTool, "US endpoints must not touch the Canada connection")
}

func TestAlertsValidation(t *testing.T) {
	handler := New(&fakeCaller{}, &fakeCaller{}, testToken).Router()

	for _, path := range []string{
		"/api/us-weather/alerts",
		"/api/us-weather/alerts?state=Texas",
	} {
		rec := doRequest(t, handler, path, testToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		env := decodeEnvelope(t, rec)
		assert.Contains(t, env.Error, "two-letter")
	}
}

func TestForecastEndpoint(t *testing.T) {
	caller := &fakeCaller{text: "Tonight: clear"}
	handler := New(caller, &fakeCaller{}, testToken).Router()

	rec := doRequest(t, handler, "/api/us-weather/forecast?lat=30.27&lon=-97.74", testToken)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "get-forecast", caller.gotTool)
	assert.Equal(t, 30.27, caller.gotArgs["latitude"])
	assert.Equal(t, -97.74, caller.gotArgs["longitude"])
}

func TestForecastValidation(t *testing.T) {
	handler := New(&fakeCaller{}, &fakeCaller{}, testToken).Router()

	tests := []string{
		"/api/us-weather/forecast",
		"/api/us-weather/forecast?lat=abc&lon=0",
		"/api/us-weather/forecast?lat=91&lon=0",
		"/api/us-weather/forecast?lat=0&lon=181",
	}
	for _, path := range tests {
		rec := doRequest(t, handler, path, testToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestCanadaCurrentEndpoint(t *testing.T) {
	caller := &fakeCaller{text: "Toronto: Sunny, 22C"}
	us := &fakeCaller{}
	handler := New(us, caller, testToken).Router()

	rec := doRequest(t, handler, "/api/canada-weather/current?location=Toronto&province=ON", testToken)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "get-current-conditions", caller.gotTool)
	assert.Equal(t, "Toronto", caller.gotArgs["location"])
	assert.Equal(t, "ON", caller.gotArgs["province"])
	assert.Empty(t, us.gotTool, "Canada endpoints must not touch the US connection")

	rec = doRequest(t, handler, "/api/canada-weather/current", testToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCanadaForecastEndpoint(t *testing.T) {
	caller := &fakeCaller{text: "3 day forecast"}
	handler := New(&fakeCaller{}, caller, testToken).Router()

	rec := doRequest(t, handler, "/api/canada-weather/forecast?location=Montreal&days=3", testToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "get-canada-forecast", caller.gotTool)
	assert.Equal(t, 3, caller.gotArgs["days"])

	t.Run("days defaults to 1", func(t *testing.T) {
		rec := doRequest(t, handler, "/api/canada-weather/forecast?location=Montreal", testToken)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, caller.gotArgs["days"])
	})

	t.Run("days out of range", func(t *testing.T) {
		rec := doRequest(t, handler, "/api/canada-weather/forecast?location=Montreal&days=7", testToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToolFailureBecomesBadGateway(t *testing.T) {
	handler := New(&fakeCaller{err: errors.New("server gone")}, &fakeCaller{}, testToken).Router()

	rec := doRequest(t, handler, "/api/us-weather/alerts?state=TX", testToken)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "failed to retrieve weather data")
}
