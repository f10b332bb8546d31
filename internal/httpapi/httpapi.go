// Package httpapi exposes the weather tools of an MCP server as a small
// REST API, translating each endpoint into a tool call.
package httpapi

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/traego/weather-bridge/pkg/protocol"
)

// ToolCaller is the slice of the MCP client interface the adapter needs.
type ToolCaller interface {
	CallTool(ctx context.Context, toolName string, args map[string]interface{}) (*protocol.CallToolResult, error)
}

// Handler routes REST requests to MCP tool calls. The US and Canada tools
// live in different capability sets, so the adapter holds one connection per
// set and routes each endpoint to the connection that carries its tool.
type Handler struct {
	us     ToolCaller
	canada ToolCaller
	token  string
}

// New creates a handler backed by the given MCP clients. us must carry the
// US alert/forecast tools and canada the Canadian ones. token is the bearer
// token every request must present.
func New(us, canada ToolCaller, token string) *Handler {
	return &Handler{us: us, canada: canada, token: token}
}

// Router builds the chi router for the adapter.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.requireBearer)
		r.Get("/us-weather/alerts", h.handleAlerts)
		r.Get("/us-weather/forecast", h.handleForecast)
		r.Get("/canada-weather/current", h.handleCanadaCurrent)
		r.Get("/canada-weather/forecast", h.handleCanadaForecast)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}

// requireBearer rejects requests without the configured bearer token. A
// missing header is 401, a wrong token 403.
func (h *Handler) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		presented := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(h.token)) != 1 {
			writeError(w, http.StatusForbidden, "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	state := strings.TrimSpace(r.URL.Query().Get("state"))
	if len(state) != 2 {
		writeError(w, http.StatusBadRequest, "state must be a two-letter US state code")
		return
	}

	h.callTool(w, r, h.us, "get-alerts", map[string]interface{}{"state": state})
}

func (h *Handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "lat must be a number between -90 and 90")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "lon must be a number between -180 and 180")
		return
	}

	h.callTool(w, r, h.us, "get-forecast", map[string]interface{}{
		"latitude":  lat,
		"longitude": lon,
	})
}

func (h *Handler) handleCanadaCurrent(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	args := map[string]interface{}{"location": location}
	if province := strings.TrimSpace(r.URL.Query().Get("province")); province != "" {
		args["province"] = province
	}
	h.callTool(w, r, h.canada, "get-current-conditions", args)
}

func (h *Handler) handleCanadaForecast(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	days := 1
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 3 {
			writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 3")
			return
		}
		days = parsed
	}

	args := map[string]interface{}{"location": location, "days": days}
	if province := strings.TrimSpace(r.URL.Query().Get("province")); province != "" {
		args["province"] = province
	}
	h.callTool(w, r, h.canada, "get-canada-forecast", args)
}

// callTool dispatches the tool call and writes the flattened text result.
func (h *Handler) callTool(w http.ResponseWriter, r *http.Request, caller ToolCaller, toolName string, args map[string]interface{}) {
	result, err := caller.CallTool(r.Context(), toolName, args)
	if err != nil {
		slog.ErrorContext(r.Context(), "tool call failed",
			"tool", toolName, "error", err)
		writeError(w, http.StatusBadGateway, "failed to retrieve weather data, please try again")
		return
	}

	writeData(w, map[string]interface{}{"report": result.JoinText()})
}
