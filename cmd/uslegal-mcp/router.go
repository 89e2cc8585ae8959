package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/uslegal/provider"
	"github.com/jonwraymond/uslegal/registry"
)

// RouterDeps are the collaborators served over HTTP.
type RouterDeps struct {
	Registry  *registry.Registry
	Providers provider.Store
	Gatherer  prometheus.Gatherer
	Logger    *slog.Logger
}

// NewRouter exposes the tool registry over every HTTP transport plus health
// and metrics endpoints.
func NewRouter(d RouterDeps) http.Handler {
	server := d.Registry.MCPServer()
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Logger))

	r.Get("/health", healthHandler(d))
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	r.Post("/rpc", registry.ServeHTTP(d.Registry).ServeHTTP)
	r.Post("/sse", registry.ServeSSE(d.Registry).ServeHTTP)
	r.Handle("/mcp", streamable)
	return r
}

type sourceHealth struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"credential"`
}

type healthResponse struct {
	Status  string         `json:"status"`
	Tools   int            `json:"tools"`
	Sources []sourceHealth `json:"sources"`
}

func healthHandler(d RouterDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Tools: d.Registry.Stats().TotalTools, Sources: []sourceHealth{}}
		code := http.StatusOK
		if err := d.Registry.HealthCheck(r.Context()); err != nil {
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
		}

		if list, err := d.Providers.ListProviders(); err == nil {
			for _, p := range list {
				resp.Sources = append(resp.Sources, sourceHealth{ID: p.ID, Name: p.Name, Status: p.Status()})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
