// Package handler exposes the local debug listener that runs alongside an
// interactive session: Prometheus metrics, a health probe, and a compact
// workflow snapshot.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewDebugRouter creates the debug HTTP router.
func NewDebugRouter(metrics *observability.Metrics, sess *session.Session, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Endpoints ---
	r.Get("/healthz", healthzHandler(sess))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/debug/workflow", workflowHandler(metrics, logger))

	return r
}

func healthzHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"logged_in": sess.LoggedIn(time.Now()),
		})
	}
}

func workflowHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := metrics.GetSnapshot()
		logger.Debug("debug: workflow snapshot served")
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
