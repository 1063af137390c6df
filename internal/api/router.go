package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/honeynil/player-service/internal/handler"
	"github.com/honeynil/player-service/internal/infrastructure/auth"
	"github.com/honeynil/player-service/internal/infrastructure/observability"
	service "github.com/honeynil/player-service/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires the player API. With an empty jwtSecret the write routes
// are open.
func SetupRouter(svc service.PlayerService, jwtSecret string) *mux.Router {
	observability.RegisterMetrics()

	r := mux.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(metricsMiddleware)

	var protect func(http.Handler) http.Handler
	if jwtSecret != "" {
		protect = auth.AuthMiddleware(jwtSecret)
	}

	players := r.PathPrefix("/rest/players").Subrouter()
	handler.NewHandler(svc).RegisterRoutes(players, protect)

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// metricsMiddleware records request counters and latency by route template
// and writes the access log line.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		if recorder.status == 0 {
			recorder.status = http.StatusOK
		}

		duration := time.Since(start)
		status := fmt.Sprintf("%d", recorder.status)
		observability.RequestCounter.WithLabelValues(r.Method, route, status).Inc()
		observability.RequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

		slog.Info("http request",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", duration)
	})
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "method", r.Method, "path", r.URL.Path, "panic", rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder для захвата статуса ответа
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}
