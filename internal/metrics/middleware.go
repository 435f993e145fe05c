package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"BrainrotKeeper/internal/inventory"

	"github.com/go-chi/chi/v5"
)

// responseWriter запоминает код ответа.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware собирает HTTP-метрики. Путь берётся из шаблона маршрута chi,
// чтобы id предметов не раздували число серий.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, inventory.ErrNotFound):
		return "not_found"
	case errors.Is(err, inventory.ErrDuplicateName):
		return "duplicate"
	case errors.Is(err, inventory.ErrValidation):
		return "validation"
	case errors.Is(err, inventory.ErrVersionConflict):
		return "conflict"
	case errors.Is(err, inventory.ErrStorage):
		return "storage"
	}
	return "error"
}
