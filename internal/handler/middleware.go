package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/channel-proxy/internal/metrics"
)

const RequestIDHeader = "X-Request-ID"

type loggerKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument tags the request with an id, logs it and reports it to the
// collector under route. collector may be nil.
func Instrument(logger *slog.Logger, collector *metrics.Collector, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = newRequestID()
		}
		w.Header().Set(RequestIDHeader, requestID)

		log := logger.With(slog.String("request_id", requestID))
		log.Info("Received request",
			slog.String("from", extractClientIP(r)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.String("user_agent", r.UserAgent()))

		collector.Emit(metrics.MetricEvent{
			Type: metrics.EventRequestReceived,
			Key:  route,
		})

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), loggerKey{}, log)))
		duration := time.Since(start)

		log.Info("Request completed",
			slog.String("route", route),
			slog.Int("status", wrapped.statusCode),
			slog.Duration("duration", duration))

		collector.Emit(metrics.MetricEvent{
			Type:       metrics.EventResponseCompleted,
			Key:        route,
			Duration:   duration,
			StatusCode: wrapped.statusCode,
		})
	})
}

// loggerFrom returns the request-scoped logger set by Instrument, or fallback.
func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return log
	}
	return fallback
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
