package middleware

import (
	"context"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// LoggingMiddleware logs HTTP requests.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware.
func NewLoggingMiddleware(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Wrap wraps an http.Handler with logging.
func (m *LoggingMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		// identity is attached further down the chain, so capture it on the way out
		var caller string
		next.ServeHTTP(ww, r.WithContext(withCallerSink(r.Context(), &caller)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		event := m.logger.Info()
		switch {
		case status >= 500:
			event = m.logger.Error()
		case status >= 400:
			event = m.logger.Warn()
		}

		event.
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Str("caller", caller).
			Msg("request completed")
	})
}

type callerSinkKey struct{}

func withCallerSink(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, callerSinkKey{}, sink)
}

// recordCaller hands the resolved identity back to the logging middleware.
func recordCaller(ctx context.Context, caller string) {
	if sink, ok := ctx.Value(callerSinkKey{}).(*string); ok {
		*sink = caller
	}
}
