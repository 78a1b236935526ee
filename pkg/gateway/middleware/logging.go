package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jguan/ollama-model-manager/pkg/infra/logger"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)

			logAttrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Duration("duration", duration),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if rid := logger.GetRequestID(r.Context()); rid != "" {
				logAttrs = append(logAttrs, slog.String("request_id", rid))
			}

			logLevel := slog.LevelInfo
			if rw.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}
			if rw.statusCode >= 500 {
				logLevel = slog.LevelError
			}

			if log != nil {
				log.LogAttrs(r.Context(), logLevel, "HTTP request", logAttrs...)
			}
		})
	}
}
