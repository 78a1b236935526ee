package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jguan/ollama-model-manager/pkg/infra/logger"
)

const HeaderRequestID = "X-Request-ID"

// RequestID assigns each request a correlation ID, honoring one the
// client already supplied, and echoes it in the response headers.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.New().String()
			}

			ctx := logger.SetRequestID(r.Context(), id)
			w.Header().Set(HeaderRequestID, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
