package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/grana-app/backend/internal/logger"
)

// RequestIDContext propagates the chi request ID into the logger context
// so service-layer logs can be correlated with the request.
func RequestIDContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			r = r.WithContext(logger.WithRequestID(r.Context(), reqID))
		}
		next.ServeHTTP(w, r)
	})
}
