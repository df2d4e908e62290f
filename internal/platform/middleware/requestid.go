// Package middleware holds the net/http middleware installed on the root router.
package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	maxRequestIDLength = 128

	// vercelIDHeader is the edge request ID Vercel attaches to every invocation.
	vercelIDHeader = "X-Vercel-Id"
)

// isValidRequestID allows printable ASCII only (0x20-0x7E), so IDs cannot inject log lines.
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		c := id[i]
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

// RequestID returns middleware that assigns each request an identifier.
// A valid X-Request-Id is reused, then a valid X-Vercel-Id, otherwise a UUIDv4 is generated.
// The chosen ID is stored under chi's RequestIDKey and echoed in the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(middleware.RequestIDHeader)
			if !isValidRequestID(reqID) {
				reqID = r.Header.Get(vercelIDHeader)
			}
			if !isValidRequestID(reqID) {
				reqID = uuid.NewString()
			}

			r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, reqID))
			w.Header().Set(middleware.RequestIDHeader, reqID)
			next.ServeHTTP(w, r)
		})
	}
}
