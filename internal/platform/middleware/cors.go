package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/atlasforge/greeter/internal/platform/protection"
)

// corsMaxAge is how long browsers may cache a preflight result, in seconds.
const corsMaxAge = 300

// CORS returns the blanket cross-origin policy: any origin, any requested header,
// every method the API could serve, and credentials allowed.
//
// It must sit on the root router so OPTIONS preflights are answered before routing.
// Stacking a second CORS middleware would duplicate Access-Control-* headers.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		ExposedHeaders: []string{
			"Link",
			"Location",
			"X-Request-Id",
			protection.HeaderName,
		},
		MaxAge: corsMaxAge,
	})
}
