package middleware

import (
	"github.com/go-chi/cors"
)

// CORSHandler builds the CORS policy for the API. The browser audio element
// fetches /transcriptions/{id}/audio cross-origin and seeks with Range
// requests, so Range is allowed in and the range response headers are exposed.
func CORSHandler(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// When wildcard is used, disable AllowCredentials to prevent CSRF
	allowCreds := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCreds = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Range"},
		ExposedHeaders:   []string{"Content-Length", "Content-Range", "Accept-Ranges"},
		AllowCredentials: allowCreds,
		MaxAge:           300,
	}
}
