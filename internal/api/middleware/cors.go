package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps h so browser frontends on origins can call the API.
// An origin list containing "*" allows any origin.
func CORS(origins []string, h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         300,
	}).Handler(h)
}
