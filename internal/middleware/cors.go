package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the SPA origins to call the API with credentials. Preflight
// requests are answered here and never reach the routes.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Archive-URL"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
