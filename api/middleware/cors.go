package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS applies the storefront's allowed origin policy. The deployed frontend
// origin comes from configuration; localhost stays allowed for development.
func CORS(originURL string) func(http.Handler) http.Handler {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
	if originURL != "" {
		origins = append(origins, originURL)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
