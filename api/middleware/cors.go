package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
}

// CORS returns middleware that applies the API's allowed origin policy. The
// configured frontend origin is appended to the defaults when set.
func CORS(frontendOrigin string) func(http.Handler) http.Handler {
	origins := defaultCORSOrigins
	if o := strings.TrimSpace(frontendOrigin); o != "" {
		origins = append(append([]string{}, origins...), o)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CS-Token", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-CS-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
