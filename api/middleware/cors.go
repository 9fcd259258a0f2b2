package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173",                 // vite dev server
	"http://localhost:3000",                 // local dashboard
	"https://nonkabob-guliston.vercel.app",  // mini app frontend
	"https://nonkabob-admin.vercel.app",     // admin dashboard
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Telegram-Init-Data", "X-Cart-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Cart-Session", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
