package middleware

import (
	"net/http"
	"strings"

	"feedback-api/internal/logger"

	"github.com/go-chi/cors"
)

var (
	AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
)

// CORS applies the origin allow-list. Preflight requests never reach the
// router: accepted ones are answered with the full method and header lists.
func CORS(origins []string, debug bool) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:     origins,
		AllowedMethods:     AllowedMethods,
		AllowedHeaders:     AllowedHeaders,
		ExposedHeaders:     []string{"Link", "X-Request-ID"},
		AllowCredentials:   false,
		MaxAge:             300,
		OptionsPassthrough: true,
		Debug:              debug,
	})
	if debug {
		c.Log = logger.Get()
	}

	return func(next http.Handler) http.Handler {
		return c.Handler(preflight(next))
	}
}

func preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := w.Header()
		if h.Get("Access-Control-Allow-Origin") != "" {
			h.Set("Access-Control-Allow-Methods", strings.Join(AllowedMethods, ", "))
			h.Set("Access-Control-Allow-Headers", strings.Join(AllowedHeaders, ", "))
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
