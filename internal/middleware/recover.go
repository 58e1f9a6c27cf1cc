package middleware

import (
	"net/http"
	"runtime/debug"

	"feedback-api/internal/logger"

	"github.com/go-chi/chi/v5/middleware"
)

const panicResponse = `{"success":false,"error":"Something went wrong!"}`

// Recoverer turns a panic into a generic JSON 500 and logs the stack instead
// of sending it to the client.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Get().Error().
				Interface("panic", rec).
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("stack", string(debug.Stack())).
				Msg("recovered from panic")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(panicResponse))
		}()

		next.ServeHTTP(w, r)
	})
}
