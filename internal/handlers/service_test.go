package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestRoot_ListsEndpointsUnderPrefix(t *testing.T) {
	h := NewServiceHandler(pingFunc(func(context.Context) error { return nil }), "/api")

	w, body := do(t, http.HandlerFunc(h.Root), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to the Feedback API", body["message"])

	endpoints := body["endpoints"].(map[string]any)
	assert.Equal(t, "/api/health", endpoints["health"])
	assert.Equal(t, "/metrics", endpoints["metrics"])
	feedback := endpoints["feedback"].(map[string]any)
	assert.Equal(t, "GET /api/feedback/stats/summary", feedback["getStats"])
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := NewServiceHandler(pingFunc(func(context.Context) error { return nil }), "")
		w, body := do(t, http.HandlerFunc(h.Health), http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, "Feedback API is running", body["message"])
	})

	t.Run("database down", func(t *testing.T) {
		h := NewServiceHandler(pingFunc(func(context.Context) error { return errors.New("sql: database is closed") }), "")
		w, body := do(t, http.HandlerFunc(h.Health), http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "sql: database is closed", body["error"])
	})
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	w, body := do(t, http.HandlerFunc(NotFound), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", body["error"])

	w, body = do(t, http.HandlerFunc(MethodNotAllowed), http.MethodPatch, "/feedback", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, false, body["success"])
}
