package handlers

import (
	"context"
	"net/http"
	"time"

	"feedback-api/internal/logger"
)

const serviceName = "feedback-api"

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ServiceHandler struct {
	db     Pinger
	prefix string
}

// NewServiceHandler builds the root and health handlers. prefix is the mount
// point of the API routes and only affects the endpoint listing.
func NewServiceHandler(db Pinger, prefix string) *ServiceHandler {
	return &ServiceHandler{db: db, prefix: prefix}
}

// --- GET / ---

func (h *ServiceHandler) Root(w http.ResponseWriter, r *http.Request) {
	p := h.prefix
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Welcome to the Feedback API",
		"service": serviceName,
		"endpoints": map[string]interface{}{
			"health": p + "/health",
			"feedback": map[string]string{
				"getAll":       "GET " + p + "/feedback",
				"getOne":       "GET " + p + "/feedback/:id",
				"create":       "POST " + p + "/feedback",
				"update":       "PUT " + p + "/feedback/:id",
				"delete":       "DELETE " + p + "/feedback/:id",
				"getByProject": "GET " + p + "/feedback/project/:projectType",
				"getStats":     "GET " + p + "/feedback/stats/summary",
			},
			"metrics": "/metrics",
		},
	})
}

// --- GET /health ---

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.Get().Warn().Err(err).Msg("health check: database unreachable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"status":  "ERROR",
			"service": serviceName,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "OK",
		"service": serviceName,
		"message": "Feedback API is running",
	})
}
