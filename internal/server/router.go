package server

import (
	"net/http"

	"feedback-api/internal/handlers"
	"feedback-api/internal/metrics"
	customMiddleware "feedback-api/internal/middleware"
	"feedback-api/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Store is what the router needs from the persistence layer.
type Store interface {
	handlers.FeedbackStore
	handlers.Pinger
}

// Deps are the collaborators the router is assembled from.
type Deps struct {
	Repo     Store
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Prefix   string
	Origins  []string
	Debug    bool
}

// NewRouter builds the HTTP surface shared by the server process and the edge
// function. API routes live under d.Prefix; "/" and "/metrics" stay at the root.
func NewRouter(d Deps) http.Handler {
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	feedbackHandler := handlers.NewFeedbackHandler(d.Repo, d.Notifier, d.Metrics)
	serviceHandler := handlers.NewServiceHandler(d.Repo, d.Prefix)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestLogger)
	r.Use(customMiddleware.Recoverer)
	r.Use(customMiddleware.CORS(d.Origins, d.Debug))
	r.Use(customMiddleware.Metrics(d.Metrics))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/", serviceHandler.Root)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	api := func(r chi.Router) {
		r.Get("/health", serviceHandler.Health)

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", feedbackHandler.ListFeedback)
			r.Post("/", feedbackHandler.SubmitFeedback)
			r.Get("/stats/summary", feedbackHandler.GetStats)
			r.Get("/project/{projectType}", feedbackHandler.ListByProject)

			r.Get("/{id:[0-9]+}", feedbackHandler.GetFeedback)
			r.Put("/{id:[0-9]+}", feedbackHandler.UpdateFeedback)
			r.Delete("/{id:[0-9]+}", feedbackHandler.DeleteFeedback)
		})
	}

	if d.Prefix == "" {
		api(r)
	} else {
		r.Route(d.Prefix, api)
	}

	return r
}
