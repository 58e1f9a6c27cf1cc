package server

import (
	"context"
	"fmt"
	"net/http"

	"feedback-api/internal/config"
	"feedback-api/internal/database"
	"feedback-api/internal/logger"
	"feedback-api/internal/metrics"
	"feedback-api/internal/notify"
	"feedback-api/internal/repository"
)

// App is one fully wired instance of the API: an open database, the
// repository on top of it and the router serving it.
type App struct {
	DB      database.Querier
	Repo    *repository.FeedbackRepo
	Handler http.Handler
}

// NewApp opens the configured database, makes sure the schema exists and
// assembles the router.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()

	db, err := database.Open(ctx, database.Options{
		Path:        cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := repository.NewFeedbackRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("engine", string(db.Dialect())).Msg("database ready")

	handler := NewRouter(Deps{
		Repo:     repo,
		Notifier: notify.New(cfg.ResendAPIKey, cfg.NotifyFrom, cfg.NotifyTo, log),
		Metrics:  metrics.New(),
		Prefix:   cfg.APIPrefix,
		Origins:  cfg.CORSOrigins,
		Debug:    cfg.Debug,
	})

	return &App{DB: db, Repo: repo, Handler: handler}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
