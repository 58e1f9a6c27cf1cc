package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"feedback-api/internal/config"
	"feedback-api/internal/logger"
	"feedback-api/internal/server"
)

func main() {
	cfg, err := config.Load(os.Args[1:], config.Defaults{
		Name:        "feedback-server",
		Description: "Feedback API server.",
		APIPrefix:   "/api",
	})
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.Get(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start feedback API")
	}
	defer app.Close()

	srv := server.New(cfg.Addr(), app.Handler, cfg.ShutdownTimeout)
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}
