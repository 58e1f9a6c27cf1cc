package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"feedback-api/internal/config"
	"feedback-api/internal/edge"
	"feedback-api/internal/logger"
	"feedback-api/internal/server"
)

// The edge entry point listens immediately and defers opening the database
// until the first request arrives.
func main() {
	cfg, err := config.Load(os.Args[1:], config.Defaults{
		Name:        "feedback-edge",
		Description: "Feedback API edge function.",
		APIPrefix:   "",
	})
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.Get(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fn := edge.FromConfig(cfg)
	defer fn.Close()

	if err := server.New(cfg.Addr(), fn, cfg.ShutdownTimeout).Run(ctx); err != nil {
		log.Error().Err(err).Msg("edge function stopped with error")
	}
}
