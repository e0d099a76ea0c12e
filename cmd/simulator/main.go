package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"coldwatch/internal/config"
	"coldwatch/internal/logger"
	"coldwatch/internal/simulator"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadSimulator()
	if err != nil {
		logger.Init("info")
		logger.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(cfg.LogLevel)
	log := logger.WithComponent("main")

	client, err := simulator.NewClient(cfg.IngestURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create ingest client")
	}

	fleet, err := simulator.NewFleet(client, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create fleet")
	}

	// cancel the fleet on termination signals
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	if err := fleet.Run(ctx); err != nil {
		log.Error().Err(err).Msg("fleet exited with error")
		os.Exit(1)
	}

	stats := fleet.Stats()
	log.Info().
		Uint64("sent", stats.Sent).
		Uint64("failed", stats.Failed).
		Msg("exited")
}
