package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldwatch/internal/config"
	"coldwatch/internal/logger"
	"coldwatch/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(cfg.LogLevel)
	log := logger.WithComponent("main")

	svc := service.New(cfg)

	// run service in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Run(ctx)
	}()

	// wait for termination signals
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		if err := <-errCh; err != nil {
			log.Error().Err(err).Msg("service exited with error")
		}
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("service exited with error")
			os.Exit(1)
		}
	}

	// give graceful shutdown some time
	time.Sleep(100 * time.Millisecond)
	log.Info().Msg("exited")
}
