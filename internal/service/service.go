package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coldwatch/internal/alerts"
	"coldwatch/internal/config"
	"coldwatch/internal/handlers"
	"coldwatch/internal/logger"
	"coldwatch/internal/middleware"
	"coldwatch/internal/monitor"
	"coldwatch/internal/notify"
	"coldwatch/internal/storage"
)

// Service is the high-level coordinator for ingestion, monitoring, and the
// HTTP surface.
type Service struct {
	cfg        *config.Config
	store      storage.Store
	monitor    *monitor.Monitor
	httpServer *http.Server
	wg         sync.WaitGroup
}

// New constructs a Service with the given config.
func New(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Run starts background goroutines and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	log := logger.WithComponent("service")
	log.Info().Msg("service starting")

	// Open storage
	store, err := storage.Open(s.cfg.SQLConnectionString)
	if err != nil {
		log.Error().Err(err).Msg("failed to open storage")
		return fmt.Errorf("failed to open storage: %w", err)
	}
	s.store = store

	// Start the monitor when a webhook target is configured
	if s.cfg.SlackWebhookURL != "" {
		if err := s.initMonitor(); err != nil {
			log.Error().Err(err).Msg("failed to initialize monitor")
			return fmt.Errorf("failed to initialize monitor: %w", err)
		}
		s.monitor.Start()
	} else {
		log.Warn().Msg("SLACK_WEBHOOK_URL not set, monitor disabled")
	}

	// Initialize HTTP server
	s.initHTTPServer()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info().Str("addr", s.cfg.HTTPAddr).Msg("starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	return s.shutdown()
}

// initMonitor wires the threshold monitor to storage and Slack.
func (s *Service) initMonitor() error {
	log := logger.WithComponent("service")

	notifier, err := notify.NewSlackWebhook(s.cfg.SlackWebhookURL)
	if err != nil {
		return err
	}

	s.monitor = monitor.New(monitor.Config{
		Store:    s.store,
		Notifier: notifier,
		Rule: alerts.Rule{
			MaxTemperature: s.cfg.ThresholdTemperature,
			MaxHumidity:    s.cfg.ThresholdHumidity,
		},
		Interval: s.cfg.MonitorInterval,
		Window:   s.cfg.MonitorWindow,
	})

	log.Info().
		Dur("interval", s.cfg.MonitorInterval).
		Dur("window", s.cfg.MonitorWindow).
		Msg("monitor initialized")
	return nil
}

// initHTTPServer initializes the HTTP server with handlers
func (s *Service) initHTTPServer() {
	mux := http.NewServeMux()

	readingHandler := handlers.NewReadingHandler(handlers.ReadingConfig{
		Store: s.store,
	})
	mux.Handle("/api/fridge-reading", middleware.Chain(
		readingHandler,
		middleware.Recovery,
		middleware.Logging,
	))

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/stats", s.statsHandler)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// shutdown performs graceful shutdown: drain HTTP, stop the monitor, then
// close storage.
func (s *Service) shutdown() error {
	log := logger.WithComponent("service")
	log.Info().Msg("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("stopping HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if s.monitor != nil {
		done := make(chan struct{})
		go func() {
			s.monitor.Stop()
			close(done)
		}()

		select {
		case <-done:
			log.Info().Msg("monitor stopped gracefully")
		case <-time.After(15 * time.Second):
			log.Warn().Msg("monitor shutdown timeout - forcing exit")
		}
	}

	log.Info().Msg("closing storage")
	if err := s.store.Close(); err != nil {
		log.Error().Err(err).Msg("storage close error")
	}

	s.wg.Wait()

	log.Info().Msg("service stopped gracefully")
	return nil
}

// healthHandler handles health check requests
func (s *Service) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		http.Error(w, fmt.Sprintf("unhealthy: %v", err), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// statsHandler returns current statistics
func (s *Service) statsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	count, err := s.store.Count(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("stats unavailable: %v", err), http.StatusServiceUnavailable)
		return
	}

	stats := struct {
		Readings int64          `json:"readings"`
		Monitor  *monitor.Stats `json:"monitor,omitempty"`
	}{
		Readings: count,
	}

	if s.monitor != nil {
		ms := s.monitor.Stats()
		stats.Monitor = &ms
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}
