package monitor

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"coldwatch/internal/alerts"
	"coldwatch/internal/logger"
	"coldwatch/internal/metrics"
	"coldwatch/internal/notify"
	"coldwatch/internal/storage"
)

// Monitor periodically checks recent readings against threshold rules and
// notifies when any reading breaches.
type Monitor struct {
	store    storage.Store
	notifier notify.Notifier
	rule     alerts.Rule
	interval time.Duration
	window   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	// Clock override for tests
	now func() time.Time

	// Stats
	sweeps        atomic.Uint64
	breachesFound atomic.Uint64
	notifySent    atomic.Uint64
	notifyFailed  atomic.Uint64
}

// Config holds monitor configuration
type Config struct {
	Store    storage.Store
	Notifier notify.Notifier
	Rule     alerts.Rule
	Interval time.Duration
	Window   time.Duration
}

// New creates a monitor. The window defaults to the interval so consecutive
// sweeps cover the timeline without gaps.
func New(cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Window <= 0 {
		cfg.Window = cfg.Interval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		store:    cfg.Store,
		notifier: cfg.Notifier,
		rule:     cfg.Rule,
		interval: cfg.Interval,
		window:   cfg.Window,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

// Start begins the sweep loop.
func (m *Monitor) Start() {
	log := logger.WithComponent("monitor")
	log.Info().
		Dur("interval", m.interval).
		Dur("window", m.window).
		Float64("max_temperature", m.rule.MaxTemperature).
		Float64("max_humidity", m.rule.MaxHumidity).
		Msg("starting monitor")

	m.wg.Add(1)
	go m.run()
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
func (m *Monitor) Stop() {
	log := logger.WithComponent("monitor")
	log.Info().Msg("stopping monitor")
	m.cancel()
	m.wg.Wait()
	log.Info().Msg("monitor stopped")
}

// run executes sweeps on a fixed ticker until the monitor is stopped.
func (m *Monitor) run() {
	defer m.wg.Done()

	log := logger.WithComponent("monitor")

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			log.Error().
				Interface("panic", r).
				Bytes("stack", stack).
				Msg("monitor panic recovered")
			metrics.PanicsRecovered.WithLabelValues("monitor").Inc()
		}
	}()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.ctx)
		}
	}
}

// Sweep runs one evaluation pass: query the window, evaluate rules, and
// notify once with an aggregate message if any reading breaches. Errors are
// logged and swallowed so the loop keeps running.
func (m *Monitor) Sweep(ctx context.Context) {
	log := logger.WithComponent("monitor")
	start := m.now()

	m.sweeps.Add(1)
	metrics.MonitorSweepsTotal.Inc()

	since := start.Add(-m.window)

	readings, err := m.store.RecentReadings(ctx, since)
	if err != nil {
		log.Error().Err(err).Time("since", since).Msg("failed to query recent readings")
		return
	}

	metrics.MonitorReadingsEvaluated.Add(float64(len(readings)))

	breaches := alerts.Evaluate(m.rule, readings)

	duration := time.Since(start)
	metrics.MonitorSweepDuration.Observe(duration.Seconds())

	if len(breaches) == 0 {
		log.Debug().
			Int("readings", len(readings)).
			Dur("duration", duration).
			Msg("no threshold breach detected")
		return
	}

	m.breachesFound.Add(uint64(len(breaches)))
	metrics.MonitorBreachesFound.Add(float64(len(breaches)))

	log.Warn().
		Int("readings", len(readings)).
		Int("breaches", len(breaches)).
		Msg("threshold breach detected")

	if err := m.notifier.Send(ctx, alerts.JoinMessages(breaches)); err != nil {
		m.notifyFailed.Add(1)
		log.Error().Err(err).Msg("failed to send notification")
		return
	}

	m.notifySent.Add(1)
	log.Info().Int("breaches", len(breaches)).Msg("notification sent")
}

// Stats returns monitor counters.
func (m *Monitor) Stats() Stats {
	return Stats{
		Sweeps:        m.sweeps.Load(),
		BreachesFound: m.breachesFound.Load(),
		NotifySent:    m.notifySent.Load(),
		NotifyFailed:  m.notifyFailed.Load(),
	}
}

// Stats holds monitor counters.
type Stats struct {
	Sweeps        uint64 `json:"sweeps"`
	BreachesFound uint64 `json:"breaches_found"`
	NotifySent    uint64 `json:"notifications_sent"`
	NotifyFailed  uint64 `json:"notifications_failed"`
}
