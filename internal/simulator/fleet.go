package simulator

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"

	"coldwatch/internal/config"
	"coldwatch/internal/logger"
	"coldwatch/internal/models"
)

// Value ranges for healthy fridges, and the out-of-range band emitted by the
// faulty generator.
const (
	minTemperature = 2.0
	maxTemperature = 8.0
	minHumidity    = 30.0
	maxHumidity    = 55.0

	faultyMinTemperature = 8.0
	faultyMaxTemperature = 12.0
)

// Sender posts a reading to the ingestion endpoint.
type Sender interface {
	SendReading(ctx context.Context, reading *models.FridgeReading) (*SendResult, error)
}

// Fleet simulates a set of fridge sensors, each posting readings on a fixed
// cadence, plus one delayed generator producing out-of-range temperatures.
type Fleet struct {
	sender Sender
	cfg    *config.SimulatorConfig
	node   *snowflake.Node

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	sent   atomic.Uint64
	failed atomic.Uint64
}

// NewFleet creates a fleet driven by the given sender.
func NewFleet(sender Sender, cfg *config.SimulatorConfig) (*Fleet, error) {
	// Snowflake IDs keep client-assigned reading IDs unique across
	// concurrent generators and across runs.
	node, err := snowflake.NewNode(int64(rand.Intn(1024)))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Fleet{
		sender: sender,
		cfg:    cfg,
		node:   node,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Run starts all generators and blocks until the runtime limit elapses or
// the context is cancelled.
func (f *Fleet) Run(ctx context.Context) error {
	log := logger.WithComponent("fleet")
	log.Info().
		Int("fridges", f.cfg.Fridges).
		Dur("send_interval", f.cfg.SendInterval).
		Dur("runtime_limit", f.cfg.RuntimeLimit).
		Msg("starting sensor fleet")

	deadline := time.Now().Add(f.cfg.RuntimeLimit)

	for i := 0; i < f.cfg.Fridges; i++ {
		f.wg.Add(1)
		go f.sensorLoop(i, deadline)
	}

	if f.cfg.FaultyFridgeNo >= 0 {
		f.wg.Add(1)
		go f.faultyLoop(deadline)
	}

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		f.cancel()
		<-done
	}

	log.Info().
		Uint64("sent", f.sent.Load()).
		Uint64("failed", f.failed.Load()).
		Msg("sensor fleet finished")
	return nil
}

// Stop cancels all generators.
func (f *Fleet) Stop() {
	f.cancel()
	f.wg.Wait()
}

// sensorLoop emits healthy readings for one fridge until the deadline.
func (f *Fleet) sensorLoop(fridgeNo int, deadline time.Time) {
	defer f.wg.Done()

	log := logger.WithComponent("sensor").With().Int("fridge_no", fridgeNo).Logger()
	log.Info().Msg("sensor started")
	defer log.Info().Msg("sensor stopped")

	ticker := time.NewTicker(f.cfg.SendInterval)
	defer ticker.Stop()

	// First reading goes out immediately
	f.emit(f.GenerateReading(fridgeNo))

	for {
		select {
		case <-f.ctx.Done():
			return
		case t := <-ticker.C:
			if t.After(deadline) {
				return
			}
			f.emit(f.GenerateReading(fridgeNo))
		}
	}
}

// faultyLoop waits out the configured delay, then emits out-of-range
// readings on its own cadence until the deadline.
func (f *Fleet) faultyLoop(deadline time.Time) {
	defer f.wg.Done()

	log := logger.WithComponent("sensor").With().
		Int("fridge_no", f.cfg.FaultyFridgeNo).
		Bool("faulty", true).
		Logger()

	select {
	case <-f.ctx.Done():
		return
	case <-time.After(f.cfg.FaultyDelay):
	}

	log.Info().Msg("faulty sensor started")
	defer log.Info().Msg("faulty sensor stopped")

	ticker := time.NewTicker(f.cfg.FaultyInterval)
	defer ticker.Stop()

	f.emit(f.GenerateFaultyReading(f.cfg.FaultyFridgeNo))

	for {
		select {
		case <-f.ctx.Done():
			return
		case t := <-ticker.C:
			if t.After(deadline) {
				return
			}
			f.emit(f.GenerateFaultyReading(f.cfg.FaultyFridgeNo))
		}
	}
}

// emit posts one reading and records the outcome.
func (f *Fleet) emit(reading *models.FridgeReading) {
	log := logger.WithComponent("sensor")

	ctx, cancel := context.WithTimeout(f.ctx, 10*time.Second)
	defer cancel()

	if _, err := f.sender.SendReading(ctx, reading); err != nil {
		f.failed.Add(1)
		log.Error().
			Err(err).
			Int64("id", reading.ID).
			Int("fridge_no", reading.FridgeNo).
			Msg("failed to send reading")
		return
	}

	f.sent.Add(1)
	log.Debug().
		Int64("id", reading.ID).
		Int("fridge_no", reading.FridgeNo).
		Float64("temperature", reading.Temperature).
		Float64("humidity", reading.Humidity).
		Msg("reading sent")
}

// GenerateReading produces a random in-range reading for the given fridge.
func (f *Fleet) GenerateReading(fridgeNo int) *models.FridgeReading {
	return &models.FridgeReading{
		ID:          f.node.Generate().Int64(),
		Temperature: roundTo(randomInRange(minTemperature, maxTemperature), 2),
		Humidity:    roundTo(randomInRange(minHumidity, maxHumidity), 2),
		Timestamp:   time.Now().UTC(),
		FridgeNo:    fridgeNo,
	}
}

// GenerateFaultyReading produces a reading whose temperature exceeds the
// healthy band.
func (f *Fleet) GenerateFaultyReading(fridgeNo int) *models.FridgeReading {
	return &models.FridgeReading{
		ID:          f.node.Generate().Int64(),
		Temperature: roundTo(randomInRange(faultyMinTemperature, faultyMaxTemperature), 2),
		Humidity:    roundTo(randomInRange(minHumidity, maxHumidity), 2),
		Timestamp:   time.Now().UTC(),
		FridgeNo:    fridgeNo,
	}
}

// Stats returns fleet counters.
func (f *Fleet) Stats() Stats {
	return Stats{
		Sent:   f.sent.Load(),
		Failed: f.failed.Load(),
	}
}

// Stats holds fleet counters.
type Stats struct {
	Sent   uint64
	Failed uint64
}

func randomInRange(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

func roundTo(v float64, places int) float64 {
	shift := 1.0
	for i := 0; i < places; i++ {
		shift *= 10
	}
	return math.Round(v*shift) / shift
}
