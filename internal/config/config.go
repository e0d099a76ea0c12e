package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the ingestion server and monitor.
type Config struct {
	// HTTP listen address
	HTTPAddr string

	// Database connection string (postgres DSN or sqlite file path)
	SQLConnectionString string

	// Slack incoming webhook target; monitoring is disabled when empty
	SlackWebhookURL string

	// Alert thresholds
	ThresholdTemperature float64
	ThresholdHumidity    float64

	// Monitor sweep cadence and look-back window
	MonitorInterval time.Duration
	MonitorWindow   time.Duration

	// Log level (zerolog level string)
	LogLevel string
}

// SimulatorConfig holds runtime configuration for the sensor simulator.
type SimulatorConfig struct {
	// Ingestion endpoint, including the /api/fridge-reading suffix
	IngestURL string

	// Number of simulated fridges
	Fridges int

	// Delay between readings per fridge
	SendInterval time.Duration

	// Total simulator runtime
	RuntimeLimit time.Duration

	// Faulty fridge knobs: a generator that starts after FaultyDelay and
	// emits out-of-range temperatures for FaultyFridgeNo
	FaultyFridgeNo int
	FaultyDelay    time.Duration
	FaultyInterval time.Duration

	LogLevel string
}

// Load reads server configuration from the environment, honoring a local
// .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		SQLConnectionString:  getEnv("SQL_CONNECTION_STRING", "coldwatch.db"),
		SlackWebhookURL:      getEnv("SLACK_WEBHOOK_URL", ""),
		ThresholdTemperature: getFloat("THRESHOLD_TEMPERATURE", 8.0),
		ThresholdHumidity:    getFloat("THRESHOLD_HUMIDITY", 60.0),
		MonitorInterval:      getDuration("MONITOR_INTERVAL", time.Minute),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	// The window defaults to the sweep interval so consecutive sweeps
	// cover the timeline without gaps.
	cfg.MonitorWindow = getDuration("MONITOR_WINDOW", cfg.MonitorInterval)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.SQLConnectionString == "" {
		return errors.New("SQL_CONNECTION_STRING cannot be empty")
	}

	if c.MonitorInterval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive, got %s", c.MonitorInterval)
	}

	if c.MonitorWindow <= 0 {
		return fmt.Errorf("MONITOR_WINDOW must be positive, got %s", c.MonitorWindow)
	}

	return nil
}

// LoadSimulator reads simulator configuration from the environment.
func LoadSimulator() (*SimulatorConfig, error) {
	_ = godotenv.Load()

	cfg := &SimulatorConfig{
		IngestURL:      getEnv("AZURE_FUNCTION_URL", "http://localhost:8080/api/fridge-reading"),
		Fridges:        getInt("SIMULATOR_FRIDGES", 3),
		SendInterval:   getDuration("SIMULATOR_SEND_INTERVAL", 10*time.Second),
		RuntimeLimit:   getDuration("SIMULATOR_RUNTIME_LIMIT", time.Minute),
		FaultyFridgeNo: getInt("SIMULATOR_FAULTY_FRIDGE", 4),
		FaultyDelay:    getDuration("SIMULATOR_FAULTY_DELAY", 30*time.Second),
		FaultyInterval: getDuration("SIMULATOR_FAULTY_INTERVAL", 30*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.IngestURL == "" {
		return nil, errors.New("AZURE_FUNCTION_URL cannot be empty")
	}

	if cfg.Fridges <= 0 {
		return nil, fmt.Errorf("SIMULATOR_FRIDGES must be positive, got %d", cfg.Fridges)
	}

	if cfg.SendInterval <= 0 {
		return nil, fmt.Errorf("SIMULATOR_SEND_INTERVAL must be positive, got %s", cfg.SendInterval)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
