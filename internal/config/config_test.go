package config_test

import (
	"testing"
	"time"

	"coldwatch/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("unexpected HTTPAddr: %s", cfg.HTTPAddr)
	}
	if cfg.ThresholdTemperature != 8.0 {
		t.Errorf("unexpected temperature threshold: %v", cfg.ThresholdTemperature)
	}
	if cfg.ThresholdHumidity != 60.0 {
		t.Errorf("unexpected humidity threshold: %v", cfg.ThresholdHumidity)
	}
	if cfg.MonitorInterval != time.Minute {
		t.Errorf("unexpected monitor interval: %v", cfg.MonitorInterval)
	}
	if cfg.MonitorWindow != cfg.MonitorInterval {
		t.Errorf("window should default to interval, got %v", cfg.MonitorWindow)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("THRESHOLD_TEMPERATURE", "5.5")
	t.Setenv("MONITOR_INTERVAL", "30s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTP_ADDR override ignored: %s", cfg.HTTPAddr)
	}
	if cfg.ThresholdTemperature != 5.5 {
		t.Errorf("THRESHOLD_TEMPERATURE override ignored: %v", cfg.ThresholdTemperature)
	}
	if cfg.MonitorInterval != 30*time.Second {
		t.Errorf("MONITOR_INTERVAL override ignored: %v", cfg.MonitorInterval)
	}
	if cfg.MonitorWindow != 30*time.Second {
		t.Errorf("window should follow overridden interval, got %v", cfg.MonitorWindow)
	}
}

func TestLoad_ExplicitWindow(t *testing.T) {
	t.Setenv("MONITOR_INTERVAL", "1m")
	t.Setenv("MONITOR_WINDOW", "5m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.MonitorWindow != 5*time.Minute {
		t.Errorf("explicit window ignored: %v", cfg.MonitorWindow)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("THRESHOLD_TEMPERATURE", "not-a-number")
	t.Setenv("MONITOR_INTERVAL", "soon")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ThresholdTemperature != 8.0 {
		t.Errorf("expected fallback threshold, got %v", cfg.ThresholdTemperature)
	}
	if cfg.MonitorInterval != time.Minute {
		t.Errorf("expected fallback interval, got %v", cfg.MonitorInterval)
	}
}

func TestLoadSimulator_Defaults(t *testing.T) {
	cfg, err := config.LoadSimulator()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Fridges != 3 {
		t.Errorf("unexpected fridge count: %d", cfg.Fridges)
	}
	if cfg.SendInterval != 10*time.Second {
		t.Errorf("unexpected send interval: %v", cfg.SendInterval)
	}
	if cfg.RuntimeLimit != time.Minute {
		t.Errorf("unexpected runtime limit: %v", cfg.RuntimeLimit)
	}
}

func TestLoadSimulator_RejectsNonPositiveFridges(t *testing.T) {
	t.Setenv("SIMULATOR_FRIDGES", "0")

	if _, err := config.LoadSimulator(); err == nil {
		t.Fatal("expected error for zero fridges")
	}
}
