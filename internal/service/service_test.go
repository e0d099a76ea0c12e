package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"coldwatch/internal/config"
)

func TestServiceRun(t *testing.T) {
	cfg := &config.Config{
		HTTPAddr:             "127.0.0.1:0",
		SQLConnectionString:  filepath.Join(t.TempDir(), "test.db"),
		ThresholdTemperature: 8.0,
		ThresholdHumidity:    60.0,
		MonitorInterval:      time.Minute,
		MonitorWindow:        time.Minute,
	}

	svc := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := svc.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestServiceRun_BadStorage(t *testing.T) {
	cfg := &config.Config{
		HTTPAddr:            "127.0.0.1:0",
		SQLConnectionString: filepath.Join(t.TempDir(), "missing", "nested", "test.db"),
		MonitorInterval:     time.Minute,
		MonitorWindow:       time.Minute,
	}

	svc := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := svc.Run(ctx); err == nil {
		t.Fatal("expected error for unopenable database path")
	}
}
