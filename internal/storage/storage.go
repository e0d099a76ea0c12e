package storage

import (
	"context"
	"errors"
	"time"

	"coldwatch/internal/models"
)

// Storage errors
var (
	// ErrDuplicateID is returned when an insert reuses an existing reading ID.
	ErrDuplicateID = errors.New("reading id already exists")
)

// Store persists fridge readings and serves the monitor's window queries.
type Store interface {
	// InsertReading stores exactly one reading. A reused ID fails with
	// ErrDuplicateID and leaves the table unchanged.
	InsertReading(ctx context.Context, reading *models.FridgeReading) error

	// RecentReadings returns all readings with a timestamp at or after since,
	// ordered by timestamp ascending.
	RecentReadings(ctx context.Context, since time.Time) ([]models.FridgeReading, error)

	// Count returns the total number of stored readings.
	Count(ctx context.Context) (int64, error)

	// Ping reports whether the database is reachable.
	Ping(ctx context.Context) error

	Close() error
}
