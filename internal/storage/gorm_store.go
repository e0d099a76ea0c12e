package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coldwatch/internal/logger"
	"coldwatch/internal/models"
)

// GormStore is a Store backed by a relational database through gorm.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the database named by the connection string and ensures
// the readings table exists. Postgres DSNs are recognized by their prefix;
// anything else is treated as a sqlite file path.
func Open(connStr string) (*GormStore, error) {
	log := logger.WithComponent("storage")

	dialector := dialectorFor(connStr)

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&models.FridgeReading{}); err != nil {
		return nil, fmt.Errorf("failed to migrate readings table: %w", err)
	}

	log.Info().Str("dialect", dialector.Name()).Msg("database connected")

	return &GormStore{db: db}, nil
}

func dialectorFor(connStr string) gorm.Dialector {
	if strings.HasPrefix(connStr, "postgres://") ||
		strings.HasPrefix(connStr, "postgresql://") ||
		strings.Contains(connStr, "host=") {
		return postgres.Open(connStr)
	}
	return sqlite.Open(connStr)
}

// InsertReading stores one reading, translating primary-key violations into
// ErrDuplicateID.
func (s *GormStore) InsertReading(ctx context.Context, reading *models.FridgeReading) error {
	err := s.db.WithContext(ctx).Create(reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %d", ErrDuplicateID, reading.ID)
		}
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

// RecentReadings returns readings with Timestamp >= since, oldest first.
func (s *GormStore) RecentReadings(ctx context.Context, since time.Time) ([]models.FridgeReading, error) {
	var readings []models.FridgeReading
	err := s.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Order("timestamp asc").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent readings: %w", err)
	}
	return readings, nil
}

// Count returns the total number of stored readings.
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.FridgeReading{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}

// Ping reports whether the underlying database connection is alive.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
