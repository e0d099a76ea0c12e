package models

import (
	"errors"
	"time"
)

// FridgeReading is a single temperature/humidity sample from one fridge.
// Rows are insert-only; the ID is assigned by the client, not the database.
type FridgeReading struct {
	// Client-assigned unique identifier
	ID int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`

	// Temperature in degrees Celsius
	Temperature float64 `gorm:"not null" json:"temperature"`

	// Relative humidity in percent
	Humidity float64 `gorm:"not null" json:"humidity"`

	// Time the sample was taken; set to insertion time when absent
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	// Identifier of the physical fridge
	FridgeNo int `gorm:"not null" json:"fridgeNo"`
}

// TableName keeps the table name stable regardless of gorm's pluralization.
func (FridgeReading) TableName() string { return "fridge_readings" }

// Validation errors
var (
	ErrMissingID          = errors.New("reading id is required and must be non-zero")
	ErrMissingTemperature = errors.New("temperature is required")
	ErrMissingHumidity    = errors.New("humidity is required")
	ErrMissingFridgeNo    = errors.New("fridgeNo is required")
	ErrNegativeFridgeNo   = errors.New("fridgeNo cannot be negative")
	ErrFutureTimestamp    = errors.New("timestamp cannot be in the future")
)

// ReadingInput is the wire format of an ingested reading. Numeric fields are
// pointers so an absent key is distinguishable from a zero value.
type ReadingInput struct {
	ID          *int64     `json:"id"`
	Temperature *float64   `json:"temperature"`
	Humidity    *float64   `json:"humidity"`
	Timestamp   *time.Time `json:"timestamp"`
	FridgeNo    *int       `json:"fridgeNo"`
}

// Validate checks that all required fields are present and sane.
func (in *ReadingInput) Validate() error {
	if in.ID == nil || *in.ID == 0 {
		return ErrMissingID
	}

	if in.Temperature == nil {
		return ErrMissingTemperature
	}

	if in.Humidity == nil {
		return ErrMissingHumidity
	}

	if in.FridgeNo == nil {
		return ErrMissingFridgeNo
	}

	if *in.FridgeNo < 0 {
		return ErrNegativeFridgeNo
	}

	if in.Timestamp != nil && in.Timestamp.After(time.Now().Add(time.Minute)) {
		return ErrFutureTimestamp
	}

	return nil
}

// ToReading converts a validated input into a storable row, defaulting the
// timestamp to now when the payload omitted it.
func (in *ReadingInput) ToReading(now time.Time) *FridgeReading {
	ts := now.UTC()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = in.Timestamp.UTC()
	}

	return &FridgeReading{
		ID:          *in.ID,
		Temperature: *in.Temperature,
		Humidity:    *in.Humidity,
		Timestamp:   ts,
		FridgeNo:    *in.FridgeNo,
	}
}
