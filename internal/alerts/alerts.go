package alerts

import (
	"fmt"
	"strings"
	"time"

	"coldwatch/internal/models"
)

// Rule defines the acceptable operating range for a fridge. A reading
// breaches the rule when either value exceeds its maximum.
type Rule struct {
	MaxTemperature float64
	MaxHumidity    float64
}

// Breach records one reading that violated a rule.
type Breach struct {
	FridgeNo    int
	Temperature float64
	Humidity    float64
	Timestamp   time.Time
}

// Message renders the human-readable alert line for this breach.
func (b Breach) Message() string {
	return fmt.Sprintf("Alert! Fridge with number %d Temperature: %g, Humidity: %g at %s",
		b.FridgeNo, b.Temperature, b.Humidity, b.Timestamp.Format(time.RFC3339))
}

// Evaluate checks every reading against the rule and returns a breach for
// each violating reading, preserving input order.
func Evaluate(rule Rule, readings []models.FridgeReading) []Breach {
	var breaches []Breach
	for _, r := range readings {
		if r.Temperature > rule.MaxTemperature || r.Humidity > rule.MaxHumidity {
			breaches = append(breaches, Breach{
				FridgeNo:    r.FridgeNo,
				Temperature: r.Temperature,
				Humidity:    r.Humidity,
				Timestamp:   r.Timestamp,
			})
		}
	}
	return breaches
}

// JoinMessages combines breach messages into a single notification body.
func JoinMessages(breaches []Breach) string {
	lines := make([]string, len(breaches))
	for i, b := range breaches {
		lines[i] = b.Message()
	}
	return strings.Join(lines, "\n")
}
