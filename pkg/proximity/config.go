package proximity

import (
	"math"
	"time"
)

// Config holds the tunable parameters of proximity detection
type Config struct {
	// ThresholdFactor multiplies the baseline area; crossing the product
	// means "too close". Must be > 0.
	ThresholdFactor float64

	// CalibrationTime is how long baseline samples are collected.
	CalibrationTime time.Duration

	// OnsetDelay is the grace period between the first too-close frame
	// and blanking the screen.
	OnsetDelay time.Duration

	// BufferSize is the capacity of the display smoothing window.
	BufferSize int

	// Confidence is the detector score a face must exceed to count.
	Confidence float64
}

// DefaultConfig returns the stock settings
func DefaultConfig() Config {
	return Config{
		ThresholdFactor: 1.2,
		CalibrationTime: 2 * time.Second,
		OnsetDelay:      5 * time.Second,
		BufferSize:      30,
		Confidence:      0.5,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if !(c.ThresholdFactor > 0) || math.IsInf(c.ThresholdFactor, 0) {
		errors = append(errors, "threshold factor must be a finite number greater than 0")
	}
	if c.CalibrationTime <= 0 {
		errors = append(errors, "calibration time must be positive")
	}
	if c.OnsetDelay <= 0 {
		errors = append(errors, "onset delay must be positive")
	}
	if c.BufferSize < 1 {
		errors = append(errors, "buffer size must be at least 1")
	}
	if !(c.Confidence >= 0 && c.Confidence < 1) {
		errors = append(errors, "confidence must be in [0, 1)")
	}

	return errors
}
