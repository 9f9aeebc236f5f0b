package proximity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrCalibration is returned when no face was seen during calibration.
	ErrCalibration = errors.New("proximity: no face detected during calibration")

	// ErrStopSampling is returned by a Sampler to end calibration early,
	// e.g. on user quit or camera end of stream. Samples collected so far
	// are still used.
	ErrStopSampling = errors.New("proximity: sampling stopped")
)

// Baseline is the user's normal viewing distance expressed as face area.
type Baseline struct {
	Area    float64 // Mean pixel area of valid samples
	Samples int     // Number of valid samples behind the mean
}

// Threshold returns the too-close area for factor.
func (b Baseline) Threshold(factor float64) float64 {
	return b.Area * factor
}

// MeanArea averages the valid readings in samples, ignoring no-detection
// entries entirely. It fails with ErrCalibration if none are valid.
func MeanArea(samples []Area) (Baseline, error) {
	valid := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.Valid {
			valid = append(valid, s.Pixels)
		}
	}
	if len(valid) == 0 {
		return Baseline{}, ErrCalibration
	}
	return Baseline{Area: stat.Mean(valid, nil), Samples: len(valid)}, nil
}

// Sampler yields one area reading per call.
type Sampler interface {
	Sample(ctx context.Context) (Area, error)
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(ctx context.Context) (Area, error)

// Sample calls f.
func (f SamplerFunc) Sample(ctx context.Context) (Area, error) {
	return f(ctx)
}

// Calibrator collects face areas for a fixed wall-clock window.
type Calibrator struct {
	duration time.Duration
	now      func() time.Time
}

// NewCalibrator creates a calibrator collecting for duration. now may be nil
// to use time.Now.
func NewCalibrator(duration time.Duration, now func() time.Time) *Calibrator {
	if now == nil {
		now = time.Now
	}
	return &Calibrator{duration: duration, now: now}
}

// Calibrate samples until the window expires and returns the mean of the
// valid areas. Context cancellation or ErrStopSampling end the window early.
// Any other sampler error aborts calibration.
func (c *Calibrator) Calibrate(ctx context.Context, sampler Sampler) (Baseline, error) {
	start := c.now()
	var samples []Area

	for c.now().Sub(start) < c.duration {
		if ctx.Err() != nil {
			break
		}

		area, err := sampler.Sample(ctx)
		if errors.Is(err, ErrStopSampling) {
			break
		}
		if err != nil {
			return Baseline{}, fmt.Errorf("calibration sample: %w", err)
		}
		if area.Valid {
			samples = append(samples, area)
		}
	}

	return MeanArea(samples)
}
