// Package proximity decides whether the user sits too close to the screen.
//
// It turns detector output into face areas, calibrates a personal baseline,
// smooths areas for display and runs the two-stage alert state machine.
// Nothing here performs I/O; pkg/session wires it to the camera and screen.
package proximity

import (
	"fmt"

	"github.com/teslashibe/screenguard/pkg/detection"
)

// Area is one frame's face area in pixels, or no detection.
type Area struct {
	Pixels float64
	Valid  bool
}

// NoArea is the reading for a frame without a usable face.
var NoArea = Area{}

// AreaOf returns a valid area reading.
func AreaOf(pixels float64) Area {
	return Area{Pixels: pixels, Valid: true}
}

// OrZero returns the pixel area, or 0 for no detection.
func (a Area) OrZero() float64 {
	if !a.Valid {
		return 0
	}
	return a.Pixels
}

// Exceeds reports whether a valid reading is strictly above threshold.
// No detection never exceeds.
func (a Area) Exceeds(threshold float64) bool {
	return a.Valid && a.Pixels > threshold
}

func (a Area) String() string {
	if !a.Valid {
		return "none"
	}
	return fmt.Sprintf("%.0f", a.Pixels)
}

// Extractor turns a frame into the area of the first confident face.
type Extractor struct {
	detector detection.Detector
	backend  string
	cutoff   float64
}

// NewExtractor creates an extractor over detector. Detections must score
// strictly above cutoff to count.
func NewExtractor(detector detection.Detector, backend string, cutoff float64) *Extractor {
	return &Extractor{
		detector: detector,
		backend:  backend,
		cutoff:   cutoff,
	}
}

// Extract runs the detector on frame and returns the pixel area of the first
// detection above the cutoff, in detector order. Detector failures are
// returned as *detection.Error and must be treated as fatal.
func (e *Extractor) Extract(frame detection.Frame) (Area, error) {
	dets, err := e.detector.Detect(frame)
	if err != nil {
		return NoArea, detection.WrapError(e.backend, detection.OpDetect, err)
	}

	d, ok := detection.FirstAbove(dets, e.cutoff)
	if !ok {
		return NoArea, nil
	}
	return AreaOf(d.PixelArea(frame.Width, frame.Height)), nil
}
