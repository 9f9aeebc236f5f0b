// Package session runs the screenguard frame loop.
//
// A Session owns one frame source and one presenter for its lifetime. It
// calibrates a baseline, then on every frame extracts the face area, feeds
// the smoothing window and the alert state machine, and turns the result
// into presentation calls. The loop is single-threaded.
package session

import (
	"errors"
	"time"

	"github.com/teslashibe/screenguard/pkg/detection"
)

// ErrEndOfStream is returned by a FrameSource with no more frames.
// The session treats it as normal termination.
var ErrEndOfStream = errors.New("session: end of stream")

// ErrFrameDropped is returned by a FrameSource when one read fails but the
// source stays open. Calibration skips such frames; monitoring stops.
var ErrFrameDropped = errors.New("session: frame dropped")

// FrameSource delivers camera frames.
type FrameSource interface {
	// Next blocks until a frame is available.
	Next() (detection.Frame, error)

	// Close releases the device.
	Close() error
}

// OverlayLevel selects how an overlay line is drawn.
type OverlayLevel int

const (
	// OverlayInfo is the always-on status line.
	OverlayInfo OverlayLevel = iota
	// OverlayWarning is the too-close countdown.
	OverlayWarning
)

// Overlay is one line of text drawn on the preview frame.
type Overlay struct {
	Text  string
	Level OverlayLevel
}

// Presenter shows frames and blanks the screen.
type Presenter interface {
	// ShowCalibration displays a frame while calibrating.
	ShowCalibration(frame detection.Frame) error

	// ShowFrame displays a frame with overlay lines, top to bottom.
	ShowFrame(frame detection.Frame, overlays []Overlay) error

	// Blank shows (true) or hides (false) the full-screen blank surface.
	Blank(on bool) error

	// QuitRequested polls for a user quit request.
	QuitRequested() bool

	// Close dismisses all windows.
	Close() error
}

// Status is a snapshot of the session after a frame.
type Status struct {
	SessionID string    `json:"session_id"`
	Phase     string    `json:"phase"`
	Detected  bool      `json:"detected"`
	Area      float64   `json:"area"`
	Average   float64   `json:"average"`
	Baseline  float64   `json:"baseline"`
	Threshold float64   `json:"threshold"`
	Countdown int       `json:"countdown,omitempty"`
	Frames    int       `json:"frames"`
	Time      time.Time `json:"time"`
}

// StatusSink receives status snapshots. Publish must not block.
type StatusSink interface {
	Publish(Status)
}
