package session

import (
	"sync"

	"github.com/teslashibe/screenguard/pkg/detection"
)

// MockSource implements FrameSource for testing.
type MockSource struct {
	// NextFunc is called when Next is invoked.
	// If nil, frames are replayed from Frames and ErrEndOfStream follows.
	NextFunc func() (detection.Frame, error)

	// Frames is replayed in order when NextFunc is nil.
	Frames []detection.Frame

	mu     sync.Mutex
	pos    int
	closed int
}

// NewMockSource returns a source replaying n blank frames of w×h.
func NewMockSource(n, w, h int) *MockSource {
	frames := make([]detection.Frame, n)
	for i := range frames {
		frames[i] = detection.Frame{Width: w, Height: h, Data: make([]byte, w*h*3)}
	}
	return &MockSource{Frames: frames}
}

// Next returns the next frame.
func (m *MockSource) Next() (detection.Frame, error) {
	if m.NextFunc != nil {
		return m.NextFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pos >= len(m.Frames) {
		return detection.Frame{}, ErrEndOfStream
	}
	f := m.Frames[m.pos]
	m.pos++
	return f, nil
}

// Close records the call.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// Closed returns how many times Close was called.
func (m *MockSource) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockPresenter implements Presenter and records every call.
type MockPresenter struct {
	// QuitFunc is polled by QuitRequested. If nil, quit is never requested.
	QuitFunc func() bool

	mu          sync.Mutex
	calibration int
	frames      [][]Overlay
	blanks      []bool
	closed      int
}

// ShowCalibration records a calibration frame.
func (m *MockPresenter) ShowCalibration(detection.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calibration++
	return nil
}

// ShowFrame records the overlays of a frame.
func (m *MockPresenter) ShowFrame(_ detection.Frame, overlays []Overlay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, append([]Overlay(nil), overlays...))
	return nil
}

// Blank records a blank change.
func (m *MockPresenter) Blank(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blanks = append(m.blanks, on)
	return nil
}

// QuitRequested calls QuitFunc.
func (m *MockPresenter) QuitRequested() bool {
	if m.QuitFunc == nil {
		return false
	}
	return m.QuitFunc()
}

// Close records the call.
func (m *MockPresenter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// CalibrationFrames returns how many calibration frames were shown.
func (m *MockPresenter) CalibrationFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calibration
}

// Frames returns the overlays of every shown frame.
func (m *MockPresenter) Frames() [][]Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]Overlay(nil), m.frames...)
}

// Blanks returns the sequence of Blank calls.
func (m *MockPresenter) Blanks() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.blanks...)
}

// Closed returns how many times Close was called.
func (m *MockPresenter) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// StatusRecorder implements StatusSink by keeping every snapshot.
type StatusRecorder struct {
	mu       sync.Mutex
	statuses []Status
}

// Publish records st.
func (r *StatusRecorder) Publish(st Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, st)
}

// Statuses returns the recorded snapshots.
func (r *StatusRecorder) Statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.statuses...)
}
