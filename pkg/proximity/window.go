package proximity

import "gonum.org/v1/gonum/stat"

// Window is a fixed-capacity rolling window of recent areas for display.
// No-detection readings are stored as 0, so the average dips when the face
// is lost. Alert decisions never read from it.
type Window struct {
	values []float64
	size   int
}

// NewWindow creates a window holding at most size samples.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{
		values: make([]float64, 0, size),
		size:   size,
	}
}

// Push appends a reading, evicting the oldest when full.
func (w *Window) Push(a Area) {
	if len(w.values) == w.size {
		copy(w.values, w.values[1:])
		w.values = w.values[:w.size-1]
	}
	w.values = append(w.values, a.OrZero())
}

// Average returns the mean of the current samples, or 0 when empty.
func (w *Window) Average() float64 {
	if len(w.values) == 0 {
		return 0
	}
	return stat.Mean(w.values, nil)
}

// Values returns a copy of the samples, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}

// Len returns the number of samples held.
func (w *Window) Len() int { return len(w.values) }

// Cap returns the window capacity.
func (w *Window) Cap() int { return w.size }
