// Package detection defines the face detector contract used by screenguard.
//
// Backends live in pkg/opencv; this package stays free of cgo so the
// proximity core can be tested without OpenCV installed.
package detection

// Frame is a captured camera image as packed BGR24 pixels, row-major.
type Frame struct {
	Width  int
	Height int
	Data   []byte
}

// Empty reports whether the frame carries no pixels.
func (f Frame) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || len(f.Data) == 0
}

// Detection represents a detected face
type Detection struct {
	X, Y       float64 // Top-left corner (0-1 normalized)
	W, H       float64 // Width and height (0-1 normalized)
	Confidence float64 // Detection confidence (0-1)
}

// PixelArea returns the box area in pixels of a width×height frame.
// Corners are truncated to whole pixels before subtracting, so the result
// matches what a renderer drawing the integer box would cover.
func (d Detection) PixelArea(width, height int) float64 {
	x1 := int(d.X * float64(width))
	y1 := int(d.Y * float64(height))
	x2 := int((d.X + d.W) * float64(width))
	y2 := int((d.Y + d.H) * float64(height))
	return float64((x2 - x1) * (y2 - y1))
}

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in the frame and returns them in backend order
	Detect(frame Frame) ([]Detection, error)

	// Close releases resources
	Close() error
}

// FirstAbove returns the first detection whose confidence is strictly
// greater than cutoff, in the order the backend reported them.
// It deliberately does not rank by size or confidence.
func FirstAbove(dets []Detection, cutoff float64) (Detection, bool) {
	for _, d := range dets {
		if d.Confidence > cutoff {
			return d, true
		}
	}
	return Detection{}, false
}
