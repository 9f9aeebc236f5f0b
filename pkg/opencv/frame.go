// Package opencv implements the screenguard collaborators on top of gocv:
// webcam capture, face detection backends and HighGUI presentation.
package opencv

import (
	"fmt"

	"github.com/teslashibe/screenguard/pkg/detection"
	"gocv.io/x/gocv"
)

// toFrame copies a BGR Mat into a Frame.
func toFrame(m gocv.Mat) (detection.Frame, error) {
	if m.Empty() {
		return detection.Frame{}, detection.ErrEmptyFrame
	}
	if m.Type() != gocv.MatTypeCV8UC3 {
		return detection.Frame{}, fmt.Errorf("unsupported mat type %v", m.Type())
	}
	return detection.Frame{
		Width:  m.Cols(),
		Height: m.Rows(),
		Data:   m.ToBytes(),
	}, nil
}

// toMat wraps a Frame in a new Mat. The caller must Close it.
func toMat(f detection.Frame) (gocv.Mat, error) {
	if f.Empty() {
		return gocv.NewMat(), detection.ErrEmptyFrame
	}
	if len(f.Data) != f.Width*f.Height*3 {
		return gocv.NewMat(), fmt.Errorf("frame %dx%d has %d bytes, want %d",
			f.Width, f.Height, len(f.Data), f.Width*f.Height*3)
	}
	m, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("frame to mat: %w", err)
	}
	return m, nil
}
