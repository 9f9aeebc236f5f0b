package opencv

import (
	"image"
	"image/color"
	"sync"

	"github.com/teslashibe/screenguard/pkg/detection"
	"github.com/teslashibe/screenguard/pkg/session"
	"gocv.io/x/gocv"
)

// Window titles
const (
	PreviewTitle     = "Screen Guard"
	CalibrationTitle = "Calibration"
	BlankTitle       = "Screen Guard Blank"
)

// keyQuit is the key that requests quit in any window.
const keyQuit = 'q'

var (
	colorWarning = color.RGBA{R: 255, A: 255}
	colorInfo    = color.RGBA{G: 255, A: 255}
)

// WindowConfig holds presentation settings.
type WindowConfig struct {
	BlankWidth  int     // Black surface width before fullscreen scaling
	BlankHeight int     // Black surface height before fullscreen scaling
	FontScale   float64 // Overlay font scale
	LineHeight  int     // Pixels between overlay baselines
}

// DefaultWindowConfig returns 1080p blanking and the stock overlay font.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		BlankWidth:  1920,
		BlankHeight: 1080,
		FontScale:   0.7,
		LineHeight:  30,
	}
}

// Window presents frames in HighGUI windows and blanks the screen with a
// full-screen black window. It implements session.Presenter.
type Window struct {
	config      WindowConfig
	preview     *gocv.Window
	calibration *gocv.Window
	blank       *gocv.Window
	black       gocv.Mat
	calibrating bool
	quit        bool
	mu          sync.Mutex
}

// NewWindow creates a presenter. Windows are opened on first use.
func NewWindow(cfg WindowConfig) *Window {
	black := gocv.NewMatWithSize(cfg.BlankHeight, cfg.BlankWidth, gocv.MatTypeCV8UC3)
	black.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return &Window{config: cfg, black: black}
}

// ShowCalibration shows a raw frame in the calibration window.
func (w *Window) ShowCalibration(frame detection.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	img, err := toMat(frame)
	if err != nil {
		return err
	}
	defer img.Close()

	if w.calibration == nil {
		w.calibration = gocv.NewWindow(CalibrationTitle)
	}
	w.calibrating = true
	w.calibration.IMShow(img)
	w.pollKey(w.calibration)
	return nil
}

// ShowFrame draws the overlay lines on a copy of frame and shows it.
func (w *Window) ShowFrame(frame detection.Frame, overlays []session.Overlay) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	img, err := toMat(frame)
	if err != nil {
		return err
	}
	defer img.Close()

	w.endCalibration()
	if w.preview == nil {
		w.preview = gocv.NewWindow(PreviewTitle)
	}

	for i, o := range overlays {
		c := colorInfo
		if o.Level == session.OverlayWarning {
			c = colorWarning
		}
		org := image.Pt(10, w.config.LineHeight*(i+1))
		gocv.PutText(&img, o.Text, org, gocv.FontHersheySimplex, w.config.FontScale, c, 2)
	}

	w.preview.IMShow(img)
	w.pollKey(w.preview)
	return nil
}

// Blank opens or closes the full-screen black window.
func (w *Window) Blank(on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !on {
		if w.blank != nil {
			w.blank.Close()
			w.blank = nil
		}
		return nil
	}

	if w.blank == nil {
		w.blank = gocv.NewWindow(BlankTitle)
		w.blank.SetWindowProperty(gocv.WindowPropertyFullscreen, gocv.WindowFullscreen)
	}
	w.blank.IMShow(w.black)
	w.pollKey(w.blank)
	return nil
}

// QuitRequested reports whether q was pressed since the last call.
func (w *Window) QuitRequested() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if win := w.active(); win != nil {
		w.pollKey(win)
	}
	quit := w.quit
	w.quit = false
	return quit
}

// endCalibration closes the calibration window on the first monitored
// frame. A q latched while calibrating only ended calibration, so it is
// cleared here.
func (w *Window) endCalibration() {
	if !w.calibrating {
		return
	}
	if w.calibration != nil {
		w.calibration.Close()
		w.calibration = nil
	}
	w.calibrating = false
	w.quit = false
}

// active returns a window to pump HighGUI events through.
func (w *Window) active() *gocv.Window {
	switch {
	case w.preview != nil:
		return w.preview
	case w.calibration != nil:
		return w.calibration
	default:
		return w.blank
	}
}

// pollKey processes window events and latches a quit key press.
func (w *Window) pollKey(win *gocv.Window) {
	if win.WaitKey(1)&0xFF == keyQuit {
		w.quit = true
	}
}

// Close dismisses every window.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, win := range []**gocv.Window{&w.preview, &w.calibration, &w.blank} {
		if *win != nil {
			(*win).Close()
			*win = nil
		}
	}
	return w.black.Close()
}
