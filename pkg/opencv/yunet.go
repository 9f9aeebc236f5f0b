package opencv

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/teslashibe/screenguard/internal/log"
	"github.com/teslashibe/screenguard/pkg/detection"
	"gocv.io/x/gocv"
)

// YuNetDetector uses OpenCV's FaceDetectorYN for face detection
type YuNetDetector struct {
	detector gocv.FaceDetectorYN
	config   detection.Config
	mu       sync.Mutex // Protects inference
}

// NewYuNet creates a new YuNet face detector using GoCV's built-in FaceDetectorYN
func NewYuNet(cfg detection.Config) (*YuNetDetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, detection.WrapError(detection.BackendYuNet, detection.OpInit,
			fmt.Errorf("%w: %s", detection.ErrModelNotFound, cfg.ModelPath))
	}

	// Score threshold 0: callers apply their own cutoff.
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",                                        // No config file needed for ONNX
		image.Pt(cfg.InputWidth, cfg.InputHeight), // Initial input size
		0,                                         // Score threshold
		0.3,                                       // NMS threshold
		5000,                                      // Top K
		int(gocv.NetBackendDefault),               // Backend
		int(gocv.NetTargetCPU),                    // Target
	)

	return &YuNetDetector{
		detector: detector,
		config:   cfg,
	}, nil
}

// Detect finds faces in the frame
func (d *YuNetDetector) Detect(frame detection.Frame) ([]detection.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := toMat(frame)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	imgW := float64(img.Cols())
	imgH := float64(img.Rows())

	// Update detector input size to match image
	d.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()

	d.detector.Detect(img, &faces)

	var detections []detection.Detection
	for r := 0; r < faces.Rows(); r++ {
		// YuNet output format (15 columns):
		// 0-3: x, y, w, h (bounding box in pixels)
		// 4-13: 5 facial landmarks (x,y pairs)
		// 14: face score
		detections = append(detections, detection.Detection{
			X:          float64(faces.GetFloatAt(r, 0)) / imgW,
			Y:          float64(faces.GetFloatAt(r, 1)) / imgH,
			W:          float64(faces.GetFloatAt(r, 2)) / imgW,
			H:          float64(faces.GetFloatAt(r, 3)) / imgH,
			Confidence: float64(faces.GetFloatAt(r, 14)),
		})
	}

	if len(detections) > 0 {
		log.Debug("yunet candidates", "count", len(detections))
	}
	return detections, nil
}

// Close releases the detector resources
func (d *YuNetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}

// NewDetector builds the backend named in cfg.
func NewDetector(cfg detection.Config) (detection.Detector, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, detection.WrapError(cfg.Backend, detection.OpInit,
			fmt.Errorf("validation failed: %v", errs))
	}

	switch cfg.Backend {
	case detection.BackendYuNet:
		d, err := NewYuNet(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		d, err := NewSSD(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
