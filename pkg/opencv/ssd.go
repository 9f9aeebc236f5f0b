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

// ssdMean is the per-channel BGR mean subtracted by the res10 face model.
var ssdMean = gocv.NewScalar(104.0, 177.0, 123.0, 0)

// SSDDetector runs the res10 300x300 Caffe SSD face model
type SSDDetector struct {
	net    gocv.Net
	config detection.Config
	mu     sync.Mutex // Protects inference
}

// NewSSD loads the Caffe SSD face model
func NewSSD(cfg detection.Config) (*SSDDetector, error) {
	for _, path := range []string{cfg.ConfigPath, cfg.ModelPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, detection.WrapError(detection.BackendSSD, detection.OpInit,
				fmt.Errorf("%w: %s", detection.ErrModelNotFound, path))
		}
	}

	net := gocv.ReadNetFromCaffe(cfg.ConfigPath, cfg.ModelPath)
	if net.Empty() {
		return nil, detection.WrapError(detection.BackendSSD, detection.OpInit,
			fmt.Errorf("%w: %s", detection.ErrModelLoad, cfg.ModelPath))
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &SSDDetector{net: net, config: cfg}, nil
}

// Detect returns every candidate the network reports, in output order,
// with normalized boxes. Filtering by confidence is left to the caller.
func (d *SSDDetector) Detect(frame detection.Frame) ([]detection.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := toMat(frame)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	size := image.Pt(d.config.InputWidth, d.config.InputHeight)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, size, 0, 0, gocv.InterpolationLinear)

	blob := gocv.BlobFromImage(resized, 1.0, size, ssdMean, false, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	// Output shape: [1, 1, N, 7]
	// 7 = image id, class id, confidence, x1, y1, x2, y2 (normalized)
	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read ssd output: %w", err)
	}

	dets := parseSSD(data)
	if len(dets) > 0 {
		log.Debug("ssd candidates", "count", len(dets))
	}
	return dets, nil
}

// parseSSD converts the flat SSD output into detections, keeping order.
func parseSSD(data []float32) []detection.Detection {
	var dets []detection.Detection
	for i := 0; i+6 < len(data); i += 7 {
		x1, y1 := float64(data[i+3]), float64(data[i+4])
		x2, y2 := float64(data[i+5]), float64(data[i+6])
		dets = append(dets, detection.Detection{
			X:          x1,
			Y:          y1,
			W:          x2 - x1,
			H:          y2 - y1,
			Confidence: float64(data[i+2]),
		})
	}
	return dets
}

// Close releases the network
func (d *SSDDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
