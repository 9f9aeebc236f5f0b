package detection

import "path/filepath"

// Backend names accepted by Config.Backend
const (
	BackendSSD   = "ssd"
	BackendYuNet = "yunet"
)

// Config holds detector configuration
type Config struct {
	Backend     string // "ssd" or "yunet"
	ModelPath   string // Weights (.caffemodel or .onnx)
	ConfigPath  string // Network description (.prototxt), SSD only
	InputWidth  int    // Model input width
	InputHeight int    // Model input height
}

// DefaultConfig returns the res10 SSD face model defaults
func DefaultConfig() Config {
	return ForBackend(BackendSSD, "models")
}

// ForBackend returns defaults for the named backend with model files
// resolved under dir. An empty name selects SSD. Unknown names are kept so
// Validate rejects them.
func ForBackend(backend, dir string) Config {
	switch backend {
	case BackendYuNet:
		return Config{
			Backend:     BackendYuNet,
			ModelPath:   filepath.Join(dir, "face_detection_yunet.onnx"),
			InputWidth:  320,
			InputHeight: 320,
		}
	case BackendSSD, "":
		return Config{
			Backend:     BackendSSD,
			ModelPath:   filepath.Join(dir, "res10_300x300_ssd_iter_140000.caffemodel"),
			ConfigPath:  filepath.Join(dir, "deploy.prototxt"),
			InputWidth:  300,
			InputHeight: 300,
		}
	default:
		return Config{Backend: backend}
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Backend != BackendSSD && c.Backend != BackendYuNet {
		errors = append(errors, "backend must be ssd or yunet")
	}
	if c.ModelPath == "" {
		errors = append(errors, "model_path is required")
	}
	if c.Backend == BackendSSD && c.ConfigPath == "" {
		errors = append(errors, "config_path is required for ssd")
	}
	if c.InputWidth <= 0 || c.InputHeight <= 0 {
		errors = append(errors, "input size must be positive")
	}

	return errors
}
