// Package config provides environment helpers for the screenguard command.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Default deployment settings.
const (
	DefaultCameraDevice = 0
	DefaultDetector     = "ssd"
	DefaultModelDir     = "models"
	DefaultLogLevel     = "info"
)

// Environment variable names.
const (
	EnvCamera     = "SCREENGUARD_CAMERA"
	EnvDetector   = "SCREENGUARD_DETECTOR"
	EnvModelDir   = "SCREENGUARD_MODEL_DIR"
	EnvStatusPort = "SCREENGUARD_STATUS_PORT"
	EnvLogLevel   = "LOG_LEVEL"
)

// CameraDevice returns the webcam index from SCREENGUARD_CAMERA.
// Falls back to the default device if unset or not a number.
func CameraDevice() int {
	v := strings.TrimSpace(os.Getenv(EnvCamera))
	if v == "" {
		return DefaultCameraDevice
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return DefaultCameraDevice
	}
	return n
}

// Detector returns the detector backend name from SCREENGUARD_DETECTOR.
func Detector() string {
	if d := strings.ToLower(strings.TrimSpace(os.Getenv(EnvDetector))); d != "" {
		return d
	}
	return DefaultDetector
}

// ModelDir returns the model directory from SCREENGUARD_MODEL_DIR.
func ModelDir() string {
	if dir := os.Getenv(EnvModelDir); dir != "" {
		return dir
	}
	return DefaultModelDir
}

// StatusPort returns the dashboard port from SCREENGUARD_STATUS_PORT.
// An empty result means the dashboard is disabled.
func StatusPort() string {
	return strings.TrimSpace(os.Getenv(EnvStatusPort))
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel() string {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}
