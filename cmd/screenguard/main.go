// Screen Guard - blanks the screen when you sit too close to it
// Calibrates a face-size baseline from the webcam, then watches for you leaning in
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/screenguard/internal/config"
	"github.com/teslashibe/screenguard/internal/log"
	"github.com/teslashibe/screenguard/pkg/detection"
	"github.com/teslashibe/screenguard/pkg/opencv"
	"github.com/teslashibe/screenguard/pkg/proximity"
	"github.com/teslashibe/screenguard/pkg/session"
	"github.com/teslashibe/screenguard/pkg/web"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := parseFlags()
	log.Init(config.LogLevel())

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Printf("❌ Invalid configuration: %v\n", errs)
		return 1
	}

	detCfg := detection.ForBackend(config.Detector(), config.ModelDir())

	detector, err := opencv.NewDetector(detCfg)
	if err != nil {
		fmt.Printf("❌ Face detector unavailable: %v\n", err)
		return 1
	}
	defer detector.Close()
	fmt.Printf("🧠 Face detector: %s\n", detCfg.Backend)

	camCfg := opencv.DefaultCameraConfig()
	camCfg.Device = config.CameraDevice()
	camera, err := opencv.OpenCamera(camCfg)
	if err != nil {
		fmt.Printf("❌ Camera unavailable: %v\n", err)
		return 1
	}
	fmt.Printf("📷 Camera %d opened\n", camCfg.Device)

	extractor := proximity.NewExtractor(detector, detCfg.Backend, cfg.Confidence)
	presenter := opencv.NewWindow(opencv.DefaultWindowConfig())

	sess, err := session.New(cfg, camera, extractor, presenter)
	if err != nil {
		camera.Close()
		presenter.Close()
		fmt.Printf("❌ Session setup failed: %v\n", err)
		return 1
	}

	if port := config.StatusPort(); port != "" {
		dash := web.NewServer()
		if err := dash.StartAsync(port); err != nil {
			log.Warn("status dashboard disabled", "error", err)
		} else {
			sess.SetStatusSink(dash)
			defer dash.Shutdown()
			fmt.Printf("📊 Status dashboard: http://localhost:%s/api/status\n", port)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("🎯 Calibrating for %s, sit at your normal distance...\n", cfg.CalibrationTime)
	if err := sess.Run(ctx); err != nil {
		log.Error("session failed", "session", sess.ID(), "error", err)
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	fmt.Println("👋 Screen Guard stopped")
	return 0
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() proximity.Config {
	cfg := proximity.DefaultConfig()

	threshold := flag.Float64("threshold", cfg.ThresholdFactor, "Multiplier on the calibrated face area that counts as too close")
	flag.Parse()

	cfg.ThresholdFactor = *threshold
	return cfg
}
