package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/screenguard/internal/log"
	"github.com/teslashibe/screenguard/pkg/detection"
	"github.com/teslashibe/screenguard/pkg/proximity"
)

// Session wires the proximity core to a camera and a screen.
type Session struct {
	id        string
	config    proximity.Config
	source    FrameSource
	extractor *proximity.Extractor
	presenter Presenter
	status    StatusSink
	log       *slog.Logger

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// State
	baseline  proximity.Baseline
	threshold float64
	alert     *proximity.Alert
	window    *proximity.Window
	blanked   bool
	frames    int
	closeOnce sync.Once
	closeErr  error
}

// New creates a session. It takes ownership of source and presenter and
// releases both in Close.
func New(cfg proximity.Config, source FrameSource, extractor *proximity.Extractor, presenter Presenter) (*Session, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %v", errs)
	}
	if source == nil || extractor == nil || presenter == nil {
		return nil, errors.New("session: source, extractor and presenter are required")
	}

	id := uuid.NewString()
	return &Session{
		id:        id,
		config:    cfg,
		source:    source,
		extractor: extractor,
		presenter: presenter,
		log:       log.With("session", id),
		Clock:     time.Now,
		window:    proximity.NewWindow(cfg.BufferSize),
	}, nil
}

// SetStatusSink sets the receiver of per-frame status snapshots
func (s *Session) SetStatusSink(sink StatusSink) {
	s.status = sink
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Baseline returns the calibrated baseline, zero before calibration.
func (s *Session) Baseline() proximity.Baseline { return s.baseline }

// Threshold returns the too-close area, zero before calibration.
func (s *Session) Threshold() float64 { return s.threshold }

// Calibrate blocks for the calibration window and fixes the threshold.
// The user can end the window early with a quit request; the baseline is
// then computed from the frames seen so far.
func (s *Session) Calibrate(ctx context.Context) (proximity.Baseline, error) {
	s.log.Info("calibrating, stay at your normal distance from the screen",
		"duration", s.config.CalibrationTime)

	cal := proximity.NewCalibrator(s.config.CalibrationTime, s.Clock)
	baseline, err := cal.Calibrate(ctx, proximity.SamplerFunc(s.sample))
	if err != nil {
		return proximity.Baseline{}, err
	}

	s.baseline = baseline
	s.threshold = baseline.Threshold(s.config.ThresholdFactor)
	s.alert = proximity.NewAlert(s.threshold, s.config.OnsetDelay)

	s.log.Info("calibration complete",
		"baseline", fmt.Sprintf("%.2f", baseline.Area),
		"samples", baseline.Samples,
		"threshold", fmt.Sprintf("%.2f", s.threshold))
	return baseline, nil
}

// sample acquires and measures one calibration frame.
func (s *Session) sample(ctx context.Context) (proximity.Area, error) {
	if s.presenter.QuitRequested() {
		s.log.Info("calibration ended early by user")
		return proximity.NoArea, proximity.ErrStopSampling
	}

	frame, err := s.source.Next()
	if errors.Is(err, ErrEndOfStream) {
		return proximity.NoArea, proximity.ErrStopSampling
	}
	if err != nil {
		s.log.Debug("calibration frame dropped", "error", err)
		return proximity.NoArea, nil
	}

	area, err := s.extractor.Extract(frame)
	if err != nil {
		return proximity.NoArea, err
	}

	if err := s.presenter.ShowCalibration(frame); err != nil {
		s.log.Warn("calibration preview failed", "error", err)
	}
	return area, nil
}

// Run calibrates if needed, then processes frames until the context is
// cancelled, the user quits or the source runs dry. Those endings return
// nil. Calibration and detector failures are returned. The session is
// closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	if s.alert == nil {
		if _, err := s.Calibrate(ctx); err != nil {
			return err
		}
	}

	s.log.Info("monitoring started",
		"threshold_factor", s.config.ThresholdFactor,
		"onset_delay", s.config.OnsetDelay)

	for {
		if ctx.Err() != nil {
			s.log.Info("monitoring stopped", "reason", "cancelled", "frames", s.frames)
			return nil
		}
		if s.presenter.QuitRequested() {
			s.log.Info("monitoring stopped", "reason", "quit", "frames", s.frames)
			return nil
		}

		frame, err := s.source.Next()
		if err != nil {
			if !errors.Is(err, ErrEndOfStream) {
				s.log.Warn("frame acquisition failed", "error", err)
			}
			s.log.Info("monitoring stopped", "reason", "end of stream", "frames", s.frames)
			return nil
		}

		if _, err := s.Process(frame); err != nil {
			return err
		}
	}
}

// Process runs one frame through extraction, smoothing and the alert
// state machine, and presents the result. It must not be called before
// Calibrate succeeds.
func (s *Session) Process(frame detection.Frame) (Status, error) {
	if s.alert == nil {
		return Status{}, errors.New("session: not calibrated")
	}
	s.frames++

	area, err := s.extractor.Extract(frame)
	if err != nil {
		return Status{}, fmt.Errorf("frame %d: %w", s.frames, err)
	}

	s.window.Push(area)
	now := s.Clock()
	decision := s.alert.Step(area, now)

	st := Status{
		SessionID: s.id,
		Phase:     decision.State.Phase.String(),
		Detected:  area.Valid,
		Area:      area.OrZero(),
		Average:   s.window.Average(),
		Baseline:  s.baseline.Area,
		Threshold: s.threshold,
		Frames:    s.frames,
		Time:      now,
	}

	var overlays []Overlay
	for _, dir := range decision.Directives {
		switch dir.Kind {
		case proximity.DirectiveOnset:
			s.log.Warn("Too close! Move back!", "area", area.String(),
				"threshold", fmt.Sprintf("%.2f", s.threshold))
		case proximity.DirectiveCountdown:
			st.Countdown = dir.Remaining
			overlays = append(overlays, Overlay{
				Text:  fmt.Sprintf("Too close! %ds", dir.Remaining),
				Level: OverlayWarning,
			})
		case proximity.DirectiveBlank:
			s.setBlank(true)
		case proximity.DirectiveUnblank:
			s.setBlank(false)
		}
	}
	overlays = append(overlays, Overlay{
		Text:  fmt.Sprintf("Area: %.2f / %.2f", st.Average, s.threshold),
		Level: OverlayInfo,
	})

	if err := s.presenter.ShowFrame(frame, overlays); err != nil {
		s.log.Warn("preview failed", "error", err)
	}

	if decision.Changed() {
		s.log.Debug("alert phase changed",
			"from", decision.Previous.Phase.String(),
			"to", decision.State.Phase.String())
	}
	if s.status != nil {
		s.status.Publish(st)
	}
	return st, nil
}

// setBlank forwards blank changes to the presenter, skipping repeats.
func (s *Session) setBlank(on bool) {
	if s.blanked == on {
		return
	}
	if err := s.presenter.Blank(on); err != nil {
		s.log.Error("blank surface failed", "on", on, "error", err)
		return
	}
	s.blanked = on
	if on {
		s.log.Warn("screen blanked")
	} else {
		s.log.Info("screen restored")
	}
}

// Close clears any blank, then releases the frame source and the presenter.
// It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.blanked {
			if err := s.presenter.Blank(false); err != nil {
				errs = append(errs, fmt.Errorf("unblank: %w", err))
			}
			s.blanked = false
		}
		if s.alert != nil {
			s.alert.Reset()
		}
		if err := s.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close source: %w", err))
		}
		if err := s.presenter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close presenter: %w", err))
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
