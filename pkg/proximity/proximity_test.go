package proximity

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/teslashibe/screenguard/pkg/detection"
)

func TestMeanArea(t *testing.T) {
	tests := []struct {
		name    string
		samples []Area
		want    float64
		count   int
		wantErr bool
	}{
		{
			name:    "none entries are ignored",
			samples: []Area{AreaOf(100), NoArea, AreaOf(120), NoArea, AreaOf(80)},
			want:    100,
			count:   3,
		},
		{
			name:    "single sample",
			samples: []Area{AreaOf(42)},
			want:    42,
			count:   1,
		},
		{
			name:    "only none",
			samples: []Area{NoArea, NoArea},
			wantErr: true,
		},
		{
			name:    "empty",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := MeanArea(tc.samples)
			if tc.wantErr {
				if !errors.Is(err, ErrCalibration) {
					t.Fatalf("err = %v, want ErrCalibration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Area != tc.want || b.Samples != tc.count {
				t.Errorf("got %+v, want area %v from %d samples", b, tc.want, tc.count)
			}
		})
	}
}

// scriptedSampler returns its readings in order and advances a fake clock
// by step on every call.
type scriptedSampler struct {
	readings []Area
	now      time.Time
	step     time.Duration
	calls    int
	errAt    int
	err      error
}

func (s *scriptedSampler) clock() time.Time { return s.now }

func (s *scriptedSampler) Sample(context.Context) (Area, error) {
	defer func() { s.now = s.now.Add(s.step) }()
	s.calls++
	if s.err != nil && s.calls == s.errAt {
		return NoArea, s.err
	}
	if s.calls > len(s.readings) {
		return NoArea, nil
	}
	return s.readings[s.calls-1], nil
}

func TestCalibrator_TimeWindow(t *testing.T) {
	s := &scriptedSampler{
		readings: []Area{AreaOf(100), NoArea, AreaOf(120), NoArea, AreaOf(80), AreaOf(1e6)},
		now:      t0,
		step:     400 * time.Millisecond,
	}

	// 2s window at 400ms per sample → exactly 5 samples.
	b, err := NewCalibrator(2*time.Second, s.clock).Calibrate(context.Background(), s)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if s.calls != 5 {
		t.Errorf("sampled %d frames, want 5", s.calls)
	}
	if b.Area != 100 || b.Samples != 3 {
		t.Errorf("baseline %+v, want 100 from 3 samples", b)
	}
	if got := b.Threshold(1.2); math.Abs(got-120) > 1e-9 {
		t.Errorf("threshold %v, want 120", got)
	}
}

func TestCalibrator_NoFaceFails(t *testing.T) {
	s := &scriptedSampler{now: t0, step: 100 * time.Millisecond}

	_, err := NewCalibrator(time.Second, s.clock).Calibrate(context.Background(), s)
	if !errors.Is(err, ErrCalibration) {
		t.Fatalf("err = %v, want ErrCalibration", err)
	}
}

func TestCalibrator_EarlyStopKeepsSamples(t *testing.T) {
	s := &scriptedSampler{
		readings: []Area{AreaOf(90), AreaOf(110)},
		now:      t0,
		step:     10 * time.Millisecond,
		errAt:    3,
		err:      ErrStopSampling,
	}

	b, err := NewCalibrator(time.Hour, s.clock).Calibrate(context.Background(), s)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if b.Area != 100 {
		t.Errorf("baseline %v, want 100", b.Area)
	}
}

func TestCalibrator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &scriptedSampler{readings: []Area{AreaOf(1)}, now: t0, step: time.Millisecond}
	_, err := NewCalibrator(time.Second, s.clock).Calibrate(ctx, s)
	if !errors.Is(err, ErrCalibration) {
		t.Fatalf("err = %v, want ErrCalibration", err)
	}
	if s.calls != 0 {
		t.Errorf("sampled %d frames after cancel, want 0", s.calls)
	}
}

func TestCalibrator_DetectorErrorAborts(t *testing.T) {
	boom := &detection.Error{Backend: "mock", Op: detection.OpDetect, Err: errors.New("boom")}
	s := &scriptedSampler{
		readings: []Area{AreaOf(100)},
		now:      t0,
		step:     time.Millisecond,
		errAt:    2,
		err:      boom,
	}

	_, err := NewCalibrator(time.Second, s.clock).Calibrate(context.Background(), s)
	var de *detection.Error
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *detection.Error", err)
	}
}

func TestWindow_EvictsAndZeroFills(t *testing.T) {
	w := NewWindow(3)
	if w.Average() != 0 {
		t.Errorf("empty average %v, want 0", w.Average())
	}

	for _, a := range []Area{AreaOf(10), NoArea, AreaOf(30), AreaOf(40)} {
		w.Push(a)
		if w.Len() > w.Cap() {
			t.Fatalf("window grew to %d past capacity %d", w.Len(), w.Cap())
		}
	}

	if diff := cmp.Diff([]float64{0, 30, 40}, w.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if got := w.Average(); math.Abs(got-70.0/3) > 1e-9 {
		t.Errorf("average %.4f, want 23.33", got)
	}
}

func TestWindow_ValuesIsCopy(t *testing.T) {
	w := NewWindow(2)
	w.Push(AreaOf(5))
	v := w.Values()
	v[0] = 99
	if w.Values()[0] != 5 {
		t.Error("Values should not alias internal storage")
	}
	if NewWindow(0).Cap() != 1 {
		t.Error("capacity should be clamped to 1")
	}
}

func TestExtractor_FirstAboveCutoff(t *testing.T) {
	frame := detection.Frame{Width: 100, Height: 100, Data: make([]byte, 100*100*3)}
	det := detection.NewMock([]detection.Detection{
		{X: 0, Y: 0, W: 0.3, H: 0.3, Confidence: 0.4},
		{X: 0.1, Y: 0.1, W: 0.2, H: 0.1, Confidence: 0.9},
		{X: 0, Y: 0, W: 0.9, H: 0.9, Confidence: 0.3},
	})

	area, err := NewExtractor(det, "mock", 0.5).Extract(frame)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !area.Valid || area.Pixels != 20*10 {
		t.Errorf("area %v, want 200", area)
	}
}

func TestExtractor_NoCandidate(t *testing.T) {
	det := detection.NewMock([]detection.Detection{{W: 1, H: 1, Confidence: 0.5}})

	area, err := NewExtractor(det, "mock", 0.5).Extract(detection.Frame{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if area.Valid {
		t.Errorf("area %v, want none", area)
	}
}

func TestExtractor_DetectorErrorIsFatal(t *testing.T) {
	det := &detection.Mock{DetectFunc: func(detection.Frame) ([]detection.Detection, error) {
		return nil, errors.New("forward failed")
	}}

	_, err := NewExtractor(det, "ssd", 0.5).Extract(detection.Frame{Width: 1, Height: 1})
	var de *detection.Error
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *detection.Error", err)
	}
	if de.Op != detection.OpDetect || de.Backend != "ssd" {
		t.Errorf("got %+v, want ssd detect error", de)
	}
}

func TestArea(t *testing.T) {
	if NoArea.OrZero() != 0 || AreaOf(7).OrZero() != 7 {
		t.Error("OrZero mismatch")
	}
	if NoArea.Exceeds(-1) {
		t.Error("no detection must never exceed")
	}
	if NoArea.String() != "none" || AreaOf(12.4).String() != "12" {
		t.Error("unexpected String output")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Fatalf("defaults invalid: %v", errs)
	}
	if cfg.ThresholdFactor != 1.2 {
		t.Errorf("ThresholdFactor = %v, want 1.2", cfg.ThresholdFactor)
	}
	if cfg.OnsetDelay != 5*time.Second {
		t.Errorf("OnsetDelay = %v, want 5s", cfg.OnsetDelay)
	}
	if cfg.BufferSize != 30 {
		t.Errorf("BufferSize = %v, want 30", cfg.BufferSize)
	}

	cfg.ThresholdFactor = 0
	cfg.BufferSize = 0
	if errs := cfg.Validate(); len(errs) != 2 {
		t.Errorf("expected 2 validation errors, got %v", errs)
	}

	for _, factor := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		cfg := DefaultConfig()
		cfg.ThresholdFactor = factor
		if errs := cfg.Validate(); len(errs) != 1 {
			t.Errorf("factor %v: expected 1 validation error, got %v", factor, errs)
		}
	}

	cfg = DefaultConfig()
	cfg.Confidence = math.NaN()
	if errs := cfg.Validate(); len(errs) != 1 {
		t.Errorf("NaN confidence: expected 1 validation error, got %v", errs)
	}
}
