package proximity

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func at(sec float64) time.Time {
	return t0.Add(time.Duration(sec * float64(time.Second)))
}

func TestAlert_SustainedTooCloseBlanks(t *testing.T) {
	a := NewAlert(120, 5*time.Second)

	want := []Phase{
		PhaseWarning, PhaseWarning, PhaseWarning, PhaseWarning, PhaseWarning,
		PhaseBlanked, PhaseBlanked,
	}
	for sec, phase := range want {
		d := a.Step(AreaOf(150), at(float64(sec)))
		if d.State.Phase != phase {
			t.Fatalf("t=%ds: phase %v, want %v", sec, d.State.Phase, phase)
		}
		if !d.State.Since.Equal(t0) {
			t.Errorf("t=%ds: onset time %v, want %v", sec, d.State.Since, t0)
		}
	}
}

func TestAlert_CountdownDirectives(t *testing.T) {
	a := NewAlert(120, 5*time.Second)

	first := a.Step(AreaOf(150), at(0))
	if diff := cmp.Diff([]Directive{
		{Kind: DirectiveOnset},
		{Kind: DirectiveCountdown, Remaining: 5},
	}, first.Directives); diff != "" {
		t.Errorf("onset directives mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		sec       float64
		remaining int
	}{
		{0.5, 5},
		{1, 4},
		{2.2, 3},
		{4.9, 1},
	}
	for _, tc := range tests {
		d := a.Step(AreaOf(150), at(tc.sec))
		dir, ok := d.Has(DirectiveCountdown)
		if !ok {
			t.Fatalf("t=%.1fs: no countdown directive in %v", tc.sec, d.Directives)
		}
		if dir.Remaining != tc.remaining {
			t.Errorf("t=%.1fs: remaining %d, want %d", tc.sec, dir.Remaining, tc.remaining)
		}
		if _, ok := d.Has(DirectiveOnset); ok {
			t.Errorf("t=%.1fs: onset must only be emitted on entry", tc.sec)
		}
	}

	d := a.Step(AreaOf(150), at(5))
	if diff := cmp.Diff([]Directive{{Kind: DirectiveBlank}}, d.Directives); diff != "" {
		t.Errorf("blank directives mismatch (-want +got):\n%s", diff)
	}
}

func TestAlert_RetreatResetsImmediately(t *testing.T) {
	a := NewAlert(120, 5*time.Second)

	areas := []Area{AreaOf(150), AreaOf(150), AreaOf(150), AreaOf(50), AreaOf(150)}
	want := []Phase{PhaseWarning, PhaseWarning, PhaseWarning, PhaseIdle, PhaseWarning}

	for sec, area := range areas {
		d := a.Step(area, at(float64(sec)))
		if d.State.Phase != want[sec] {
			t.Fatalf("t=%ds: phase %v, want %v", sec, d.State.Phase, want[sec])
		}
		if sec == 3 {
			if _, ok := d.Has(DirectiveUnblank); !ok {
				t.Error("retreat should emit unblank")
			}
		}
	}

	// The new episode restarts the timer from t=4.
	if got := a.State().Since; !got.Equal(at(4)) {
		t.Errorf("new onset %v, want %v", got, at(4))
	}
}

func TestAlert_BlankedUnblanksWithoutWarning(t *testing.T) {
	tests := []struct {
		name string
		area Area
	}{
		{"below threshold", AreaOf(100)},
		{"equal to threshold", AreaOf(120)},
		{"face lost", NoArea},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAlert(120, 5*time.Second)
			a.Step(AreaOf(200), at(0))
			a.Step(AreaOf(200), at(6))
			if a.State().Phase != PhaseBlanked {
				t.Fatalf("setup: phase %v, want blanked", a.State().Phase)
			}

			d := a.Step(tc.area, at(7))
			if d.State.Phase != PhaseIdle {
				t.Errorf("phase %v, want idle", d.State.Phase)
			}
			if diff := cmp.Diff([]Directive{{Kind: DirectiveUnblank}}, d.Directives); diff != "" {
				t.Errorf("directives mismatch (-want +got):\n%s", diff)
			}
			if !d.Changed() {
				t.Error("Changed should be true")
			}
		})
	}
}

func TestAlert_BlankedStaysBlanked(t *testing.T) {
	a := NewAlert(120, time.Second)
	a.Step(AreaOf(200), at(0))
	a.Step(AreaOf(200), at(1))

	for sec := 2; sec < 10; sec++ {
		d := a.Step(AreaOf(121), at(float64(sec)))
		if d.State.Phase != PhaseBlanked {
			t.Fatalf("t=%ds: phase %v, want blanked", sec, d.State.Phase)
		}
		if !d.State.Since.Equal(t0) {
			t.Fatalf("t=%ds: onset time moved to %v", sec, d.State.Since)
		}
	}
}

func TestNext_IdleIgnoresNormalFrames(t *testing.T) {
	for _, area := range []Area{NoArea, AreaOf(0), AreaOf(119.9), AreaOf(120)} {
		s, dirs := Next(State{}, area, 120, 5*time.Second, t0)
		if s.Phase != PhaseIdle || len(dirs) != 0 {
			t.Errorf("area %v: got %v %v, want idle with no directives", area, s.Phase, dirs)
		}
	}
}

func TestAlert_Reset(t *testing.T) {
	a := NewAlert(10, time.Second)
	if a.Reset() {
		t.Error("idle alert reported active")
	}
	a.Step(AreaOf(20), t0)
	if !a.Reset() {
		t.Error("warning alert should report active")
	}
	if a.State().Phase != PhaseIdle {
		t.Errorf("phase after reset %v, want idle", a.State().Phase)
	}
}

func TestPhaseAndDirectiveStrings(t *testing.T) {
	if PhaseBlanked.String() != "blanked" || PhaseIdle.String() != "idle" || PhaseWarning.String() != "warning" {
		t.Error("unexpected phase names")
	}
	if DirectiveCountdown.String() != "countdown" || DirectiveKind(99).String() != "unknown" {
		t.Error("unexpected directive names")
	}
}
