package proximity

import (
	"math"
	"time"
)

// Phase is the alert lifecycle stage
type Phase int

const (
	// PhaseIdle means the user is at a normal distance.
	PhaseIdle Phase = iota
	// PhaseWarning means the user is too close and the countdown runs.
	PhaseWarning
	// PhaseBlanked means the countdown expired and the screen is blank.
	PhaseBlanked
)

func (p Phase) String() string {
	switch p {
	case PhaseWarning:
		return "warning"
	case PhaseBlanked:
		return "blanked"
	default:
		return "idle"
	}
}

// State is the alert state. Since is the onset time of the current
// too-close episode and is zero while idle.
type State struct {
	Phase Phase
	Since time.Time
}

// DirectiveKind identifies a presentation intent
type DirectiveKind int

const (
	// DirectiveOnset is emitted once when a too-close episode starts.
	DirectiveOnset DirectiveKind = iota
	// DirectiveCountdown asks for the countdown overlay.
	DirectiveCountdown
	// DirectiveBlank asks for the screen to be blanked.
	DirectiveBlank
	// DirectiveUnblank asks for any blank or countdown to be cleared.
	DirectiveUnblank
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveOnset:
		return "onset"
	case DirectiveCountdown:
		return "countdown"
	case DirectiveBlank:
		return "blank"
	case DirectiveUnblank:
		return "unblank"
	default:
		return "unknown"
	}
}

// Directive is a presentation intent produced by a state transition.
type Directive struct {
	Kind DirectiveKind

	// Remaining is the whole seconds left before blanking, rounded up.
	// Only set for DirectiveCountdown.
	Remaining int
}

// Next is the alert transition function. It has no side effects: given the
// current state, this frame's area, the threshold area, the onset delay and
// the current time it returns the new state and the directives to present.
//
// Any frame that is not too close (including no detection) returns to idle
// immediately, whatever the elapsed time.
func Next(s State, area Area, threshold float64, onsetDelay time.Duration, now time.Time) (State, []Directive) {
	tooClose := area.Exceeds(threshold)

	switch s.Phase {
	case PhaseIdle:
		if !tooClose {
			return s, nil
		}
		return State{Phase: PhaseWarning, Since: now}, []Directive{
			{Kind: DirectiveOnset},
			{Kind: DirectiveCountdown, Remaining: remaining(onsetDelay, 0)},
		}

	case PhaseWarning:
		if !tooClose {
			return State{Phase: PhaseIdle}, []Directive{{Kind: DirectiveUnblank}}
		}
		elapsed := now.Sub(s.Since)
		if elapsed < onsetDelay {
			return s, []Directive{{Kind: DirectiveCountdown, Remaining: remaining(onsetDelay, elapsed)}}
		}
		return State{Phase: PhaseBlanked, Since: s.Since}, []Directive{{Kind: DirectiveBlank}}

	case PhaseBlanked:
		if !tooClose {
			return State{Phase: PhaseIdle}, []Directive{{Kind: DirectiveUnblank}}
		}
		return s, []Directive{{Kind: DirectiveBlank}}
	}

	return State{Phase: PhaseIdle}, nil
}

func remaining(delay, elapsed time.Duration) int {
	return int(math.Ceil((delay - elapsed).Seconds()))
}

// Decision is the outcome of one Alert step.
type Decision struct {
	State      State
	Previous   State
	Directives []Directive
}

// Changed reports whether the step moved to a different phase.
func (d Decision) Changed() bool {
	return d.State.Phase != d.Previous.Phase
}

// Has reports whether the step emitted a directive of kind k.
func (d Decision) Has(k DirectiveKind) (Directive, bool) {
	for _, dir := range d.Directives {
		if dir.Kind == k {
			return dir, true
		}
	}
	return Directive{}, false
}

// Alert owns the alert state for one session.
type Alert struct {
	threshold  float64
	onsetDelay time.Duration
	state      State
}

// NewAlert creates an idle alert for threshold and onset delay.
func NewAlert(threshold float64, onsetDelay time.Duration) *Alert {
	return &Alert{threshold: threshold, onsetDelay: onsetDelay}
}

// Step advances the alert by one frame.
func (a *Alert) Step(area Area, now time.Time) Decision {
	prev := a.state
	next, dirs := Next(prev, area, a.threshold, a.onsetDelay, now)
	a.state = next
	return Decision{State: next, Previous: prev, Directives: dirs}
}

// State returns the current state.
func (a *Alert) State() State { return a.state }

// Threshold returns the too-close area.
func (a *Alert) Threshold() float64 { return a.threshold }

// Reset returns the alert to idle and reports whether it had been active.
func (a *Alert) Reset() bool {
	active := a.state.Phase != PhaseIdle
	a.state = State{}
	return active
}
