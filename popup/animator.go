package popup

import (
	"fmt"
	"time"
)

const (
	// OpenOpacity is the backdrop opacity of a fully open popup.
	OpenOpacity = 0.5
	// DefaultDuration is how long an open or close transition takes.
	DefaultDuration = 300 * time.Millisecond
)

// Transition identifies the animation in flight.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionOpen
	TransitionClose
)

func (t Transition) String() string {
	switch t {
	case TransitionNone:
		return "none"
	case TransitionOpen:
		return "open"
	case TransitionClose:
		return "close"
	default:
		return fmt.Sprintf("Transition(%d)", int(t))
	}
}

type tween struct {
	from float64
	to   float64
}

func (t tween) at(progress float64) float64 {
	return t.from + (t.to-t.from)*progress
}

// Animator drives backdrop opacity and vertical offset together. Both values
// share one start time, one duration and one completion callback, so they
// always land on their targets in the same Step.
type Animator struct {
	Duration time.Duration
	Curve    Curve

	screenHeight float64
	opacity      float64
	offset       float64

	opacityTween tween
	offsetTween  tween
	start        time.Time
	running      Transition
	onDone       func()
}

// NewAnimator returns an animator resting in the closed position.
func NewAnimator(duration time.Duration, screenHeight float64) *Animator {
	return &Animator{
		Duration:     duration,
		Curve:        EaseInOut,
		screenHeight: screenHeight,
		offset:       screenHeight,
	}
}

// Open slides the popup to the top offset and fades the backdrop in.
func (a *Animator) Open(now time.Time, onDone func()) {
	a.animate(TransitionOpen, OpenOpacity, 0, now, onDone)
}

// Close slides the popup below the screen and fades the backdrop out.
func (a *Animator) Close(now time.Time, onDone func()) {
	a.animate(TransitionClose, 0, a.screenHeight, now, onDone)
}

// animate retargets from the current values. A callback belonging to a
// superseded transition is dropped without being called.
func (a *Animator) animate(tr Transition, opacity, offset float64, now time.Time, onDone func()) {
	a.opacityTween = tween{from: a.opacity, to: opacity}
	a.offsetTween = tween{from: a.offset, to: offset}
	a.start = now
	a.running = tr
	a.onDone = onDone
}

// Step advances the animation to now. It reports whether a transition is
// still running afterwards.
func (a *Animator) Step(now time.Time) bool {
	if a.running == TransitionNone {
		return false
	}
	progress := 1.0
	if a.Duration > 0 {
		progress = float64(now.Sub(a.start)) / float64(a.Duration)
	}
	if progress < 0 {
		progress = 0
	}
	if progress < 1 {
		eased := progress
		if a.Curve != nil {
			eased = a.Curve(progress)
		}
		a.opacity = a.opacityTween.at(eased)
		a.offset = a.offsetTween.at(eased)
		return true
	}

	a.opacity = a.opacityTween.to
	a.offset = a.offsetTween.to
	done := a.onDone
	a.onDone = nil
	a.running = TransitionNone
	if done != nil {
		done()
	}
	return false
}

// SetScreenHeight adapts the closed offset to a new screen size.
func (a *Animator) SetScreenHeight(height float64) {
	prev := a.screenHeight
	a.screenHeight = height
	switch a.running {
	case TransitionClose:
		a.offsetTween.to = height
	case TransitionNone:
		if a.offset == prev && a.opacity == 0 {
			a.offset = height
		}
	}
}

// Opacity is the current backdrop opacity.
func (a *Animator) Opacity() float64 { return a.opacity }

// Offset is the current distance of the popup below its resting position.
func (a *Animator) Offset() float64 { return a.offset }

// Running returns the transition in flight, if any.
func (a *Animator) Running() Transition { return a.running }
