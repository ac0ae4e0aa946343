// Package popup holds the state machine behind the movie detail popup: the
// drag gesture interpretation, the open/close animation and the controller
// that keeps both consistent with the host's isOpen flag.
//
// Nothing in this package renders. Heights and offsets are expressed in the
// host's vertical units (terminal rows for the TUI) and velocities in screen
// heights per second.
package popup

import (
	"fmt"
	"math"
)

const (
	// DefaultHeightRatio is the share of the screen a freshly opened popup covers.
	DefaultHeightRatio = 0.67
	// FlickVelocity is the absolute vertical velocity above which a drag
	// counts as a flick.
	FlickVelocity = 0.75

	dismissRatio = 0.75
)

// Geometry describes the screen the popup lives on.
type Geometry struct {
	ScreenHeight  float64
	DefaultHeight float64
}

// NewGeometry derives the default popup height from the screen height.
func NewGeometry(screenHeight float64) Geometry {
	if !finite(screenHeight) || screenHeight < 0 {
		screenHeight = 0
	}
	return Geometry{
		ScreenHeight:  screenHeight,
		DefaultHeight: screenHeight * DefaultHeightRatio,
	}
}

// ExpandThreshold is the height above which the popup switches to expanded mode.
func (g Geometry) ExpandThreshold() float64 {
	return g.ScreenHeight - g.ScreenHeight/5
}

func (g Geometry) clamp(height float64) float64 {
	if height < 0 {
		return 0
	}
	if height > g.ScreenHeight {
		return g.ScreenHeight
	}
	return height
}

// Action is the outcome of a single drag sample.
type Action int

const (
	ActionNone Action = iota
	ActionResize
	ActionExpand
	ActionDismiss
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionResize:
		return "resize"
	case ActionExpand:
		return "expand"
	case ActionDismiss:
		return "dismiss"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// DragSample is one pointer-move observation relative to the gesture start.
type DragSample struct {
	DeltaY    float64
	VelocityY float64
}

func (s DragSample) valid() bool {
	return finite(s.DeltaY) && finite(s.VelocityY)
}

// Decision is what the tracker wants done with a sample. Height is only
// meaningful for ActionResize and ActionExpand.
type Decision struct {
	Action   Action
	Height   float64
	Expanded bool
}

// Tracker turns drag samples into resize, expand and dismiss decisions.
// It is stateless; the height at gesture start is passed in by the caller.
type Tracker struct {
	Geometry Geometry
}

// Candidate is the height the popup would have if it followed the pointer.
func Candidate(heightAtStart, deltaY float64) float64 {
	return heightAtStart - deltaY
}

// Move decides what a drag-move sample does to the popup.
func (t Tracker) Move(sample DragSample, heightAtStart float64) Decision {
	if !sample.valid() || !finite(heightAtStart) {
		return Decision{Action: ActionNone}
	}
	g := t.Geometry
	candidate := Candidate(heightAtStart, sample.DeltaY)

	// The expansion test runs first and does not look at velocity.
	expanded := candidate > g.ExpandThreshold()

	switch {
	case sample.VelocityY < -FlickVelocity:
		return Decision{Action: ActionExpand, Height: g.ScreenHeight, Expanded: true}
	case sample.VelocityY > FlickVelocity:
		return Decision{Action: ActionDismiss, Expanded: expanded}
	case candidate < g.DefaultHeight*dismissRatio:
		return Decision{Action: ActionDismiss, Expanded: expanded}
	case candidate > g.ScreenHeight:
		return Decision{Action: ActionResize, Height: g.ScreenHeight, Expanded: expanded}
	default:
		return Decision{Action: ActionResize, Height: g.clamp(candidate), Expanded: expanded}
	}
}

// Release reports whether letting go of the popup at sample should dismiss it.
// A false result means the current height becomes the baseline for the next
// gesture.
func (t Tracker) Release(sample DragSample, heightAtStart float64) bool {
	if !sample.valid() || !finite(heightAtStart) {
		return false
	}
	return Candidate(heightAtStart, sample.DeltaY) < t.Geometry.DefaultHeight
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
