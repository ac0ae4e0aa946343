package popup

import "time"

const (
	velocitySmoothing = 0.2
	velocityStaleGap  = 120 * time.Millisecond
	// Motion events queued back to back are never closer than one frame.
	velocityMinStep = FrameInterval
)

// VelocityTracker estimates vertical pointer velocity in screen heights per
// second from a stream of positions. Samples are smoothed exponentially so a
// single jittery motion event does not register as a flick.
type VelocityTracker struct {
	screenHeight float64
	lastY        float64
	lastTime     time.Time
	velocity     float64
}

// NewVelocityTracker starts tracking at position y.
func NewVelocityTracker(screenHeight, y float64, now time.Time) *VelocityTracker {
	return &VelocityTracker{
		screenHeight: screenHeight,
		lastY:        y,
		lastTime:     now,
	}
}

// Add records a new position and returns the updated velocity.
func (v *VelocityTracker) Add(y float64, now time.Time) float64 {
	if v.screenHeight <= 0 {
		v.lastY = y
		v.lastTime = now
		return v.velocity
	}
	dt := max(now.Sub(v.lastTime), velocityMinStep)
	inst := (y - v.lastY) / v.screenHeight / dt.Seconds()
	if dt > velocityStaleGap {
		// The pointer rested; older motion says nothing about this one.
		v.velocity = inst
	} else {
		v.velocity = v.velocity*(1-velocitySmoothing) + inst*velocitySmoothing
	}
	v.lastY = y
	v.lastTime = now
	return v.velocity
}

// Velocity returns the current estimate. Positive values point down.
func (v *VelocityTracker) Velocity() float64 {
	return v.velocity
}
