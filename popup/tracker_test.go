package popup

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phoneTracker() Tracker {
	return Tracker{Geometry: Geometry{ScreenHeight: 800, DefaultHeight: 536}}
}

func TestNewGeometry_DefaultHeightIsTwoThirds(t *testing.T) {
	g := NewGeometry(800)
	assert.InDelta(t, 536, g.DefaultHeight, 1e-9)
	assert.InDelta(t, 640, g.ExpandThreshold(), 1e-9)

	assert.Equal(t, Geometry{}, NewGeometry(math.NaN()))
	assert.Equal(t, Geometry{}, NewGeometry(-10))
}

func TestCandidate_IsStartMinusDelta(t *testing.T) {
	for _, start := range []float64{0, 100, 536, 800} {
		for _, delta := range []float64{-300, -1, 0, 1, 250} {
			assert.Equal(t, start-delta, Candidate(start, delta))
		}
	}
}

func TestMove_DragBelowDismissThreshold(t *testing.T) {
	d := phoneTracker().Move(DragSample{DeltaY: 250, VelocityY: 0.1}, 536)
	assert.Equal(t, ActionDismiss, d.Action)
	assert.False(t, d.Expanded)
}

func TestMove_DragUpFollowsPointer(t *testing.T) {
	d := phoneTracker().Move(DragSample{DeltaY: -260, VelocityY: 0.1}, 536)
	require.Equal(t, ActionResize, d.Action)
	assert.Equal(t, 796.0, d.Height)
	// 796 is above the 640 expansion threshold.
	assert.True(t, d.Expanded)
}

func TestMove_BelowExpandThresholdStaysCompact(t *testing.T) {
	d := phoneTracker().Move(DragSample{DeltaY: -50, VelocityY: 0}, 536)
	require.Equal(t, ActionResize, d.Action)
	assert.Equal(t, 586.0, d.Height)
	assert.False(t, d.Expanded)
}

func TestMove_UpwardFlickSnapsToFullHeight(t *testing.T) {
	tracker := phoneTracker()
	for _, delta := range []float64{0, 300, -300, 1000} {
		d := tracker.Move(DragSample{DeltaY: delta, VelocityY: -1.0}, 536)
		assert.Equal(t, ActionExpand, d.Action, "delta %v", delta)
		assert.Equal(t, 800.0, d.Height, "delta %v", delta)
		assert.True(t, d.Expanded, "delta %v", delta)
	}
}

func TestMove_DownwardFlickDismisses(t *testing.T) {
	tracker := phoneTracker()
	for _, delta := range []float64{-200, 0, 10} {
		d := tracker.Move(DragSample{DeltaY: delta, VelocityY: 0.9}, 536)
		assert.Equal(t, ActionDismiss, d.Action, "delta %v", delta)
		assert.Zero(t, d.Height, "dismiss carries no height")
	}
}

func TestMove_FlickThresholdIsExclusive(t *testing.T) {
	tracker := phoneTracker()
	assert.Equal(t, ActionResize, tracker.Move(DragSample{DeltaY: -10, VelocityY: -0.75}, 536).Action)
	assert.Equal(t, ActionResize, tracker.Move(DragSample{DeltaY: -10, VelocityY: 0.75}, 536).Action)
}

func TestMove_ClampsToScreen(t *testing.T) {
	d := phoneTracker().Move(DragSample{DeltaY: -400, VelocityY: 0.2}, 536)
	require.Equal(t, ActionResize, d.Action)
	assert.Equal(t, 800.0, d.Height)
	assert.True(t, d.Expanded)
}

func TestMove_SlowDragInRangeFollowsCandidate(t *testing.T) {
	tracker := phoneTracker()
	for candidate := 403.0; candidate < 800; candidate += 37 {
		for _, v := range []float64{-0.75, -0.3, 0, 0.5, 0.75} {
			d := tracker.Move(DragSample{DeltaY: 536 - candidate, VelocityY: v}, 536)
			require.Equal(t, ActionResize, d.Action)
			assert.Equal(t, candidate, d.Height)
			assert.Equal(t, candidate > 640, d.Expanded)
		}
	}
}

func TestMove_NonFiniteSampleIsIgnored(t *testing.T) {
	tracker := phoneTracker()
	samples := []DragSample{
		{DeltaY: math.NaN(), VelocityY: 0},
		{DeltaY: 10, VelocityY: math.NaN()},
		{DeltaY: math.Inf(1), VelocityY: 0},
		{DeltaY: 0, VelocityY: math.Inf(-1)},
	}
	for _, s := range samples {
		assert.Equal(t, Decision{Action: ActionNone}, tracker.Move(s, 536))
		assert.False(t, tracker.Release(s, 536))
	}
}

func TestRelease_BelowDefaultDismisses(t *testing.T) {
	tracker := phoneTracker()
	assert.True(t, tracker.Release(DragSample{DeltaY: 1}, 536))
	assert.False(t, tracker.Release(DragSample{DeltaY: 0}, 536))
	assert.False(t, tracker.Release(DragSample{DeltaY: -100}, 536))
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "dismiss", ActionDismiss.String())
	assert.Equal(t, "Action(9)", Action(9).String())
}
