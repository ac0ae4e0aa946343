package popup

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	// FrameRate is the rate at which hosts are expected to call Tick.
	FrameRate = 60
	// FrameInterval is the delay between two Tick calls.
	FrameInterval = time.Second / FrameRate

	springFrequency = 12.0
	springDamping   = 1.0
	settleEpsilon   = 0.01
)

// Phase is the lifecycle position of the popup.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpening
	PhaseOpen
	PhaseClosing
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseOpening:
		return "opening"
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// VisualState is everything a view needs to draw the popup.
type VisualState struct {
	Height   float64
	Expanded bool
	Visible  bool
	Opacity  float64
	Offset   float64
}

// Callbacks are the host notifications. Any of them may be nil.
type Callbacks struct {
	OnClose      func()
	OnBook       func()
	OnChooseDay  func(index int)
	OnChooseTime func(index int)
}

// Options configures a Controller.
type Options struct {
	ScreenHeight float64
	Duration     time.Duration
	Now          func() time.Time
	Callbacks    Callbacks
}

// session lives from drag start to drag end or termination.
type session struct {
	heightAtStart float64
	active        bool
}

// Controller owns the popup VisualState. Gesture decisions and animation
// frames are applied here and nowhere else. Dismissals are routed through
// Callbacks.OnClose; the host answers by flipping isOpen, which starts the
// closing animation.
type Controller struct {
	tracker   Tracker
	animator  *Animator
	now       func() time.Time
	callbacks Callbacks

	state   VisualState
	isOpen  bool
	session *session

	spring          harmonica.Spring
	displayHeight   float64
	displayVelocity float64

	listeners      map[int]func(VisualState)
	nextListenerID int
	published      VisualState
}

// NewController returns a closed popup sized for opts.ScreenHeight.
func NewController(opts Options) *Controller {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	geometry := NewGeometry(opts.ScreenHeight)
	c := &Controller{
		tracker:   Tracker{Geometry: geometry},
		animator:  NewAnimator(opts.Duration, geometry.ScreenHeight),
		now:       opts.Now,
		callbacks: opts.Callbacks,
		spring:    harmonica.NewSpring(harmonica.FPS(FrameRate), springFrequency, springDamping),
		listeners: make(map[int]func(VisualState)),
	}
	c.state = VisualState{
		Height: geometry.DefaultHeight,
		Offset: c.animator.Offset(),
	}
	c.displayHeight = c.state.Height
	c.published = c.state
	return c
}

// State returns a copy of the current visual state.
func (c *Controller) State() VisualState { return c.state }

// Geometry returns the screen geometry in use.
func (c *Controller) Geometry() Geometry { return c.tracker.Geometry }

// DisplayHeight is the eased height to draw; it trails State().Height.
func (c *Controller) DisplayHeight() float64 { return c.displayHeight }

// Phase derives the lifecycle position from the animator and visibility.
func (c *Controller) Phase() Phase {
	switch c.animator.Running() {
	case TransitionOpen:
		return PhaseOpening
	case TransitionClose:
		return PhaseClosing
	}
	if c.state.Visible {
		return PhaseOpen
	}
	return PhaseClosed
}

// Dragging reports whether a gesture session is live.
func (c *Controller) Dragging() bool { return c.session != nil }

// Animating reports whether the host should keep calling Tick.
func (c *Controller) Animating() bool {
	return c.animator.Running() != TransitionNone || !c.settled()
}

// Subscribe registers fn to be called with every published state change.
// It returns a function that removes the subscription.
func (c *Controller) Subscribe(fn func(VisualState)) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// OnIsOpenChanged reacts to the host's isOpen flag. Equal values are a no-op.
func (c *Controller) OnIsOpenChanged(prev, next bool) {
	if prev == next {
		return
	}
	c.isOpen = next
	if next {
		// Content must exist before it becomes perceptible.
		c.state.Visible = true
		c.publish()
		c.animator.Open(c.now(), nil)
	} else {
		// A programmatic close wins over a drag in progress.
		c.session = nil
		c.animator.Close(c.now(), c.resetAfterClose)
	}
	c.syncAnimated()
	c.publish()
}

// OnDragStart opens a gesture session when the popup can be dragged.
func (c *Controller) OnDragStart() {
	if !c.isOpen || !c.state.Visible {
		return
	}
	c.session = &session{heightAtStart: c.state.Height}
}

// OnDragMove applies one drag sample. Samples without vertical displacement
// are ignored until the gesture has moved, so taps never resize.
func (c *Controller) OnDragMove(sample DragSample) {
	s := c.session
	if s == nil {
		return
	}
	if !s.active {
		if sample.DeltaY == 0 {
			return
		}
		s.active = true
	}
	c.apply(c.tracker.Move(sample, s.heightAtStart))
}

// OnDragEnd finishes the gesture: dismiss when released below the default
// height, otherwise keep the current height as the next baseline.
func (c *Controller) OnDragEnd(sample DragSample) {
	s := c.session
	c.session = nil
	if s == nil || !s.active {
		return
	}
	if c.tracker.Release(sample, s.heightAtStart) {
		c.notifyClose()
	}
}

// OnDragTerminate drops the gesture without a release decision.
func (c *Controller) OnDragTerminate() {
	c.session = nil
}

// Tick advances animations to the controller clock.
func (c *Controller) Tick() {
	c.animator.Step(c.now())
	c.syncAnimated()
	if !c.settled() {
		c.displayHeight, c.displayVelocity = c.spring.Update(c.displayHeight, c.displayVelocity, c.state.Height)
		if c.settled() {
			c.displayHeight = c.state.Height
			c.displayVelocity = 0
		}
	}
	c.publish()
}

// Resize adapts the popup to a new screen height.
func (c *Controller) Resize(screenHeight float64) {
	geometry := NewGeometry(screenHeight)
	c.tracker.Geometry = geometry
	c.animator.SetScreenHeight(geometry.ScreenHeight)
	if c.state.Visible {
		c.state.Height = geometry.clamp(c.state.Height)
		c.state.Expanded = c.state.Height > geometry.ExpandThreshold()
	} else {
		c.state.Height = geometry.DefaultHeight
	}
	c.displayHeight = geometry.clamp(c.displayHeight)
	c.session = nil
	c.syncAnimated()
	c.publish()
}

// Backdrop handles a tap outside the popup.
func (c *Controller) Backdrop() {
	if c.state.Visible {
		c.notifyClose()
	}
}

// ChooseDay forwards a day selection.
func (c *Controller) ChooseDay(index int) {
	if c.state.Visible && index >= 0 && c.callbacks.OnChooseDay != nil {
		c.callbacks.OnChooseDay(index)
	}
}

// ChooseTime forwards a showtime selection.
func (c *Controller) ChooseTime(index int) {
	if c.state.Visible && index >= 0 && c.callbacks.OnChooseTime != nil {
		c.callbacks.OnChooseTime(index)
	}
}

// Book forwards a booking request.
func (c *Controller) Book() {
	if c.state.Visible && c.callbacks.OnBook != nil {
		c.callbacks.OnBook()
	}
}

func (c *Controller) apply(d Decision) {
	switch d.Action {
	case ActionNone:
		return
	case ActionDismiss:
		c.state.Expanded = d.Expanded
		c.publish()
		// The close callback takes over; later samples of this gesture are moot.
		c.session = nil
		c.notifyClose()
	case ActionResize, ActionExpand:
		c.state.Expanded = d.Expanded
		c.state.Height = c.tracker.Geometry.clamp(d.Height)
		c.publish()
	}
}

func (c *Controller) resetAfterClose() {
	c.state.Height = c.tracker.Geometry.DefaultHeight
	c.state.Expanded = false
	c.state.Visible = false
	c.displayHeight = c.state.Height
	c.displayVelocity = 0
}

func (c *Controller) notifyClose() {
	if c.callbacks.OnClose != nil {
		c.callbacks.OnClose()
	}
}

func (c *Controller) syncAnimated() {
	c.state.Opacity = c.animator.Opacity()
	c.state.Offset = c.animator.Offset()
}

func (c *Controller) settled() bool {
	return math.Abs(c.displayHeight-c.state.Height) < settleEpsilon &&
		math.Abs(c.displayVelocity) < settleEpsilon
}

func (c *Controller) publish() {
	if c.state == c.published {
		return
	}
	c.published = c.state
	for _, listener := range c.listeners {
		listener(c.state)
	}
}
