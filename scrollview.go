package bough

import (
	"math"
	"time"
)

// ScrollState is the motion state of a ScrollView.
type ScrollState uint8

const (
	ScrollIdle         ScrollState = iota // at rest
	ScrollDragging                        // a touch is moving the content
	ScrollDecelerating                    // coasting toward the target offset
)

// String returns the state name.
func (s ScrollState) String() string {
	switch s {
	case ScrollIdle:
		return "idle"
	case ScrollDragging:
		return "dragging"
	case ScrollDecelerating:
		return "decelerating"
	default:
		return "unknown"
	}
}

var defaultScrollConfig = DefaultScrollConfig()

// SetDefaultScrollConfig sets the configuration used by scroll views created
// afterwards. Panics if cfg is invalid.
func SetDefaultScrollConfig(cfg ScrollConfig) {
	if err := cfg.Validate(); err != nil {
		panic("bough: " + err.Error())
	}
	defaultScrollConfig = cfg
}

// decelerationPolicy supplies the rectangle deceleration converges into.
// PagingScrollView replaces the free-scroll boundaries with its page target.
type decelerationPolicy interface {
	decelerationBoundaries() Rect
}

type swipeSample struct {
	pos  Vec2
	time time.Duration
}

// ScrollView clips a content view and moves it with inertial scrolling.
// Dragging past the content edges stretches (rubber band); releasing starts
// a deceleration that coasts under friction and springs back inside the
// boundaries.
type ScrollView struct {
	*View

	// DidScroll fires with the new content offset every time it changes.
	DidScroll Signal[Vec2]
	// DidEndDragging fires with the swipe velocity when the touch ends.
	DidEndDragging Signal[Vec2]
	// DidEndDecelerating fires with the final offset once motion stops,
	// always after the last DidScroll.
	DidEndDecelerating Signal[Vec2]

	content *View
	cfg     ScrollConfig
	policy  decelerationPolicy

	offset       AnimVec2
	targetOffset Vec2
	velocity     Vec2
	state        ScrollState

	scrollEnabled     bool
	horizontalEnabled bool
	verticalEnabled   bool

	touchID          TouchID
	lastTouchPos     Vec2
	samples          []swipeSample
	wasDecelerating  bool
	dragStartOffset  Vec2
	animatingToRest  bool
}

// NewScrollView creates a scroll view with an empty content view. Content
// is added to ContentView and sized with SetContentSize.
func NewScrollView(name string) *ScrollView {
	s := &ScrollView{
		View:              NewView(name),
		cfg:               defaultScrollConfig,
		scrollEnabled:     true,
		horizontalEnabled: true,
		verticalEnabled:   true,
	}
	s.policy = s
	s.content = NewView(name + ".content")
	s.AddSubview(s.content)
	s.SetClipEnabled(true)
	s.SetBehavior(s)
	return s
}

// ContentView returns the view that holds the scrolled content.
func (s *ScrollView) ContentView() *View {
	return s.content
}

// SetContentSize sets the size of the content view.
func (s *ScrollView) SetContentSize(size Size) {
	s.content.SetSize(size)
	s.SetNeedsLayout()
}

// ContentSize returns the size of the content view.
func (s *ScrollView) ContentSize() Size {
	return s.content.Size()
}

// Config returns the physics configuration.
func (s *ScrollView) Config() ScrollConfig {
	return s.cfg
}

// SetConfig replaces the physics configuration. Panics if cfg is invalid.
func (s *ScrollView) SetConfig(cfg ScrollConfig) {
	if err := cfg.Validate(); err != nil {
		panic("bough: " + err.Error())
	}
	s.cfg = cfg
}

// SetScrollEnabled enables or disables scrolling by touch.
func (s *ScrollView) SetScrollEnabled(enabled bool) {
	s.scrollEnabled = enabled
}

// ScrollEnabled reports whether touches scroll the content.
func (s *ScrollView) ScrollEnabled() bool {
	return s.scrollEnabled
}

// SetHorizontalScrollEnabled allows or locks movement on the x axis.
func (s *ScrollView) SetHorizontalScrollEnabled(enabled bool) {
	s.horizontalEnabled = enabled
}

// SetVerticalScrollEnabled allows or locks movement on the y axis.
func (s *ScrollView) SetVerticalScrollEnabled(enabled bool) {
	s.verticalEnabled = enabled
}

// ContentOffset returns the current offset of the content: the content
// point shown at the view's top-left corner.
func (s *ScrollView) ContentOffset() Vec2 {
	return s.offset.Value()
}

// TargetOffset returns the offset deceleration converges to.
func (s *ScrollView) TargetOffset() Vec2 {
	return s.targetOffset
}

// Velocity returns the current scroll velocity in pixels per second, in the
// direction of finger movement.
func (s *ScrollView) Velocity() Vec2 {
	return s.velocity
}

// State returns the motion state.
func (s *ScrollView) State() ScrollState {
	return s.state
}

// IsDragging reports whether a touch is moving the content.
func (s *ScrollView) IsDragging() bool {
	return s.state == ScrollDragging
}

// IsDecelerating reports whether the content is coasting.
func (s *ScrollView) IsDecelerating() bool {
	return s.state == ScrollDecelerating
}

// OffsetBoundaries returns the range of valid offsets: from zero to the
// content size minus the viewport size, never negative.
func (s *ScrollView) OffsetBoundaries() Rect {
	cs := s.content.Size()
	vs := s.Size()
	return Rect{0, 0, math.Max(0, cs.Width-vs.Width), math.Max(0, cs.Height-vs.Height)}
}

func (s *ScrollView) decelerationBoundaries() Rect {
	return s.OffsetBoundaries()
}

// ScrollTo moves the content to offset, clamped to the boundaries. Any drag
// or deceleration in progress is stopped.
func (s *ScrollView) ScrollTo(offset Vec2, animated bool) {
	s.scrollTo(s.OffsetBoundaries().ClosestPoint(offset), animated)
}

func (s *ScrollView) scrollTo(offset Vec2, animated bool) {
	s.state = ScrollIdle
	s.velocity = Vec2{}
	s.targetOffset = offset
	if animated && s.cfg.AnimationDuration > 0 {
		s.offset.AnimateTo(offset, s.cfg.AnimationDuration, DefaultEase)
		s.animatingToRest = true
		return
	}
	s.setOffset(offset)
}

// setOffset snaps the offset, moves the content and reports the scroll.
func (s *ScrollView) setOffset(o Vec2) {
	if s.offset.IsSettled() && o.Near(s.offset.Value(), posEpsilon) {
		return
	}
	s.offset.Set(o)
	s.applyOffset()
}

func (s *ScrollView) applyOffset() {
	o := s.offset.Value()
	s.content.SetPos(o.Scale(-1))
	s.DidScroll.Emit(o)
}

// Layout keeps a resting offset inside the boundaries after a resize.
func (s *ScrollView) Layout() {
	if s.state != ScrollIdle || !s.offset.IsSettled() {
		return
	}
	b := s.policy.decelerationBoundaries()
	if c := b.ClosestPoint(s.offset.Value()); !c.Near(s.offset.Value(), posEpsilon) {
		s.targetOffset = c
		s.setOffset(c)
	}
}

// Update steps offset animations and deceleration.
func (s *ScrollView) Update(dt float64) {
	if s.offset.Update(dt) {
		s.applyOffset()
		if s.offset.IsSettled() && s.animatingToRest {
			s.animatingToRest = false
			s.endDeceleration()
		}
	}
	if s.state == ScrollDecelerating {
		s.decelerate()
	}
}

// --- Touch handling ---

// TouchesBegan takes the first touch when the view has no other active
// touch. A running deceleration stops under the finger.
func (s *ScrollView) TouchesBegan(e *TouchEvent) {
	if !s.scrollEnabled || s.NumActiveTouches() > 0 {
		return
	}
	t := e.First()
	if t == nil {
		return
	}
	e.Claim(t)
	s.touchID = t.ID
	s.lastTouchPos = t.Pos
	s.wasDecelerating = s.state == ScrollDecelerating
	s.state = ScrollDragging
	s.velocity = Vec2{}
	s.animatingToRest = false
	if !s.offset.IsSettled() {
		s.offset.Stop()
	}
	s.dragStartOffset = s.offset.Value()
	s.samples = s.samples[:0]
	s.addSample(t)
}

// TouchesMoved follows the finger. Movement on an axis whose proposed
// offset lies outside the boundaries is scaled by the stretch factor.
func (s *ScrollView) TouchesMoved(e *TouchEvent) {
	if s.state != ScrollDragging {
		return
	}
	t := e.Find(s.touchID)
	if t == nil {
		return
	}
	diff := s.lockAxes(t.Pos.Sub(s.lastTouchPos))
	s.lastTouchPos = t.Pos
	s.addSample(t)

	cur := s.offset.Value()
	proposed := cur.Sub(diff)
	b := s.OffsetBoundaries()
	if proposed.X < b.X || proposed.X > b.X+b.Width {
		diff.X *= s.cfg.StretchFactor
	}
	if proposed.Y < b.Y || proposed.Y > b.Y+b.Height {
		diff.Y *= s.cfg.StretchFactor
	}
	next := cur.Sub(diff)
	s.setOffset(next)
	s.targetOffset = b.ClosestPoint(next)
}

// TouchesEnded computes the swipe velocity and starts decelerating.
func (s *ScrollView) TouchesEnded(e *TouchEvent) {
	if s.endDrag(e) {
		s.startDecelerating()
	}
}

// endDrag finishes the drag for the owned touch. Returns false when the
// event does not carry it.
func (s *ScrollView) endDrag(e *TouchEvent) bool {
	if s.state != ScrollDragging {
		return false
	}
	t := e.Find(s.touchID)
	if t == nil {
		return false
	}
	s.addSample(t)
	s.velocity = s.lockAxes(s.swipeVelocity())
	s.samples = s.samples[:0]
	s.DidEndDragging.Emit(s.velocity)
	return true
}

// TouchesCancelled ends a drag whose touch was lost without an ended phase.
// The content springs back into the boundaries with no velocity.
func (s *ScrollView) TouchesCancelled(e *TouchEvent) {
	if s.state != ScrollDragging || e.Find(s.touchID) == nil {
		return
	}
	s.samples = s.samples[:0]
	s.velocity = Vec2{}
	s.startDecelerating()
}

func (s *ScrollView) startDecelerating() {
	cs := s.content.Size()
	if cs.Width <= 0 && cs.Height <= 0 {
		s.state = ScrollIdle
		s.velocity = Vec2{}
		return
	}
	s.targetOffset = s.policy.decelerationBoundaries().ClosestPoint(s.offset.Value())
	s.state = ScrollDecelerating
}

func (s *ScrollView) lockAxes(v Vec2) Vec2 {
	if !s.horizontalEnabled {
		v.X = 0
	}
	if !s.verticalEnabled {
		v.Y = 0
	}
	return v
}

// addSample records a touch position for the swipe velocity estimate,
// keeping at most SwipeSamples entries.
func (s *ScrollView) addSample(t *Touch) {
	if n := s.cfg.SwipeSamples; len(s.samples) >= n {
		copy(s.samples, s.samples[len(s.samples)-n+1:])
		s.samples = s.samples[:n-1]
	}
	s.samples = append(s.samples, swipeSample{pos: t.Pos, time: t.Time})
}

// swipeVelocity is the time-weighted average of the per-sample velocities
// of the samples inside the swipe window, ending at the newest sample.
func (s *ScrollView) swipeVelocity() Vec2 {
	if len(s.samples) < 2 {
		return Vec2{}
	}
	last := s.samples[len(s.samples)-1]
	window := time.Duration(s.cfg.SwipeWindow * float64(time.Second))
	var sum Vec2
	var total float64
	for i := len(s.samples) - 1; i > 0; i-- {
		cur, prev := s.samples[i], s.samples[i-1]
		if last.time-prev.time > window {
			break
		}
		dt := (cur.time - prev.time).Seconds()
		if dt <= 0 {
			continue
		}
		// velocity * dt summed over samples is the displacement.
		sum = sum.Add(cur.pos.Sub(prev.pos))
		total += dt
	}
	if total == 0 {
		return Vec2{}
	}
	return sum.Scale(1 / total)
}

// --- Deceleration ---

// decelerate runs one fixed step of the coasting simulation.
func (s *ScrollView) decelerate() {
	cfg := &s.cfg
	dt := 1 / cfg.TargetFrameRate
	b := s.policy.decelerationBoundaries()

	proposed := s.offset.Value().Sub(s.velocity.Scale(dt))
	friction := cfg.DecelerationOutside
	if b.ContainsPoint(proposed) {
		friction = cfg.DecelerationInside
	}
	s.velocity = s.velocity.Scale(1 - friction)
	s.targetOffset = b.ClosestPoint(proposed)
	spring := s.targetOffset.Sub(proposed).Scale(cfg.ConstraintStiffness).ClampLen(cfg.MaxSpeed)
	final := proposed.Add(spring)

	if s.velocity.Len() < cfg.MinVelocityStopped && s.targetOffset.Sub(final).Len() < cfg.MinOffsetStopped {
		s.offset.Set(s.targetOffset)
		s.velocity = Vec2{}
		s.applyOffset()
		s.endDeceleration()
		return
	}
	s.setOffset(final)
}

// endDeceleration settles into idle and reports it. DidScroll has already
// fired for the final offset.
func (s *ScrollView) endDeceleration() {
	s.state = ScrollIdle
	o := s.offset.Value()
	s.DidEndDecelerating.Emit(o)
	emitViewEvent(s.View, InteractionEvent{Type: EventScrollEnded, OffsetX: o.X, OffsetY: o.Y})
}
