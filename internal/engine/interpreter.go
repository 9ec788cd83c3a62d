package engine

import (
	"math"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// InterpreterConfig holds tuning parameters for the gesture interpreter.
type InterpreterConfig struct {
	// PinchEnter and PinchExit are the hand-scale-normalized thumb-to-index
	// distances at which a pinch begins and ends. The gap between them is a
	// hysteresis band that stops on/off flicker when the fingers hover at
	// the boundary.
	PinchEnter float64
	PinchExit  float64

	// CursorInterval is the minimum time between Cursor events.
	CursorInterval time.Duration

	// PointDebounce and PalmDebounce are the minimum times between repeated
	// emissions of the respective trigger while the pose is held.
	PointDebounce time.Duration
	PalmDebounce  time.Duration

	// AbsenceGrace is how long the hand may be missing before the
	// interpreter resets. A pinch held across a shorter dropout survives.
	AbsenceGrace time.Duration

	// PointMargin is how far (in normalized landmark units) the index tip
	// must sit above its base joint to count as pointing up.
	PointMargin float64
}

// DefaultInterpreterConfig returns an InterpreterConfig with sensible
// default values.
func DefaultInterpreterConfig() InterpreterConfig {
	return InterpreterConfig{
		PinchEnter:     0.45,
		PinchExit:      0.55,
		CursorInterval: 60 * time.Millisecond,
		PointDebounce:  400 * time.Millisecond,
		PalmDebounce:   900 * time.Millisecond,
		AbsenceGrace:   250 * time.Millisecond,
		PointMargin:    0.05,
	}
}

// Interpreter is the finite-state machine that turns raw per-frame hand
// samples into discrete, debounced events. One instance per hand stream;
// single-goroutine, stepped once per tick.
type Interpreter struct {
	config InterpreterConfig

	pinching   bool
	seenHand   bool
	lastSeen   time.Time
	lastCursor time.Time
	lastPoint  time.Time
	lastPalm   time.Time
	lastPos    Point
}

// NewInterpreter creates an Interpreter with the given configuration.
func NewInterpreter(config InterpreterConfig) *Interpreter {
	return &Interpreter{config: config}
}

// Pinching reports whether a pinch is currently held.
func (it *Interpreter) Pinching() bool {
	return it.pinching
}

// Step advances the state machine by one frame and returns the events that
// frame produces, in emission order. A nil hand means no hand was observed;
// callers must also pass nil when the collaborator errored or returned
// malformed data, so a single bad frame degrades to absence instead of
// corrupting the state machine.
func (it *Interpreter) Step(hand *detector.HandLandmarks, m Mapper, now time.Time) []Event {
	if hand == nil {
		return it.stepAbsent(now)
	}

	it.seenHand = true
	it.lastSeen = now

	tip := hand.Points[detector.IndexTip]
	pos := m.ForwardNormalized(Point{X: tip.X, Y: tip.Y})
	it.lastPos = pos

	var events []Event

	if it.lastCursor.IsZero() || now.Sub(it.lastCursor) >= it.config.CursorInterval {
		events = append(events, Cursor{Pos: pos})
		it.lastCursor = now
	}

	spread := pinchSpread(hand)
	switch {
	case !it.pinching && spread < it.config.PinchEnter:
		it.pinching = true
		events = append(events, PinchStart{Pos: pos, Spread: spread})
	case it.pinching && spread >= it.config.PinchExit:
		it.pinching = false
		events = append(events, PinchEnd{Pos: pos})
	case it.pinching:
		events = append(events, PinchMove{Pos: pos, Spread: spread})
	}

	if !it.pinching {
		if isPointingUp(hand, it.config.PointMargin) {
			if it.lastPoint.IsZero() || now.Sub(it.lastPoint) >= it.config.PointDebounce {
				events = append(events, PointTrigger{Pos: pos})
				it.lastPoint = now
			}
		} else if isOpenPalm(hand) {
			if it.lastPalm.IsZero() || now.Sub(it.lastPalm) >= it.config.PalmDebounce {
				events = append(events, PalmTrigger{Pos: pos})
				it.lastPalm = now
			}
		}
	}

	return events
}

// stepAbsent handles a frame with no hand sample. Inside the grace window
// the state is held as-is; past it, an active pinch is force-released so no
// grab is ever left half-completed.
func (it *Interpreter) stepAbsent(now time.Time) []Event {
	if !it.seenHand {
		return nil
	}
	if now.Sub(it.lastSeen) <= it.config.AbsenceGrace {
		return nil
	}

	var events []Event
	if it.pinching {
		events = append(events, PinchEnd{Pos: it.lastPos})
	}
	it.reset()
	return events
}

// ForceRelease ends any in-progress pinch immediately, returning the
// synthetic PinchEnd to route. Used when the camera stream stops.
func (it *Interpreter) ForceRelease() []Event {
	var events []Event
	if it.pinching {
		events = append(events, PinchEnd{Pos: it.lastPos})
	}
	it.reset()
	return events
}

func (it *Interpreter) reset() {
	it.pinching = false
	it.seenHand = false
	it.lastCursor = time.Time{}
}

// pinchSpread returns the thumb-to-index distance normalized by a proxy for
// hand size (wrist to middle-finger base), so the pinch threshold holds
// whether the hand is near or far from the camera.
func pinchSpread(hand *detector.HandLandmarks) float64 {
	pinch := detector.Distance(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	span := hand.Span()
	if span < 1e-10 {
		return math.MaxFloat64
	}
	return pinch / span
}

// isPointingUp reports whether the index fingertip sits above its base
// joint by at least the given margin. Y grows downward in landmark space.
func isPointingUp(hand *detector.HandLandmarks, margin float64) bool {
	tip := hand.Points[detector.IndexTip]
	base := hand.Points[detector.IndexMCP]
	if tip.Y >= base.Y-margin {
		return false
	}
	// Other fingers curled: their tips at or below their PIP joints.
	for _, pair := range [][2]int{
		{detector.MiddleTip, detector.MiddlePIP},
		{detector.RingTip, detector.RingPIP},
		{detector.PinkyTip, detector.PinkyPIP},
	} {
		if hand.Points[pair[0]].Y < hand.Points[pair[1]].Y-margin {
			return false
		}
	}
	return true
}

// isOpenPalm reports whether all four fingers are extended: each fingertip
// above its PIP joint.
func isOpenPalm(hand *detector.HandLandmarks) bool {
	for _, pair := range [][2]int{
		{detector.IndexTip, detector.IndexPIP},
		{detector.MiddleTip, detector.MiddlePIP},
		{detector.RingTip, detector.RingPIP},
		{detector.PinkyTip, detector.PinkyPIP},
	} {
		if hand.Points[pair[0]].Y >= hand.Points[pair[1]].Y {
			return false
		}
	}
	return true
}
