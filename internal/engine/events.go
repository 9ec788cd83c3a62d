package engine

// Event is the closed set of discrete events produced by the Interpreter.
// Only the types in this file implement it, so a switch over an Event can
// be exhaustive.
type Event interface {
	event()
}

// Cursor reports the current hand cursor position in overlay device pixels.
// Emitted at a throttled rate regardless of pinch state.
type Cursor struct {
	Pos Point
}

// PinchStart is emitted on the transition into a pinch.
type PinchStart struct {
	Pos Point
	// Spread is the hand-scale-normalized thumb-to-index distance at the
	// moment the pinch began. The Router uses it as the zoom baseline.
	Spread float64
}

// PinchMove is emitted every frame while a pinch is held.
type PinchMove struct {
	Pos    Point
	Spread float64
}

// PinchEnd is emitted on the transition out of a pinch, including the
// forced release when the hand disappears mid-pinch.
type PinchEnd struct {
	Pos Point
}

// PointTrigger is emitted when the index finger points up, debounced so a
// held pose fires once.
type PointTrigger struct {
	Pos Point
}

// PalmTrigger is emitted when an open palm is shown, debounced.
type PalmTrigger struct {
	Pos Point
}

func (Cursor) event()       {}
func (PinchStart) event()   {}
func (PinchMove) event()    {}
func (PinchEnd) event()     {}
func (PointTrigger) event() {}
func (PalmTrigger) event()  {}
