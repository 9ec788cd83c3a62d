// Package engine implements the spatial interaction engine: the pipeline
// that turns noisy per-frame hand landmarks and object-detection boxes into
// stable, debounced, coordinate-correct user actions such as cursor
// movement, pinch grabs on floating panels, object selection, and camera
// zoom.
//
// The engine is single-threaded and frame-driven. The loop driver owns one
// Engine and calls Tick once per rendered frame; within a tick the
// coordinate mapper is recomputed before anything else, so every decision
// that frame uses a consistent mapping.
package engine

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Config aggregates the tuning parameters of every engine component.
type Config struct {
	Tracker     TrackerConfig
	Interpreter InterpreterConfig
	Animator    AnimatorConfig
	Panels      PanelSetConfig
	Router      RouterConfig
}

// DefaultConfig returns a Config with every component at its defaults.
func DefaultConfig() Config {
	return Config{
		Tracker:     DefaultTrackerConfig(),
		Interpreter: DefaultInterpreterConfig(),
		Animator:    DefaultAnimatorConfig(),
		Panels:      DefaultPanelSetConfig(),
		Router:      DefaultRouterConfig(),
	}
}

// TickInput is everything one frame feeds the engine. Detections is nil on
// ticks where the (slower, throttled) object detector produced no new
// result; an empty non-nil slice means the detector ran and found nothing.
type TickInput struct {
	Now time.Time

	// Overlay size in device pixels and source video intrinsic size.
	ContainerWidth  float64
	ContainerHeight float64
	SourceWidth     float64
	SourceHeight    float64
	Mirrored        bool

	Detections []Detection
	Hand       *detector.HandLandmarks
}

// TickOutput is what one frame hands back to the renderer.
type TickOutput struct {
	// Cursor is the current hand cursor in overlay device pixels, nil
	// until a hand has been seen.
	Cursor *Point

	// Events are this tick's discrete gesture events, in emission order.
	Events []Event

	// Labels is the animated HUD label state for every live detection.
	Labels []Label

	// Selected is the currently selected detection, or nil.
	Selected *TrackedDetection

	// HUDScale is the software zoom multiplier the renderer should apply.
	HUDScale float64
}

// Engine is the explicit per-loop context: it owns the tracker,
// interpreter, animator, panels, and router, and advances them together
// once per tick. No state lives outside it.
type Engine struct {
	config   Config
	mapper   Mapper
	tracker  *Tracker
	interp   *Interpreter
	animator *Animator
	panels   *PanelSet
	router   *Router
	cursor   *Point
}

// New creates an Engine. zoom may be nil when the camera has no hardware
// zoom; the router then always uses the software HUD-scale path.
func New(config Config, zoom ZoomControl) *Engine {
	tracker := NewTracker(config.Tracker)
	panels := NewPanelSet(config.Panels)
	return &Engine{
		config:   config,
		tracker:  tracker,
		interp:   NewInterpreter(config.Interpreter),
		animator: NewAnimator(config.Animator),
		panels:   panels,
		router:   NewRouter(config.Router, panels, tracker, zoom),
	}
}

// Panels returns the panel set so the caller can register its panels.
func (e *Engine) Panels() *PanelSet { return e.panels }

// Tracker returns the detection tracker.
func (e *Engine) Tracker() *Tracker { return e.tracker }

// Router returns the interaction router, e.g. to install OnAction.
func (e *Engine) Router() *Router { return e.router }

// Mapper returns the coordinate mapper computed by the most recent Tick.
func (e *Engine) Mapper() Mapper { return e.mapper }

// Tick advances the engine by one frame. Order within the tick is fixed:
// mapper first, then detection ingest, then gesture interpretation and
// routing, then label animation.
func (e *Engine) Tick(in TickInput) TickOutput {
	e.mapper = NewMapper(in.ContainerWidth, in.ContainerHeight, in.SourceWidth, in.SourceHeight, in.Mirrored)
	e.panels.SetViewport(in.ContainerWidth, in.ContainerHeight)

	if in.Detections != nil {
		e.tracker.Ingest(in.Detections, e.mapper, in.Now)
	}

	events := e.interp.Step(in.Hand, e.mapper, in.Now)
	for _, ev := range events {
		if c, ok := ev.(Cursor); ok {
			pos := c.Pos
			e.cursor = &pos
		}
		e.router.Route(ev, e.mapper, in.Now)
	}

	labels := e.animator.Advance(e.tracker, e.mapper, in.Now)

	return TickOutput{
		Cursor:   e.cursor,
		Events:   events,
		Labels:   labels,
		Selected: e.router.Selected(),
		HUDScale: e.router.HUDScale(),
	}
}

// Stop tears down all interaction state when the camera stream ends: an
// active pinch is force-released through the router so no grab is left
// half-completed, and every tracked detection is discarded.
func (e *Engine) Stop() {
	for _, ev := range e.interp.ForceRelease() {
		e.router.Route(ev, e.mapper, time.Now())
	}
	e.router.Reset()
	e.tracker.Reset()
	e.cursor = nil
}
