package engine

import (
	"log"
	"time"
)

// GrabMode says what an active grab is doing to its panel.
type GrabMode int

const (
	// GrabDrag moves the panel with the pointer.
	GrabDrag GrabMode = iota
	// GrabResize grows and shrinks the panel with the pointer.
	GrabResize
)

// GrabSession is the live state of an in-progress drag or resize. It is
// created on a pinch that lands on a panel and destroyed on release; the
// single-pointer model guarantees at most one exists at a time.
type GrabSession struct {
	Panel *Panel
	Mode  GrabMode

	// Drag: offset from the pinch point to the panel origin, so the panel
	// tracks the pointer without jumping.
	OffsetX float64
	OffsetY float64

	// Resize: the panel's size when the grab began.
	OriginWidth  float64
	OriginHeight float64

	Start Point
}

// ZoomControl is the camera's optional hardware zoom. Implementations
// report their supported range; SetZoom failures flip the router onto the
// software HUD-scale path for the rest of the session.
type ZoomControl interface {
	SupportsZoom() bool
	ZoomRange() (min, max float64)
	SetZoom(level float64) error
}

// RouterConfig holds tuning parameters for the interaction router.
type RouterConfig struct {
	// HUDScaleMin and HUDScaleMax bound the software zoom fallback applied
	// to the HUD when the camera has no usable hardware zoom.
	HUDScaleMin float64
	HUDScaleMax float64
}

// DefaultRouterConfig returns a RouterConfig with sensible default values.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		HUDScaleMin: 0.8,
		HUDScaleMax: 1.5,
	}
}

// Router decides what each gesture event means and executes it: panel
// drag/resize when a pinch lands on panel chrome, an action trigger when it
// lands on the selected detection, camera zoom otherwise.
type Router struct {
	config  RouterConfig
	panels  *PanelSet
	tracker *Tracker
	zoom    ZoomControl

	grab *GrabSession

	zoomActive   bool
	zoomBaseline float64
	hwZoomBroken bool
	hudScale     float64

	cursor      Point
	selectedKey string

	// OnAction is invoked when a pinch lands on the already-selected
	// detection (the snapshot trigger). Optional.
	OnAction func(*TrackedDetection)
}

// NewRouter creates a Router over the given panels and tracker. zoom may
// be nil when the camera offers no hardware zoom at all.
func NewRouter(config RouterConfig, panels *PanelSet, tracker *Tracker, zoom ZoomControl) *Router {
	return &Router{
		config:   config,
		panels:   panels,
		tracker:  tracker,
		zoom:     zoom,
		hudScale: 1,
	}
}

// Grab returns the active grab session, or nil.
func (r *Router) Grab() *GrabSession { return r.grab }

// HUDScale returns the current software zoom multiplier.
func (r *Router) HUDScale() float64 { return r.hudScale }

// Selected returns the currently selected detection, or nil if the
// selection has aged out of the tracker.
func (r *Router) Selected() *TrackedDetection {
	if r.selectedKey == "" {
		return nil
	}
	td := r.tracker.Get(r.selectedKey)
	if td == nil {
		r.selectedKey = ""
	}
	return td
}

// Route dispatches a single gesture event. Events for one tick must be
// routed in the order the interpreter emitted them.
func (r *Router) Route(ev Event, m Mapper, now time.Time) {
	switch e := ev.(type) {
	case Cursor:
		r.cursor = e.Pos
	case PinchStart:
		r.cursor = e.Pos
		r.pinchStart(e, m)
	case PinchMove:
		r.cursor = e.Pos
		r.pinchMove(e)
	case PinchEnd:
		r.pinchEnd()
	case PointTrigger:
		r.pointTrigger(e, m)
	case PalmTrigger:
		r.palmTrigger()
	}
}

// pinchStart classifies the pinch: panel grab, action trigger on the
// selected detection, or zoom baseline, in that order.
func (r *Router) pinchStart(e PinchStart, m Mapper) {
	if p := r.panels.PanelAt(e.Pos); p != nil {
		switch r.panels.Region(p, e.Pos) {
		case RegionHeader:
			r.grab = &GrabSession{
				Panel:   p,
				Mode:    GrabDrag,
				OffsetX: e.Pos.X - p.X,
				OffsetY: e.Pos.Y - p.Y,
				Start:   e.Pos,
			}
			r.panels.Raise(p)
			return
		case RegionCorner:
			r.grab = &GrabSession{
				Panel:        p,
				Mode:         GrabResize,
				OriginWidth:  p.Width,
				OriginHeight: p.Height,
				Start:        e.Pos,
			}
			r.panels.Raise(p)
			return
		}
		// A pinch on a panel body falls through to the zoom path rather
		// than grabbing, matching pointer behavior on panel content.
	}

	if td := r.tracker.HitTest(e.Pos, m); td != nil && td.Key == r.selectedKey {
		if r.OnAction != nil {
			r.OnAction(td)
		}
		return
	}

	r.zoomActive = true
	r.zoomBaseline = e.Spread
}

// pinchMove applies the pinch to whatever the start classified it as.
func (r *Router) pinchMove(e PinchMove) {
	if r.grab != nil {
		switch r.grab.Mode {
		case GrabDrag:
			r.grab.Panel.X = e.Pos.X - r.grab.OffsetX
			r.grab.Panel.Y = e.Pos.Y - r.grab.OffsetY
			r.panels.ClampPosition(r.grab.Panel)
		case GrabResize:
			r.grab.Panel.Width = r.grab.OriginWidth + (e.Pos.X - r.grab.Start.X)
			r.grab.Panel.Height = r.grab.OriginHeight + (e.Pos.Y - r.grab.Start.Y)
			r.panels.ClampSize(r.grab.Panel)
		}
		return
	}

	if !r.zoomActive {
		return
	}

	frac := 0.0
	if r.zoomBaseline > 0 {
		frac = clamp01(1 - e.Spread/r.zoomBaseline)
	}

	if r.zoom != nil && r.zoom.SupportsZoom() && !r.hwZoomBroken {
		min, max := r.zoom.ZoomRange()
		if err := r.zoom.SetZoom(min + frac*(max-min)); err != nil {
			// Hardware refused the request; stop asking for the rest of
			// the session and fall back to the software path.
			log.Printf("hardware zoom failed, switching to HUD scale: %v", err)
			r.hwZoomBroken = true
		} else {
			return
		}
	}

	r.hudScale = r.config.HUDScaleMin + frac*(r.config.HUDScaleMax-r.config.HUDScaleMin)
}

// pinchEnd discards the grab session and zoom baseline.
func (r *Router) pinchEnd() {
	r.grab = nil
	r.zoomActive = false
	r.zoomBaseline = 0
}

// pointTrigger selects the detection under (or near) the cursor, or clears
// the selection when nothing is in range.
func (r *Router) pointTrigger(e PointTrigger, m Mapper) {
	if td := r.tracker.HitTest(e.Pos, m); td != nil {
		r.selectedKey = td.Key
		return
	}
	r.selectedKey = ""
}

// palmTrigger is the reset gesture: clear the selection and restore the
// HUD scale.
func (r *Router) palmTrigger() {
	r.selectedKey = ""
	r.hudScale = 1
}

// Reset drops all transient interaction state: grab, zoom baseline,
// selection. Called when the camera stream stops.
func (r *Router) Reset() {
	r.grab = nil
	r.zoomActive = false
	r.zoomBaseline = 0
	r.selectedKey = ""
	r.hudScale = 1
}
