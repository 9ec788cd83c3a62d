// Package app provides the main application logic for the Mudra spatial
// interaction engine: it wires the camera, hand and object detectors,
// and the interaction engine into a running pipeline.
package app

import (
	"image"
	"log"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/snapshot"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// ActiveDetectionInterval is the object detection cadence while the
	// scene is in motion.
	ActiveDetectionInterval = 140 * time.Millisecond
	// IdleDetectionInterval is the object detection cadence for a still
	// scene.
	IdleDetectionInterval = 600 * time.Millisecond
	// IdleTimeout is how long the scene must stay still before the
	// pipeline drops back to the idle detection cadence.
	IdleTimeout = 2 * time.Second
)

// Default viewport size in device pixels when none is configured.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// settingEnabled is the settings key that persists the interaction toggle
// across sessions.
const settingEnabled = "enabled"

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	DataDir      string
	CameraID     int
	MotionThresh float64
	Mirror       bool

	// Camera overrides the default device camera, e.g. with a mock
	// playing recorded frames.
	Camera capture.Camera

	// ViewportWidth and ViewportHeight are the overlay size in device
	// pixels that gesture coordinates are mapped into.
	ViewportWidth  float64
	ViewportHeight float64

	// Engine overrides the interaction engine tuning. The zero value
	// selects the defaults.
	Engine engine.Config

	// Objects configures the YOLO object detector. Empty paths select
	// the mock detector.
	Objects detector.ObjectConfig
}

// State is the per-tick interaction state published to subscribers and
// the HTTP API.
type State struct {
	Labels        []engine.Label `json:"labels"`
	Cursor        *engine.Point  `json:"cursor,omitempty"`
	Panels        []engine.Panel `json:"panels"`
	SelectedLabel string         `json:"selected_label,omitempty"`
	HUDScale      float64        `json:"hud_scale"`
	Timestamp     int64          `json:"timestamp"`
}

// App is the main application that orchestrates capture, detection and
// gesture interaction.
type App struct {
	config    Config
	camera    capture.Camera
	motion    *capture.MotionGate
	hands     detector.HandDetector
	objects   detector.ObjectDetector
	engine    *engine.Engine
	snapshots *snapshot.Writer

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	done    chan struct{}

	state     State
	stateFns  []func(State)
	frameJPEG []byte

	// currentFrame is the frame being processed by the current engine
	// tick, set and cleared under mu; the snapshot action callback runs
	// synchronously inside Tick with mu held.
	currentFrame frameImage
}

type frameImage interface {
	ToImage() (image.Image, error)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.ViewportWidth <= 0 {
		config.ViewportWidth = DefaultViewportWidth
	}
	if config.ViewportHeight <= 0 {
		config.ViewportHeight = DefaultViewportHeight
	}
	if config.Engine == (engine.Config{}) {
		config.Engine = engine.DefaultConfig()
	}

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = capture.DefaultMotionThreshold
	}

	camera := config.Camera
	if camera == nil {
		camera = capture.NewCamera(config.CameraID)
	}

	a := &App{
		config: config,
		camera: camera,
		motion: capture.NewMotionGate(motionThreshold),
		engine: engine.New(config.Engine, camera),
	}

	a.engine.Router().OnAction = a.captureSnapshot

	if config.DataDir != "" {
		writer, err := snapshot.NewWriter(snapshot.DefaultConfig(filepath.Join(config.DataDir, "snapshots")))
		if err != nil {
			log.Printf("Snapshot writer unavailable: %v", err)
		} else {
			a.snapshots = writer
		}
	}

	// Try MediaPipe first, fall back to mock hand detection
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultHandConfig()); err == nil {
		a.hands = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock hand detector", err)
		a.hands = detector.NewMockHandDetector()
	}

	// Try the DNN object detector, fall back to mock detection
	if dnn, err := detector.NewDNNObjectDetector(config.Objects); err == nil {
		a.objects = dnn
		log.Println("Using DNN object detection")
	} else {
		log.Printf("DNN object detector not available (%v), using mock object detector", err)
		a.objects = detector.NewMockObjectDetector()
	}

	return a
}

// SetEnabled enables or disables gesture interaction. Disabling tears
// down any in-progress grab so no panel is left mid-drag. The mutex
// serializes the teardown against an in-flight pipeline tick.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.enabled = enabled
	if !enabled {
		a.engine.Stop()
	}
}

// IsEnabled returns whether gesture interaction is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetHandDetector sets the hand detector implementation to use.
func (a *App) SetHandDetector(d detector.HandDetector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hands = d
}

// SetObjectDetector sets the object detector implementation to use.
func (a *App) SetObjectDetector(d detector.ObjectDetector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects = d
}

// Start opens the camera, restores the saved panel layout, and begins
// the interaction pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.loadLayouts()
	a.loadEnabled()

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Interaction pipeline started")
	return nil
}

// Stop halts the pipeline, persists the panel layout, and releases
// resources. It waits for the pipeline goroutine to exit before tearing
// anything down, so no tick is in flight during cleanup.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-done
	}

	a.mu.Lock()
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.hands != nil {
		if err := a.hands.Close(); err != nil {
			log.Printf("Error closing hand detector: %v", err)
		}
	}
	if a.objects != nil {
		if err := a.objects.Close(); err != nil {
			log.Printf("Error closing object detector: %v", err)
		}
	}

	a.engine.Stop()
	a.mu.Unlock()

	a.saveLayouts()
	a.saveEnabled()

	log.Println("Interaction pipeline stopped")
}

// Engine returns the interaction engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// PanelLayouts returns a copy of the current panel geometry, bottom of
// the stack first.
func (a *App) PanelLayouts() []engine.Panel {
	a.mu.RLock()
	defer a.mu.RUnlock()

	panels := a.engine.Panels().Panels()
	out := make([]engine.Panel, 0, len(panels))
	for _, p := range panels {
		out = append(out, *p)
	}
	return out
}

// UpdatePanel applies a partial geometry update to a panel, clamped the
// same way gesture-driven moves are. The mutex serializes the write
// against the pipeline tick, which mutates the same panels during grabs.
func (a *App) UpdatePanel(id string, patch engine.PanelPatch) (engine.Panel, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Panels().Apply(id, patch)
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionGate returns the motion gate instance.
func (a *App) MotionGate() *capture.MotionGate {
	return a.motion
}

// Snapshots returns the snapshot writer, or nil when no data directory
// is configured.
func (a *App) Snapshots() *snapshot.Writer {
	return a.snapshots
}

// State returns the most recently published interaction state.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// FrameJPEG returns the most recent camera frame encoded as JPEG, or
// nil if no frame has been captured yet.
func (a *App) FrameJPEG() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.frameJPEG == nil {
		return nil
	}
	out := make([]byte, len(a.frameJPEG))
	copy(out, a.frameJPEG)
	return out
}

// OnState registers a callback invoked after every engine tick with the
// published state. Callbacks run on the pipeline goroutine and must not
// block.
func (a *App) OnState(fn func(State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stateFns = append(a.stateFns, fn)
}

// captureSnapshot saves a crop of the acted-on detection from the frame
// currently being processed. Installed as the router's action trigger.
func (a *App) captureSnapshot(td *engine.TrackedDetection) {
	if a.snapshots == nil || a.currentFrame == nil {
		return
	}

	img, err := a.currentFrame.ToImage()
	if err != nil {
		log.Printf("Failed to decode frame for snapshot: %v", err)
		return
	}

	region := image.Rect(
		int(td.Box.X), int(td.Box.Y),
		int(td.Box.X+td.Box.Width), int(td.Box.Y+td.Box.Height),
	)

	snap, err := a.snapshots.Capture(img, region, td.Label, td.Score)
	if err != nil {
		log.Printf("Failed to save snapshot: %v", err)
		return
	}

	if a.config.Store != nil {
		err := a.config.Store.Snapshots().Create(&store.Snapshot{
			ID:        snap.ID,
			Label:     snap.Label,
			Score:     snap.Score,
			Path:      snap.Path,
			Width:     snap.Width,
			Height:    snap.Height,
			CreatedAt: snap.CreatedAt,
		})
		if err != nil {
			log.Printf("Failed to record snapshot metadata: %v", err)
		}
	}

	log.Printf("Saved snapshot %s (%s, score %.2f)", snap.ID, snap.Label, snap.Score)
}

// loadLayouts restores the saved panel layout, falling back to a single
// default HUD panel. Caller must hold the mutex.
func (a *App) loadLayouts() {
	panels := a.engine.Panels()

	if a.config.Store != nil {
		layouts, err := a.config.Store.Layouts().List()
		if err != nil {
			log.Printf("Failed to load panel layouts: %v", err)
		}
		for _, l := range layouts {
			panels.Add(&engine.Panel{
				ID:     l.ID,
				X:      l.X,
				Y:      l.Y,
				Width:  l.Width,
				Height: l.Height,
			})
		}
	}

	if len(panels.Panels()) == 0 {
		panels.Add(&engine.Panel{ID: "hud", X: 24, Y: 24, Width: 320, Height: 200})
	}
}

// saveLayouts persists the current panel layout.
func (a *App) saveLayouts() {
	if a.config.Store == nil {
		return
	}

	for _, p := range a.PanelLayouts() {
		err := a.config.Store.Layouts().Save(&store.PanelLayout{
			ID:     p.ID,
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
			Z:      p.Z,
		})
		if err != nil {
			log.Printf("Failed to save layout for panel %s: %v", p.ID, err)
		}
	}
}

// loadEnabled restores the persisted interaction toggle. No saved value
// keeps whatever the caller set before Start. Caller must hold the mutex.
func (a *App) loadEnabled() {
	if a.config.Store == nil {
		return
	}
	v, err := a.config.Store.Settings().Get(settingEnabled)
	if err != nil {
		return
	}
	a.enabled = v == "true"
}

// saveEnabled persists the interaction toggle.
func (a *App) saveEnabled() {
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().Set(settingEnabled, strconv.FormatBool(a.IsEnabled())); err != nil {
		log.Printf("Failed to save enabled setting: %v", err)
	}
}

// publishState snapshots the tick output and panel geometry under the
// mutex, then invokes subscriber callbacks outside it.
func (a *App) publishState(out engine.TickOutput, now time.Time) {
	a.mu.Lock()
	panels := a.engine.Panels().Panels()
	st := State{
		Labels:    out.Labels,
		Cursor:    out.Cursor,
		Panels:    make([]engine.Panel, 0, len(panels)),
		HUDScale:  out.HUDScale,
		Timestamp: now.UnixMilli(),
	}
	for _, p := range panels {
		st.Panels = append(st.Panels, *p)
	}
	if out.Selected != nil {
		st.SelectedLabel = out.Selected.Label
	}
	a.state = st
	fns := a.stateFns
	a.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
