package engine

import (
	"fmt"
	"math"
	"time"
)

// Detection is one object observation for the current frame, in
// source-video pixel space. The external detector replaces the whole list
// every time it runs; detections carry no identity of their own.
type Detection struct {
	Box   Rect
	Label string
	Score float64
}

// TrackedDetection is the persistent record the Tracker derives from
// repeated observations of the same physical object.
type TrackedDetection struct {
	Key       string
	Box       Rect // exponentially smoothed, source-video pixels
	Label     string
	Score     float64 // exponentially smoothed
	FirstSeen time.Time
	LastSeen  time.Time
}

// TrackerConfig holds tuning parameters for the detection tracker.
type TrackerConfig struct {
	// CellSize is the identity quantization grid cell, in device pixels.
	CellSize float64

	// MaxHitDistance is the farthest a detection center may be from a
	// query point to count as a hit-test candidate, in device pixels.
	MaxHitDistance float64

	// PixelRatio scales CellSize and MaxHitDistance for high-DPI overlays.
	PixelRatio float64

	// BoxAlpha and ScoreAlpha are the exponential smoothing factors
	// applied on re-observation (new = lerp(old, incoming, alpha)).
	BoxAlpha   float64
	ScoreAlpha float64
}

// DefaultTrackerConfig returns a TrackerConfig with sensible default values.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CellSize:       28,
		MaxHitDistance: 150,
		PixelRatio:     1,
		BoxAlpha:       0.35,
		ScoreAlpha:     0.25,
	}
}

// Tracker assigns stable identities to the ephemeral per-frame detection
// list and serves hit-testing. It never removes records on its own;
// eviction of aged-out tracks is the Animator's call, made through Remove.
type Tracker struct {
	config TrackerConfig
	tracks map[string]*TrackedDetection
	order  []string // insertion order, for deterministic iteration
}

// NewTracker creates a Tracker with the given configuration.
func NewTracker(config TrackerConfig) *Tracker {
	if config.PixelRatio <= 0 {
		config.PixelRatio = 1
	}
	return &Tracker{
		config: config,
		tracks: make(map[string]*TrackedDetection),
	}
}

// identityKey recognizes "the same" object across frames: same label,
// center in the same quantization cell. The cell is fixed in device pixels
// so identity granularity tracks what the user actually sees.
func (t *Tracker) identityKey(d Detection, m Mapper) string {
	cell := t.config.CellSize * t.config.PixelRatio
	if cell <= 0 {
		cell = DefaultTrackerConfig().CellSize
	}
	center := m.Forward(Point{X: d.Box.CenterX(), Y: d.Box.CenterY()})
	cx := int(math.Floor(center.X / cell))
	cy := int(math.Floor(center.Y / cell))
	return fmt.Sprintf("%s:%d:%d", d.Label, cx, cy)
}

// Ingest folds one frame's detection list into the tracked set. Known
// identities are smoothed toward the incoming observation; new identities
// are created; tracks not re-observed this frame are left to age.
func (t *Tracker) Ingest(detections []Detection, m Mapper, now time.Time) {
	for _, d := range detections {
		key := t.identityKey(d, m)

		existing, ok := t.tracks[key]
		if !ok {
			t.tracks[key] = &TrackedDetection{
				Key:       key,
				Box:       d.Box,
				Label:     d.Label,
				Score:     d.Score,
				FirstSeen: now,
				LastSeen:  now,
			}
			t.order = append(t.order, key)
			continue
		}

		a := t.config.BoxAlpha
		existing.Box.X = lerp(existing.Box.X, d.Box.X, a)
		existing.Box.Y = lerp(existing.Box.Y, d.Box.Y, a)
		existing.Box.Width = lerp(existing.Box.Width, d.Box.Width, a)
		existing.Box.Height = lerp(existing.Box.Height, d.Box.Height, a)
		existing.Score = lerp(existing.Score, d.Score, t.config.ScoreAlpha)
		existing.LastSeen = now
	}
}

// HitTest resolves a point in overlay device pixels to the best-matching
// tracked detection. Containment wins outright; otherwise the nearest
// center is returned, gated by MaxHitDistance so an empty region of the
// screen never "selects" a distant object. Returns nil for no selection.
func (t *Tracker) HitTest(p Point, m Mapper) *TrackedDetection {
	var nearest *TrackedDetection
	nearestDist := math.MaxFloat64

	for _, key := range t.order {
		td, ok := t.tracks[key]
		if !ok {
			continue
		}

		box := m.ForwardRect(td.Box)
		if box.Contains(p) {
			return td
		}

		dx := box.CenterX() - p.X
		dy := box.CenterY() - p.Y
		dist := math.Hypot(dx, dy)
		if dist < nearestDist {
			nearestDist = dist
			nearest = td
		}
	}

	if nearest == nil || nearestDist > t.config.MaxHitDistance*t.config.PixelRatio {
		return nil
	}
	return nearest
}

// Get returns the tracked detection with the given identity key, or nil.
func (t *Tracker) Get(key string) *TrackedDetection {
	return t.tracks[key]
}

// Tracks returns the tracked detections in insertion order.
func (t *Tracker) Tracks() []*TrackedDetection {
	out := make([]*TrackedDetection, 0, len(t.order))
	for _, key := range t.order {
		if td, ok := t.tracks[key]; ok {
			out = append(out, td)
		}
	}
	return out
}

// Remove drops a tracked detection by identity key.
func (t *Tracker) Remove(key string) {
	if _, ok := t.tracks[key]; !ok {
		return
	}
	delete(t.tracks, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Reset discards all tracked detections.
func (t *Tracker) Reset() {
	t.tracks = make(map[string]*TrackedDetection)
	t.order = t.order[:0]
}

// lerp linearly interpolates from a toward b by factor alpha.
func lerp(a, b, alpha float64) float64 {
	return a + (b-a)*alpha
}
