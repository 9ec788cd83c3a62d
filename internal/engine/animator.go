package engine

import "time"

// AnimatorConfig holds the timing curve for label fade and pop animation.
type AnimatorConfig struct {
	// FadeIn is how long a label takes to reach full opacity after its
	// detection first appears.
	FadeIn time.Duration

	// FadeHold is how long after the last observation fading out begins,
	// and FadeOut how long the fade then takes. A detection briefly lost
	// between detector runs never flickers.
	FadeHold time.Duration
	FadeOut  time.Duration

	// PopDuration and PopScale shape the small scale "pop" on first
	// appearance: scale = 1 + PopScale*(1 - clamp01(age/PopDuration)).
	PopDuration time.Duration
	PopScale    float64

	// EvictOpacity and EvictAfter gate eviction: a record is dropped only
	// once its opacity has collapsed AND it has gone unseen long enough.
	// The double condition keeps a mid-fade-in label that is briefly
	// unseen from being evicted.
	EvictOpacity float64
	EvictAfter   time.Duration
}

// DefaultAnimatorConfig returns an AnimatorConfig with sensible default
// values.
func DefaultAnimatorConfig() AnimatorConfig {
	return AnimatorConfig{
		FadeIn:       160 * time.Millisecond,
		FadeHold:     250 * time.Millisecond,
		FadeOut:      240 * time.Millisecond,
		PopDuration:  220 * time.Millisecond,
		PopScale:     0.06,
		EvictOpacity: 0.02,
		EvictAfter:   700 * time.Millisecond,
	}
}

// Label is one HUD label ready to render: the detection's screen-space box
// plus its animation state for this tick.
type Label struct {
	Key     string  `json:"key"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
	Box     Rect    `json:"box"`     // overlay device pixels
	Opacity float64 `json:"opacity"` // 0..1
	Scale   float64 `json:"scale"`   // pop scale about the label's own center
}

// Animator turns tracked detections into smoothly fading HUD labels,
// decoupled from per-frame detection noise. It is purely presentational:
// hit-testing and routing always use the Tracker's raw boxes. Eviction of
// fully faded tracks is the one piece of lifecycle it owns.
type Animator struct {
	config AnimatorConfig
}

// NewAnimator creates an Animator with the given configuration.
func NewAnimator(config AnimatorConfig) *Animator {
	return &Animator{config: config}
}

// Opacity computes the animated opacity for a detection first seen at
// firstSeen and last seen at lastSeen, as of now.
func (a *Animator) Opacity(firstSeen, lastSeen, now time.Time) float64 {
	age := now.Sub(firstSeen)
	sinceSeen := now.Sub(lastSeen)

	fadeIn := clamp01(float64(age) / float64(a.config.FadeIn))
	fadeOut := clamp01(float64(sinceSeen-a.config.FadeHold) / float64(a.config.FadeOut))
	return fadeIn * (1 - fadeOut)
}

// popScale computes the appearance pop for a detection of the given age.
func (a *Animator) popScale(age time.Duration) float64 {
	return 1 + a.config.PopScale*(1-clamp01(float64(age)/float64(a.config.PopDuration)))
}

// Advance computes this tick's labels from the tracker's current records,
// evicting any record whose fade has fully completed. Labels are returned
// in the tracker's insertion order.
func (a *Animator) Advance(t *Tracker, m Mapper, now time.Time) []Label {
	tracks := t.Tracks()
	labels := make([]Label, 0, len(tracks))

	for _, td := range tracks {
		opacity := a.Opacity(td.FirstSeen, td.LastSeen, now)
		sinceSeen := now.Sub(td.LastSeen)

		if opacity <= a.config.EvictOpacity && sinceSeen > a.config.EvictAfter {
			t.Remove(td.Key)
			continue
		}

		labels = append(labels, Label{
			Key:     td.Key,
			Text:    td.Label,
			Score:   td.Score,
			Box:     m.ForwardRect(td.Box),
			Opacity: opacity,
			Scale:   a.popScale(now.Sub(td.FirstSeen)),
		})
	}

	return labels
}

// clamp01 clamps v to the [0,1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
