package engine

import (
	"math"
	"testing"
	"time"
)

func TestAnimator_FadeInRamp(t *testing.T) {
	a := NewAnimator(DefaultAnimatorConfig())
	t0 := time.Now()

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{0, 0},
		{80 * time.Millisecond, 0.5},
		{160 * time.Millisecond, 1},
		{200 * time.Millisecond, 1},
	}

	for _, tt := range tests {
		now := t0.Add(tt.at)
		got := a.Opacity(t0, now, now) // still being observed
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("opacity at %v = %f, want %f", tt.at, got, tt.want)
		}
	}
}

// For a detection last seen at T and never again, opacity is non-increasing
// after T+250ms and reaches exactly 0 at T+490ms.
func TestAnimator_FadeMonotonicity(t *testing.T) {
	a := NewAnimator(DefaultAnimatorConfig())
	first := time.Now()
	last := first.Add(time.Second) // old enough that fade-in is complete

	prev := math.Inf(1)
	for offset := 250 * time.Millisecond; offset <= 600*time.Millisecond; offset += 10 * time.Millisecond {
		got := a.Opacity(first, last, last.Add(offset))
		if got > prev+1e-9 {
			t.Fatalf("opacity increased at +%v: %f -> %f", offset, prev, got)
		}
		prev = got
	}

	if got := a.Opacity(first, last, last.Add(490*time.Millisecond)); got != 0 {
		t.Errorf("opacity at T+490ms = %f, want exactly 0", got)
	}
}

func TestAnimator_HoldBeforeFade(t *testing.T) {
	a := NewAnimator(DefaultAnimatorConfig())
	first := time.Now()
	last := first.Add(time.Second)

	// 200ms unseen is within the 250ms hold: still fully opaque.
	if got := a.Opacity(first, last, last.Add(200*time.Millisecond)); got != 1 {
		t.Errorf("opacity during hold = %f, want 1", got)
	}
}

func TestAnimator_PopScale(t *testing.T) {
	a := NewAnimator(DefaultAnimatorConfig())

	if got := a.popScale(0); math.Abs(got-1.06) > 1e-9 {
		t.Errorf("pop at age 0 = %f, want 1.06", got)
	}
	if got := a.popScale(220 * time.Millisecond); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("pop at age 220ms = %f, want 1.0", got)
	}
}

func TestAnimator_AdvanceEvictsFadedTracks(t *testing.T) {
	a := NewAnimator(DefaultAnimatorConfig())
	tr := NewTracker(DefaultTrackerConfig())
	m := identityMapper()
	t0 := time.Now()

	tr.Ingest([]Detection{{Box: Rect{X: 100, Y: 100, Width: 50, Height: 50}, Label: "cup", Score: 0.9}}, m, t0)

	// Well past fade-out and the eviction window.
	labels := a.Advance(tr, m, t0.Add(2*time.Second))
	if len(labels) != 0 {
		t.Errorf("expected no labels for fully faded track, got %d", len(labels))
	}
	if got := len(tr.Tracks()); got != 0 {
		t.Errorf("expected track evicted from tracker, got %d tracks", got)
	}
}

// A detection that is mid-fade-in but briefly unseen must not be evicted:
// its opacity is still tiny, but it has not been unseen long enough.
func TestAnimator_NoEvictionMidFadeIn(t *testing.T) {
	a := NewAnimator(DefaultAnimatorConfig())
	tr := NewTracker(DefaultTrackerConfig())
	m := identityMapper()
	t0 := time.Now()

	tr.Ingest([]Detection{{Box: Rect{X: 100, Y: 100, Width: 50, Height: 50}, Label: "cup", Score: 0.9}}, m, t0)

	// 5ms old: opacity ~0.03 but fade-in is in progress and the track was
	// just seen.
	labels := a.Advance(tr, m, t0.Add(5*time.Millisecond))
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	if got := len(tr.Tracks()); got != 1 {
		t.Errorf("mid-fade-in track was evicted")
	}
}

func TestAnimator_LabelGeometry(t *testing.T) {
	a := NewAnimator(DefaultAnimatorConfig())
	tr := NewTracker(DefaultTrackerConfig())
	m := NewMapper(640, 360, 1280, 720, false) // scale 0.5
	t0 := time.Now()

	tr.Ingest([]Detection{{Box: Rect{X: 100, Y: 100, Width: 50, Height: 50}, Label: "cup", Score: 0.9}}, m, t0)

	labels := a.Advance(tr, m, t0.Add(200*time.Millisecond))
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}

	got := labels[0]
	if got.Text != "cup" {
		t.Errorf("label text = %q, want cup", got.Text)
	}
	want := Rect{X: 50, Y: 50, Width: 25, Height: 25}
	if math.Abs(got.Box.X-want.X) > 1e-9 || math.Abs(got.Box.Width-want.Width) > 1e-9 {
		t.Errorf("label box = %+v, want %+v", got.Box, want)
	}
	if got.Opacity != 1 {
		t.Errorf("label opacity = %f, want 1", got.Opacity)
	}
}
