package engine

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

func TestEngine_TickMapsDetectionsToLabels(t *testing.T) {
	e := New(DefaultConfig(), nil)
	now := time.Now()

	out := e.Tick(TickInput{
		Now:             now,
		ContainerWidth:  800,
		ContainerHeight: 600,
		SourceWidth:     1280,
		SourceHeight:    720,
		Detections: []Detection{
			{Box: Rect{X: 100, Y: 100, Width: 50, Height: 50}, Label: "cup", Score: 0.9},
		},
	})

	if len(out.Labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(out.Labels))
	}

	// scale = max(800/1280, 600/720) = 0.8333; horizontal centering offset
	// is negative because the video overflows the container.
	scale := 600.0 / 720.0
	offsetX := (800 - 1280*scale) / 2
	box := out.Labels[0].Box
	if math.Abs(box.X-(offsetX+100*scale)) > 0.5 || math.Abs(box.Y-100*scale) > 0.5 {
		t.Errorf("label box origin = (%f, %f), want (%f, %f) within 0.5px",
			box.X, box.Y, offsetX+100*scale, 100*scale)
	}
	if math.Abs(box.Width-41.7) > 0.5 || math.Abs(box.Height-41.7) > 0.5 {
		t.Errorf("label box size = (%f, %f), want (41.7, 41.7) within 0.5px", box.Width, box.Height)
	}
}

func TestEngine_NilDetectionsKeepTracks(t *testing.T) {
	e := New(DefaultConfig(), nil)
	now := time.Now()

	in := TickInput{
		Now:             now,
		ContainerWidth:  1280,
		ContainerHeight: 720,
		SourceWidth:     1280,
		SourceHeight:    720,
		Detections: []Detection{
			{Box: Rect{X: 100, Y: 100, Width: 50, Height: 50}, Label: "cup", Score: 0.9},
		},
	}
	e.Tick(in)

	// Subsequent ticks without a fresh detector result (nil list) keep the
	// track alive through the fade-hold window.
	in.Detections = nil
	in.Now = now.Add(100 * time.Millisecond)
	out := e.Tick(in)

	if len(out.Labels) != 1 {
		t.Errorf("expected track to survive a stale-detector tick, got %d labels", len(out.Labels))
	}
}

func TestEngine_CursorFromHand(t *testing.T) {
	e := New(DefaultConfig(), nil)
	relaxed := detector.RelaxedLandmarks()

	out := e.Tick(TickInput{
		Now:             time.Now(),
		ContainerWidth:  1280,
		ContainerHeight: 720,
		SourceWidth:     1280,
		SourceHeight:    720,
		Hand:            &relaxed,
	})

	if out.Cursor == nil {
		t.Fatal("expected cursor after a hand frame")
	}

	tip := relaxed.Points[detector.IndexTip]
	if math.Abs(out.Cursor.X-tip.X*1280) > 1e-9 || math.Abs(out.Cursor.Y-tip.Y*720) > 1e-9 {
		t.Errorf("cursor = %+v", out.Cursor)
	}
}

// Pinch over a panel header, move, release: the panel follows the hand.
func TestEngine_PinchDragsPanel(t *testing.T) {
	e := New(DefaultConfig(), nil)
	p := &Panel{ID: "hud", X: 600, Y: 300, Width: 300, Height: 200}
	e.Panels().Add(p)

	now := time.Now()
	in := TickInput{
		ContainerWidth:  1280,
		ContainerHeight: 720,
		SourceWidth:     1280,
		SourceHeight:    720,
	}

	// Index tip at (0.5, 0.43) maps to (640, ~310): inside the header.
	pinch := detector.PinchLandmarks()
	setIndexTip(&pinch, 0.5, 0.43)
	in.Now = now
	in.Hand = &pinch
	e.Tick(in)

	if e.Router().Grab() == nil {
		t.Fatal("expected grab after pinch on header")
	}

	moved := detector.PinchLandmarks()
	setIndexTip(&moved, 0.55, 0.5)
	in.Now = now.Add(16 * time.Millisecond)
	in.Hand = &moved
	e.Tick(in)

	// Pointer moved by (64, ~50.4) device pixels.
	if math.Abs(p.X-664) > 1e-9 {
		t.Errorf("panel X = %f, want 664", p.X)
	}

	release := detector.RelaxedLandmarks()
	in.Now = now.Add(32 * time.Millisecond)
	in.Hand = &release
	e.Tick(in)

	if e.Router().Grab() != nil {
		t.Error("grab survived release")
	}
}

func TestEngine_StopForcesRelease(t *testing.T) {
	e := New(DefaultConfig(), nil)
	p := &Panel{ID: "hud", X: 600, Y: 300, Width: 300, Height: 200}
	e.Panels().Add(p)

	pinch := detector.PinchLandmarks()
	setIndexTip(&pinch, 0.5, 0.43)
	e.Tick(TickInput{
		Now:             time.Now(),
		ContainerWidth:  1280,
		ContainerHeight: 720,
		SourceWidth:     1280,
		SourceHeight:    720,
		Detections: []Detection{
			{Box: Rect{X: 100, Y: 100, Width: 50, Height: 50}, Label: "cup", Score: 0.9},
		},
		Hand: &pinch,
	})

	if e.Router().Grab() == nil {
		t.Fatal("expected grab before stop")
	}

	e.Stop()

	if e.Router().Grab() != nil {
		t.Error("grab survived Stop")
	}
	if got := len(e.Tracker().Tracks()); got != 0 {
		t.Errorf("tracks survived Stop: %d", got)
	}
}

// setIndexTip repositions the index fingertip while dragging the rest of
// the pinch cluster with it, so the pose keeps reading as a pinch.
func setIndexTip(hand *detector.HandLandmarks, x, y float64) {
	dx := x - hand.Points[detector.IndexTip].X
	dy := y - hand.Points[detector.IndexTip].Y
	for i := 0; i < detector.NumLandmarks; i++ {
		hand.Points[i].X += dx
		hand.Points[i].Y += dy
	}
}
