package engine

import (
	"math"
	"testing"
)

func TestMapper_RoundTrip(t *testing.T) {
	tests := []struct {
		name                   string
		containerW, containerH float64
		sourceW, sourceH       float64
		mirrored               bool
	}{
		{"landscape into portrait", 600, 800, 1280, 720, false},
		{"portrait into landscape", 800, 600, 720, 1280, false},
		{"same aspect", 640, 360, 1280, 720, false},
		{"mirrored", 800, 600, 1280, 720, true},
		{"high dpi", 2560, 1440, 1920, 1080, false},
	}

	points := []Point{
		{X: 0, Y: 0},
		{X: 640, Y: 360},
		{X: 100.5, Y: 77.25},
		{X: 1279, Y: 719},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(tt.containerW, tt.containerH, tt.sourceW, tt.sourceH, tt.mirrored)

			for _, p := range points {
				back := m.Inverse(m.Forward(p))
				if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
					t.Errorf("round trip of (%f, %f) = (%f, %f)", p.X, p.Y, back.X, back.Y)
				}
			}
		})
	}
}

func TestMapper_RectRoundTrip(t *testing.T) {
	for _, mirrored := range []bool{false, true} {
		m := NewMapper(800, 600, 1280, 720, mirrored)
		r := Rect{X: 100, Y: 100, Width: 50, Height: 50}

		back := m.InverseRect(m.ForwardRect(r))
		if math.Abs(back.X-r.X) > 1e-9 || math.Abs(back.Y-r.Y) > 1e-9 ||
			math.Abs(back.Width-r.Width) > 1e-9 || math.Abs(back.Height-r.Height) > 1e-9 {
			t.Errorf("mirrored=%v: rect round trip = %+v, want %+v", mirrored, back, r)
		}
	}
}

// 1280x720 video covering an 800x600 overlay: scale = max(800/1280,
// 600/720) = 0.8333, so the video overflows horizontally and is centered.
func TestMapper_CoverFitScenario(t *testing.T) {
	m := NewMapper(800, 600, 1280, 720, false)

	wantScale := 600.0 / 720.0
	if math.Abs(m.Scale()-wantScale) > 1e-9 {
		t.Fatalf("scale = %f, want %f", m.Scale(), wantScale)
	}

	// drawW = 1280*0.8333 = 1066.67, so offsetX = (800-1066.67)/2 = -133.33
	got := m.ForwardRect(Rect{X: 100, Y: 100, Width: 50, Height: 50})

	offsetX := (800 - 1280*wantScale) / 2
	want := Rect{X: offsetX + 100*wantScale, Y: 100 * wantScale, Width: 50 * wantScale, Height: 50 * wantScale}

	if math.Abs(got.X-want.X) > 0.5 || math.Abs(got.Y-want.Y) > 0.5 ||
		math.Abs(got.Width-want.Width) > 0.5 || math.Abs(got.Height-want.Height) > 0.5 {
		t.Errorf("ForwardRect = %+v, want %+v within 0.5px", got, want)
	}

	// Scaled box dimensions from the source rect: 41.7x41.7 at 83.3+offset.
	if math.Abs(got.Width-41.7) > 0.5 {
		t.Errorf("width = %f, want 41.7 within 0.5px", got.Width)
	}
}

func TestMapper_Mirrored(t *testing.T) {
	m := NewMapper(1280, 720, 1280, 720, true)

	// Same aspect, so scale=1 and no offsets: x flips about the container.
	got := m.Forward(Point{X: 100, Y: 50})
	if math.Abs(got.X-1180) > 1e-9 || math.Abs(got.Y-50) > 1e-9 {
		t.Errorf("Forward = (%f, %f), want (1180, 50)", got.X, got.Y)
	}

	// Rect: left edge comes from the source rect's right edge.
	gotRect := m.ForwardRect(Rect{X: 100, Y: 50, Width: 60, Height: 40})
	if math.Abs(gotRect.X-1120) > 1e-9 {
		t.Errorf("mirrored rect X = %f, want 1120", gotRect.X)
	}
	if math.Abs(gotRect.Y-50) > 1e-9 || math.Abs(gotRect.Width-60) > 1e-9 {
		t.Errorf("mirrored rect = %+v", gotRect)
	}
}

func TestMapper_ZeroSourceFallsBack(t *testing.T) {
	m := NewMapper(800, 600, 0, 0, false)

	if m.SourceWidth != FallbackSourceWidth || m.SourceHeight != FallbackSourceHeight {
		t.Errorf("source = %fx%f, want fallback %dx%d",
			m.SourceWidth, m.SourceHeight, FallbackSourceWidth, FallbackSourceHeight)
	}

	// Must still be usable: no NaN or Inf from a division by zero.
	p := m.Forward(Point{X: 100, Y: 100})
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		t.Errorf("Forward produced non-finite point (%f, %f)", p.X, p.Y)
	}
}

func TestMapper_ForwardNormalized(t *testing.T) {
	m := NewMapper(1280, 720, 1280, 720, false)

	got := m.ForwardNormalized(Point{X: 0.5, Y: 0.5})
	if math.Abs(got.X-640) > 1e-9 || math.Abs(got.Y-360) > 1e-9 {
		t.Errorf("ForwardNormalized = (%f, %f), want (640, 360)", got.X, got.Y)
	}
}
