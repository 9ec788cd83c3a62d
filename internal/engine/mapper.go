package engine

// Fallback source resolution used before the video stream reports its
// intrinsic size. Keeps the mapper free of divisions by zero.
const (
	FallbackSourceWidth  = 1280
	FallbackSourceHeight = 720
)

// Point is a 2D coordinate. The space it lives in (source-video pixels or
// overlay device pixels) depends on which side of the Mapper it is on.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Mapper converts between source-video pixel space and overlay device-pixel
// space under a "cover" fit: the video fills the container, preserving
// aspect ratio, cropping overflow, centered. A Mapper is a plain value
// recomputed every tick; it caches nothing that could go stale.
type Mapper struct {
	ContainerWidth  float64
	ContainerHeight float64
	SourceWidth     float64
	SourceHeight    float64
	Mirrored        bool

	scale   float64
	offsetX float64
	offsetY float64
}

// NewMapper builds a Mapper for the given container (device pixels) and
// source (video pixels) sizes. Zero or negative source dimensions fall back
// to 1280x720 so the mapper never divides by zero.
func NewMapper(containerW, containerH, sourceW, sourceH float64, mirrored bool) Mapper {
	if sourceW <= 0 || sourceH <= 0 {
		sourceW = FallbackSourceWidth
		sourceH = FallbackSourceHeight
	}

	scale := containerW / sourceW
	if vs := containerH / sourceH; vs > scale {
		scale = vs
	}

	drawW := sourceW * scale
	drawH := sourceH * scale

	return Mapper{
		ContainerWidth:  containerW,
		ContainerHeight: containerH,
		SourceWidth:     sourceW,
		SourceHeight:    sourceH,
		Mirrored:        mirrored,
		scale:           scale,
		offsetX:         (containerW - drawW) / 2,
		offsetY:         (containerH - drawH) / 2,
	}
}

// Scale returns the video-to-device scale factor of the cover fit.
func (m Mapper) Scale() float64 { return m.scale }

// Forward maps a point in source-video pixels to overlay device pixels.
func (m Mapper) Forward(p Point) Point {
	x := m.offsetX + p.X*m.scale
	if m.Mirrored {
		x = m.ContainerWidth - x
	}
	return Point{X: x, Y: m.offsetY + p.Y*m.scale}
}

// ForwardNormalized maps a point in [0,1]x[0,1] video-relative coordinates
// (the hand-landmark convention) to overlay device pixels.
func (m Mapper) ForwardNormalized(p Point) Point {
	return m.Forward(Point{X: p.X * m.SourceWidth, Y: p.Y * m.SourceHeight})
}

// ForwardRect maps a rectangle in source-video pixels to overlay device
// pixels. Under mirroring the left edge of the result comes from the
// source rectangle's right edge.
func (m Mapper) ForwardRect(r Rect) Rect {
	x := m.offsetX + r.X*m.scale
	w := r.Width * m.scale
	if m.Mirrored {
		x = m.ContainerWidth - x - w
	}
	return Rect{
		X:      x,
		Y:      m.offsetY + r.Y*m.scale,
		Width:  w,
		Height: r.Height * m.scale,
	}
}

// Inverse maps a point in overlay device pixels back to source-video
// pixels. It is the exact algebraic inverse of Forward up to floating-point
// rounding.
func (m Mapper) Inverse(p Point) Point {
	x := p.X
	if m.Mirrored {
		x = m.ContainerWidth - x
	}
	return Point{
		X: (x - m.offsetX) / m.scale,
		Y: (p.Y - m.offsetY) / m.scale,
	}
}

// InverseRect maps a rectangle in overlay device pixels back to
// source-video pixels.
func (m Mapper) InverseRect(r Rect) Rect {
	x := r.X
	if m.Mirrored {
		x = m.ContainerWidth - r.X - r.Width
	}
	return Rect{
		X:      (x - m.offsetX) / m.scale,
		Y:      (r.Y - m.offsetY) / m.scale,
		Width:  r.Width / m.scale,
		Height: r.Height / m.scale,
	}
}
