package engine

// PanelRegion identifies which part of a panel a point falls in.
type PanelRegion int

const (
	// RegionNone means the point is outside the panel.
	RegionNone PanelRegion = iota
	// RegionHeader is the top strip used to drag the panel.
	RegionHeader
	// RegionCorner is the bottom-right corner used to resize the panel.
	RegionCorner
	// RegionBody is anywhere else inside the panel.
	RegionBody
)

// Panel is a floating rectangle in overlay device pixels. Geometry is
// mutated exclusively through the Router's grab protocol.
type Panel struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Z      int     `json:"z"`
}

// Bounds returns the panel's rectangle.
func (p *Panel) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// PanelSetConfig holds layout constraints for floating panels.
type PanelSetConfig struct {
	// Margin keeps panels this many pixels inside the viewport edges.
	Margin float64

	// DockHeight reserves a strip at the bottom of the viewport that
	// panels may not be dragged into.
	DockHeight float64

	// HeaderHeight is the draggable strip at the top of each panel, and
	// CornerSize the square resize region at the bottom-right corner.
	HeaderHeight float64
	CornerSize   float64

	// Size clamps applied while resizing.
	MinWidth  float64
	MinHeight float64
	MaxWidth  float64
	MaxHeight float64
}

// DefaultPanelSetConfig returns a PanelSetConfig with sensible default
// values.
func DefaultPanelSetConfig() PanelSetConfig {
	return PanelSetConfig{
		Margin:       8,
		DockHeight:   72,
		HeaderHeight: 36,
		CornerSize:   60,
		MinWidth:     120,
		MinHeight:    90,
		MaxWidth:     720,
		MaxHeight:    540,
	}
}

// PanelSet owns the floating panels: z-order, hit-testing, and the
// geometry clamps applied during drags and resizes.
type PanelSet struct {
	config    PanelSetConfig
	panels    []*Panel
	nextZ     int
	viewportW float64
	viewportH float64
}

// NewPanelSet creates an empty PanelSet with the given configuration.
func NewPanelSet(config PanelSetConfig) *PanelSet {
	return &PanelSet{config: config, nextZ: 1}
}

// Config returns the layout constraints.
func (s *PanelSet) Config() PanelSetConfig { return s.config }

// SetViewport updates the viewport size panels are clamped against.
func (s *PanelSet) SetViewport(w, h float64) {
	s.viewportW = w
	s.viewportH = h
}

// Add registers a panel, placing it on top of the z-order.
func (s *PanelSet) Add(p *Panel) {
	p.Z = s.nextZ
	s.nextZ++
	s.panels = append(s.panels, p)
}

// Panels returns all panels in registration order.
func (s *PanelSet) Panels() []*Panel {
	return s.panels
}

// Get returns the panel with the given ID, or nil.
func (s *PanelSet) Get(id string) *Panel {
	for _, p := range s.panels {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PanelPatch is a partial geometry update. Nil fields leave the current
// value untouched.
type PanelPatch struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
}

// Apply patches the panel with the given ID and clamps the result the
// same way gesture-driven moves are clamped. Reports whether the panel
// exists.
func (s *PanelSet) Apply(id string, patch PanelPatch) (Panel, bool) {
	p := s.Get(id)
	if p == nil {
		return Panel{}, false
	}
	if patch.Width != nil {
		p.Width = *patch.Width
	}
	if patch.Height != nil {
		p.Height = *patch.Height
	}
	if patch.X != nil {
		p.X = *patch.X
	}
	if patch.Y != nil {
		p.Y = *patch.Y
	}
	s.ClampSize(p)
	return *p, true
}

// PanelAt returns the topmost panel containing the point, or nil.
func (s *PanelSet) PanelAt(pt Point) *Panel {
	var top *Panel
	for _, p := range s.panels {
		if !p.Bounds().Contains(pt) {
			continue
		}
		if top == nil || p.Z > top.Z {
			top = p
		}
	}
	return top
}

// Region classifies where the point falls within the panel. The resize
// corner wins over the header for very small panels where they overlap.
func (s *PanelSet) Region(p *Panel, pt Point) PanelRegion {
	if !p.Bounds().Contains(pt) {
		return RegionNone
	}
	if pt.X >= p.X+p.Width-s.config.CornerSize && pt.Y >= p.Y+p.Height-s.config.CornerSize {
		return RegionCorner
	}
	if pt.Y <= p.Y+s.config.HeaderHeight {
		return RegionHeader
	}
	return RegionBody
}

// Raise moves the panel to the top of the z-order. The counter only ever
// grows, so relative order of untouched panels is preserved.
func (s *PanelSet) Raise(p *Panel) {
	p.Z = s.nextZ
	s.nextZ++
}

// ClampPosition constrains a panel's origin so it stays inside the
// viewport minus the margin and the reserved bottom dock strip.
func (s *PanelSet) ClampPosition(p *Panel) {
	maxX := s.viewportW - p.Width - s.config.Margin
	maxY := s.viewportH - p.Height - s.config.Margin - s.config.DockHeight

	p.X = clampRange(p.X, s.config.Margin, maxX)
	p.Y = clampRange(p.Y, s.config.Margin, maxY)
}

// ClampSize constrains a panel's size to the configured min/max range,
// then re-clamps its position in case growth pushed it off-screen.
func (s *PanelSet) ClampSize(p *Panel) {
	p.Width = clampRange(p.Width, s.config.MinWidth, s.config.MaxWidth)
	p.Height = clampRange(p.Height, s.config.MinHeight, s.config.MaxHeight)
	s.ClampPosition(p)
}

// clampRange clamps v into [lo, hi]. When the range is inverted (panel
// larger than the viewport) the lower bound wins.
func clampRange(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
