package canvas

import "math"

// MinScale is the smallest committed background zoom.
const MinScale = 1.0

// View is the background's displayed transform: a zoom about the viewport
// centre followed by an offset.
type View struct {
	Scale  float64 `json:"scale"`
	Offset Point   `json:"offset"`
}

// PanZoom tracks the background's zoom and pan in response to pinch and drag
// gestures. Gesture values are cumulative since the gesture began.
type PanZoom struct {
	viewport Size
	content  Size
	maxScale float64

	scale         float64
	lastMagnitude float64

	// offset is committed at the end of a drag, liveOffset is what is displayed.
	offset     Point
	liveOffset Point
}

// NewPanZoom fits an image of imageSize into viewport.
func NewPanZoom(viewport, imageSize Size, maxScale float64) *PanZoom {
	return &PanZoom{
		viewport:      viewport,
		content:       AspectFit(imageSize, viewport),
		maxScale:      math.Max(maxScale, MinScale),
		scale:         1,
		lastMagnitude: 1,
	}
}

func (p *PanZoom) View() View {
	return View{Scale: p.scale, Offset: p.liveOffset}
}

func (p *PanZoom) Viewport() Size { return p.viewport }

// Content is the background's displayed size at zoom 1.
func (p *PanZoom) Content() Size { return p.content }

func (p *PanZoom) MaxScale() float64 { return p.maxScale }

// Overflow is how far the scaled background may be dragged from centre on each axis.
func (p *PanZoom) Overflow() Point {
	w := p.content.Width * p.scale
	h := p.content.Height * p.scale
	return Point{
		X: math.Max(w-p.viewport.Width, 0) / 2,
		Y: math.Max(h-p.viewport.Height, 0) / 2,
	}
}

func (p *PanZoom) clampOffset(o Point) Point {
	w := p.content.Width * p.scale
	h := p.content.Height * p.scale
	// a background that fits the viewport stays centred
	if w <= p.viewport.Width && h <= p.viewport.Height {
		return Point{}
	}
	over := p.Overflow()
	return Point{
		X: clamp(o.X, -over.X, over.X),
		Y: clamp(o.Y, -over.Y, over.Y),
	}
}

// PanChanged moves the background by the drag's cumulative translation.
func (p *PanZoom) PanChanged(translation Point) {
	p.liveOffset = p.clampOffset(p.offset.Add(translation))
}

func (p *PanZoom) PanEnded() {
	p.offset = p.liveOffset
}

// ZoomChanged applies the pinch's cumulative magnification. Non-positive
// magnitudes are ignored.
func (p *PanZoom) ZoomChanged(magnitude float64) {
	if magnitude <= 0 {
		return
	}
	p.scale *= magnitude / p.lastMagnitude
	p.lastMagnitude = magnitude
}

// ZoomEnded clamps the scale into [MinScale, MaxScale] and pulls the offset
// back inside the new overflow bounds.
func (p *PanZoom) ZoomEnded() {
	p.scale = clamp(p.scale, MinScale, p.maxScale)
	p.lastMagnitude = 1
	p.offset = p.clampOffset(p.offset)
	p.liveOffset = p.clampOffset(p.liveOffset)
}

// Resize refits the background to a new viewport, keeping zoom.
func (p *PanZoom) Resize(viewport, imageSize Size) {
	p.viewport = viewport
	p.content = AspectFit(imageSize, viewport)
	p.offset = p.clampOffset(p.offset)
	p.liveOffset = p.clampOffset(p.liveOffset)
}

// ToWall maps a viewport point to normalized wall coordinates, (0,0) being the
// background's top-left corner and (1,1) its bottom-right.
func (p *PanZoom) ToWall(s Point) Point {
	c := p.viewport.Center()
	d := s.Sub(c).Sub(p.liveOffset).Mul(1 / p.scale)
	return Point{
		X: d.X/p.content.Width + 0.5,
		Y: d.Y/p.content.Height + 0.5,
	}
}

// ToScreen is the inverse of ToWall.
func (p *PanZoom) ToScreen(u Point) Point {
	d := Point{(u.X - 0.5) * p.content.Width, (u.Y - 0.5) * p.content.Height}
	return p.viewport.Center().Add(p.liveOffset).Add(d.Mul(p.scale))
}
