package graph

import "math"

// Viewport scale limits and zoom sensitivity.
const (
	MinScale = 0.05
	MaxScale = 10.0

	// zoomBase is raised to the scroll delta to get the zoom factor.
	zoomBase = 1.0015
)

// Transform maps screen coordinates into world (graph) coordinates.
type Transform interface {
	ToWorld(sx, sy float64) (x, y float64)
	Scale() float64
}

// Viewport is a pan/zoom transform: screen = world*scale + offset.
// The zero value is not usable; start from [NewViewport].
type Viewport struct {
	scale   float64
	offsetX float64
	offsetY float64
}

// NewViewport returns an identity viewport.
func NewViewport() *Viewport {
	return &Viewport{scale: 1}
}

// Scale returns the current zoom factor.
func (v *Viewport) Scale() float64 { return v.scale }

// Offset returns the current pan offset in screen units.
func (v *Viewport) Offset() (x, y float64) { return v.offsetX, v.offsetY }

// ToWorld converts a screen point to world coordinates.
func (v *Viewport) ToWorld(sx, sy float64) (x, y float64) {
	return (sx - v.offsetX) / v.scale, (sy - v.offsetY) / v.scale
}

// ToScreen converts a world point to screen coordinates.
func (v *Viewport) ToScreen(x, y float64) (sx, sy float64) {
	return x*v.scale + v.offsetX, y*v.scale + v.offsetY
}

// Pan shifts the view by (dx, dy) screen units.
func (v *Viewport) Pan(dx, dy float64) {
	v.offsetX += dx
	v.offsetY += dy
}

// ZoomAt zooms by 1.0015^delta keeping the world point under (sx, sy)
// fixed on screen. Scale is clamped to [MinScale, MaxScale].
func (v *Viewport) ZoomAt(sx, sy, delta float64) {
	wx, wy := v.ToWorld(sx, sy)
	v.scale = clamp(v.scale*math.Pow(zoomBase, delta), MinScale, MaxScale)
	v.offsetX = sx - wx*v.scale
	v.offsetY = sy - wy*v.scale
}

// Fit scales and centers the graph's bounding box inside a w×h screen with
// the given margin.
func (v *Viewport) Fit(g *Graph, w, h, margin float64) {
	minX, minY, maxX, maxY := g.Bounds()
	spanX, spanY := maxX-minX, maxY-minY
	availX, availY := w-2*margin, h-2*margin
	if spanX <= 0 || spanY <= 0 || availX <= 0 || availY <= 0 {
		v.scale = 1
		v.offsetX, v.offsetY = margin-minX, margin-minY
		return
	}
	v.scale = clamp(math.Min(availX/spanX, availY/spanY), MinScale, MaxScale)
	v.offsetX = (w-spanX*v.scale)/2 - minX*v.scale
	v.offsetY = (h-spanY*v.scale)/2 - minY*v.scale
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
