// Package canvas keeps the interactive state of a wall: the background's
// pan/zoom, the hold being edited and the holds already placed on it.
//
// All coordinates are viewport points with the origin at the top-left and y
// growing downwards. Angles are radians, positive clockwise on screen.
package canvas

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Rotate rotates p about the origin by theta.
func (p Point) Rotate(theta float64) Point {
	sin, cos := math.Sincos(theta)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) Center() Point {
	return Point{s.Width / 2, s.Height / 2}
}

// AspectFit scales content uniformly to fit inside container.
func AspectFit(content, container Size) Size {
	if !content.Valid() || !container.Valid() {
		return Size{}
	}
	k := math.Min(container.Width/content.Width, container.Height/content.Height)
	return Size{content.Width * k, content.Height * k}
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
