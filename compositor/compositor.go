// Package compositor rasterizes hold overlays onto a wall image
package compositor

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Placement positions an overlay in destination pixels. The overlay's
// top-left corner lands on (X, Y); scale and rotation (radians, clockwise)
// apply about that corner.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// Layer is one overlay to flatten.
type Layer struct {
	Image image.Image
	Placement
}

// affine maps overlay pixel coordinates to destination coordinates.
func affine(sr image.Rectangle, p Placement) f64.Aff3 {
	sin, cos := math.Sincos(p.Rotation)
	a, b := p.Scale*cos, -p.Scale*sin
	d, e := p.Scale*sin, p.Scale*cos
	minX, minY := float64(sr.Min.X), float64(sr.Min.Y)
	return f64.Aff3{
		a, b, p.X - a*minX - b*minY,
		d, e, p.Y - d*minX - e*minY,
	}
}

// Draw alpha-composites overlay onto dst ("over", full opacity). Pixels
// outside the transformed overlay are left untouched.
func Draw(dst draw.Image, overlay image.Image, p Placement) {
	if overlay == nil || p.Scale <= 0 {
		return
	}
	sr := overlay.Bounds()
	xdraw.BiLinear.Transform(dst, affine(sr, p), overlay, sr, xdraw.Over, nil)
}

// Copy returns an RGBA copy of img with its top-left corner at the origin.
func Copy(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Composite bakes one overlay into a copy of background. p is expressed in
// viewport points; viewportWidth is the width the background was displayed
// at, so every coordinate and the overlay size are multiplied by
// background.width / viewportWidth. The background itself is not modified.
func Composite(background, overlay image.Image, p Placement, viewportWidth float64) *image.RGBA {
	out := Copy(background)

	f := 1.0
	if viewportWidth > 0 {
		f = float64(out.Bounds().Dx()) / viewportWidth
	}
	Draw(out, overlay, Placement{
		X:        p.X * f,
		Y:        p.Y * f,
		Scale:    p.Scale * f,
		Rotation: p.Rotation,
	})
	return out
}

// Flatten draws every layer, in order, onto a copy of background.
func Flatten(background image.Image, layers []Layer) *image.RGBA {
	out := Copy(background)
	for _, l := range layers {
		Draw(out, l.Image, l.Placement)
	}
	return out
}
