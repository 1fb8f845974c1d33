package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
)

var (
	gray = color.RGBA{90, 90, 90, 255}
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func TestComposite_Footprint(t *testing.T) {
	bg := solid(200, 200, gray)
	// vary the background so "unchanged" is a real check
	for x := 0; x < 200; x++ {
		bg.SetRGBA(x, x, color.RGBA{uint8(x), 10, 20, 255})
	}
	original := Copy(bg)
	overlay := solid(100, 100, red)

	out := Composite(bg, overlay, Placement{X: 50, Y: 50, Scale: 1}, 200)

	footprint := image.Rect(50, 50, 150, 150)
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			got := out.RGBAAt(x, y)
			if (image.Point{x, y}).In(footprint) {
				if got != red {
					t.Fatalf("pixel (%d,%d) = %v, want overlay", x, y, got)
				}
				continue
			}
			if want := original.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want untouched %v", x, y, got, want)
			}
		}
	}

	if bg.RGBAAt(100, 100) != original.RGBAAt(100, 100) {
		t.Error("Composite modified its input")
	}
}

func TestComposite_ViewportScaleFactor(t *testing.T) {
	bg := solid(400, 400, gray)
	overlay := solid(10, 10, red)

	// shown 200pt wide: every point is two background pixels
	out := Composite(bg, overlay, Placement{X: 10, Y: 10, Scale: 1}, 200)

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{19, 19, gray},
		{20, 20, red},
		{39, 39, red},
		{40, 40, gray},
		{30, 45, gray},
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestComposite_Rotation(t *testing.T) {
	bg := solid(100, 100, gray)
	overlay := solid(10, 20, red)

	// a quarter turn clockwise about (50,50) sends the overlay's x axis down
	// and its y axis left: it covers x in [30,50), y in [50,60)
	out := Composite(bg, overlay, Placement{X: 50, Y: 50, Scale: 1, Rotation: math.Pi / 2}, 100)

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{40, 55, red},
		{31, 51, red},
		{55, 55, gray},
		{40, 45, gray},
		{40, 65, gray},
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestComposite_TransparentOverlay(t *testing.T) {
	bg := solid(50, 50, gray)
	overlay := image.NewRGBA(image.Rect(0, 0, 20, 20))
	overlay.SetRGBA(5, 5, red)

	out := Composite(bg, overlay, Placement{X: 10, Y: 10, Scale: 1}, 50)
	if got := out.RGBAAt(15, 15); got != red {
		t.Errorf("opaque overlay pixel = %v, want red", got)
	}
	if got := out.RGBAAt(12, 12); got != gray {
		t.Errorf("transparent overlay pixel = %v, want background", got)
	}
}

func TestComposite_NonZeroOrigins(t *testing.T) {
	bg := solid(60, 60, gray).SubImage(image.Rect(10, 10, 60, 60))
	overlay := solid(40, 40, red).SubImage(image.Rect(30, 30, 40, 40))

	out := Composite(bg, overlay, Placement{X: 5, Y: 5, Scale: 1}, 50)
	if out.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.RGBAAt(5, 5); got != red {
		t.Errorf("pixel (5,5) = %v, want red", got)
	}
	if got := out.RGBAAt(15, 15); got != gray {
		t.Errorf("pixel (15,15) = %v, want gray", got)
	}
}

func TestFlatten_Order(t *testing.T) {
	bg := solid(40, 40, gray)
	layers := []Layer{
		{Image: solid(20, 20, red), Placement: Placement{X: 0, Y: 0, Scale: 1}},
		{Image: solid(20, 20, blue), Placement: Placement{X: 10, Y: 10, Scale: 1}},
		{Image: nil, Placement: Placement{Scale: 1}},
		{Image: solid(20, 20, red), Placement: Placement{X: 0, Y: 0, Scale: 0}},
	}

	out := Flatten(bg, layers)
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{5, 5, red},
		{15, 15, blue},
		{25, 25, blue},
		{35, 35, gray},
		{35, 5, gray},
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFlatten_ScaledLayer(t *testing.T) {
	out := Flatten(solid(100, 100, gray), []Layer{
		{Image: solid(10, 10, red), Placement: Placement{X: 20, Y: 20, Scale: 3}},
	})
	if got := out.RGBAAt(48, 48); got != red {
		t.Errorf("pixel (48,48) = %v, want red", got)
	}
	if got := out.RGBAAt(51, 51); got != gray {
		t.Errorf("pixel (51,51) = %v, want gray", got)
	}
}
