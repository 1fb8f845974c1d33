// Package photo decodes, encodes and downsizes wall photos
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode reads a JPEG or PNG image.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	slog.Debug("decoded image", "format", format, "bounds", img.Bounds())
	return img, nil
}

// DecodeBytes decodes an encoded image blob.
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeConfig reads only the dimensions of an image, choosing the decoder by
// file extension.
func DecodeConfig(r io.Reader, name string) (image.Config, error) {
	var cfg image.Config
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		cfg, err = jpeg.DecodeConfig(r)
	case ".png":
		cfg, err = png.DecodeConfig(r)
	default:
		return image.Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
	if err != nil {
		return image.Config{}, fmt.Errorf("unable to read image config: %w", err)
	}
	return cfg, nil
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ResizeOptions describe how far an image must shrink to fit a target size.
type ResizeOptions struct {
	Width  int
	Height int
	// Scale is a percentage, 100 means unchanged
	Scale int
}

// GenerateResizeOptions computes the downscale percentage that brings the
// larger image dimension within targetMaxDim. Images are never enlarged.
func GenerateResizeOptions(cfg image.Config, targetMaxDim int) ResizeOptions {
	downScale := 100
	if targetMaxDim > 0 && cfg.Width > 0 && cfg.Height > 0 {
		downScale = min(downScale, int(float64(targetMaxDim)/float64(cfg.Height)*100))
		downScale = min(downScale, int(float64(targetMaxDim)/float64(cfg.Width)*100))
		downScale = max(downScale, 1)
	}
	return ResizeOptions{
		Width:  cfg.Width * downScale / 100,
		Height: cfg.Height * downScale / 100,
		Scale:  downScale,
	}
}

// Downscale shrinks img so neither side exceeds targetMaxDim.
func Downscale(img image.Image, targetMaxDim int) image.Image {
	b := img.Bounds()
	opts := GenerateResizeOptions(image.Config{Width: b.Dx(), Height: b.Dy()}, targetMaxDim)
	if opts.Scale >= 100 || opts.Width == 0 || opts.Height == 0 {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	slog.Info("downscaled image", "from", b.Size(), "to", dst.Bounds().Size(), "scale", opts.Scale)
	return dst
}
