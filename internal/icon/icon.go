// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package icon normalizes channel logos into fixed-size transparent PNGs.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoder
	_ "image/jpeg"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Options controls normalization.
type Options struct {
	Width  int
	Height int
	// AlphaThreshold: pixels with alpha at or below it count as transparent.
	AlphaThreshold uint8
	// BackgroundThreshold: max per-channel distance from the corner colour
	// that still counts as background for opaque images.
	BackgroundThreshold uint8
}

// DefaultOptions matches the receiver's picon size.
func DefaultOptions() Options {
	return Options{
		Width:               220,
		Height:              132,
		AlphaThreshold:      3,
		BackgroundThreshold: 1,
	}
}

// Decode reads any registered image format (png, jpeg, gif, webp).
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode icon: %w", err)
	}
	return img, format, nil
}

// Normalize trims img and fits it, centred and aspect-preserving, onto a
// transparent canvas of opts.Width x opts.Height.
func Normalize(img image.Image, opts Options) *image.NRGBA {
	return Fit(img, Trim(img, opts), opts.Width, opts.Height)
}

// NormalizePNG decodes data, normalizes it and writes the result as PNG.
func NormalizePNG(w io.Writer, data []byte, opts Options) error {
	img, _, err := Decode(data)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, Normalize(img, opts)); err != nil {
		return fmt.Errorf("encode icon: %w", err)
	}
	return nil
}

// Trim returns the bounding box of the foreground. Images with any
// translucent pixel are trimmed by alpha, opaque ones by the colour of the
// top-left pixel. An empty foreground yields the full bounds.
func Trim(img image.Image, opts Options) image.Rectangle {
	b := img.Bounds()
	if b.Empty() {
		return b
	}

	var fg func(c color.NRGBA) bool
	if hasAlpha(img) {
		fg = func(c color.NRGBA) bool { return c.A > opts.AlphaThreshold }
	} else {
		bg := nrgbaAt(img, b.Min.X, b.Min.Y)
		fg = func(c color.NRGBA) bool {
			return dist(c.R, bg.R) > opts.BackgroundThreshold ||
				dist(c.G, bg.G) > opts.BackgroundThreshold ||
				dist(c.B, bg.B) > opts.BackgroundThreshold
		}
	}

	box := image.Rectangle{}
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !fg(nrgbaAt(img, x, y)) {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box, found = px, true
				continue
			}
			box = box.Union(px)
		}
	}
	if !found {
		return b
	}
	return box
}

// Fit scales the src region of img into a w x h transparent canvas,
// preserving aspect ratio and centring the result.
func Fit(img image.Image, src image.Rectangle, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || w <= 0 || h <= 0 {
		return dst
	}

	scale := min(float64(w)/float64(sw), float64(h)/float64(sh))
	tw := max(1, int(float64(sw)*scale+0.5))
	th := max(1, int(float64(sh)*scale+0.5))
	ox := (w - tw) / 2
	oy := (h - th) / 2

	xdraw.CatmullRom.Scale(dst, image.Rect(ox, oy, ox+tw, oy+th), img, src, xdraw.Src, nil)
	return dst
}

func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func dist(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
