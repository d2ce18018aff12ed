package qr

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// DefaultPreviewSize bounds both sides of the on-screen preview.
const DefaultPreviewSize = 300

// Preview shrinks img proportionally so neither side exceeds max. Images that
// already fit are returned as is; Preview never enlarges.
func Preview(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if max <= 0 || (w <= max && h <= max) {
		return img
	}

	scale := math.Min(float64(max)/float64(w), float64(max)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
