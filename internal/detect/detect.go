// Package detect finds text regions in a raster so the editor can
// offer one-click redaction rectangles over them. The real detector
// uses Tesseract via gosseract and only builds with the ocr tag;
// default builds get a stub that reports the feature as unavailable.
package detect

import (
	"image"
)

// Region is one detected area with a suggested fill tone. Light means
// the surrounding pixels are bright, so a whiteout fill blends better
// than a blackout.
type Region struct {
	Rect  image.Rectangle
	Light bool
}

// luminance of a pixel region, 0..255.
func averageLuma(img *image.RGBA, r image.Rectangle) float64 {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return 0
	}
	var sum float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			sum += 0.299*float64(img.Pix[i]) + 0.587*float64(img.Pix[i+1]) + 0.114*float64(img.Pix[i+2])
			i += 4
		}
	}
	return sum / float64(r.Dx()*r.Dy())
}
