package render

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Pixelate redacts the given destination-space rectangle by sampling
// the pixels already present on dst, downsampling them into a coarse
// grid and scaling back up with nearest-neighbour interpolation. The
// cell grid is derived from the image-space region size divided by
// strength, so granularity does not change with zoom. Because it reads
// dst, the effect depends strictly on what was drawn before it.
func Pixelate(dst *image.RGBA, dstRect image.Rectangle, imgW, imgH, strength int) {
	dstRect = dstRect.Canon().Intersect(dst.Bounds())
	if dstRect.Empty() {
		return
	}
	if strength < 1 {
		strength = 1
	}
	cols := imgW / strength
	if cols < 1 {
		cols = 1
	}
	rows := imgH / strength
	if rows < 1 {
		rows = 1
	}

	small := image.NewRGBA(image.Rect(0, 0, cols, rows))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), dst, dstRect, draw.Src, nil)
	xdraw.NearestNeighbor.Scale(dst, dstRect, small, small.Bounds(), draw.Src, nil)
}
