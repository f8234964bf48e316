package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// ShadowOptions configures the drop shadow behind a beautified image.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// RoundCorners returns a copy of img with its corner alpha clipped to a
// quarter-circle of the given radius.
func RoundCorners(img *image.RGBA, radius int) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	if radius <= 0 {
		return out
	}
	maxR := b.Dx() / 2
	if b.Dy()/2 < maxR {
		maxR = b.Dy() / 2
	}
	if radius > maxR {
		radius = maxR
	}
	centres := []image.Point{
		{b.Min.X + radius, b.Min.Y + radius},
		{b.Max.X - radius - 1, b.Min.Y + radius},
		{b.Min.X + radius, b.Max.Y - radius - 1},
		{b.Max.X - radius - 1, b.Max.Y - radius - 1},
	}
	corners := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+radius, b.Min.Y+radius),
		image.Rect(b.Max.X-radius, b.Min.Y, b.Max.X, b.Min.Y+radius),
		image.Rect(b.Min.X, b.Max.Y-radius, b.Min.X+radius, b.Max.Y),
		image.Rect(b.Max.X-radius, b.Max.Y-radius, b.Max.X, b.Max.Y),
	}
	rsq := radius * radius
	for i, corner := range corners {
		c := centres[i]
		for y := corner.Min.Y; y < corner.Max.Y; y++ {
			for x := corner.Min.X; x < corner.Max.X; x++ {
				dx := x - c.X
				dy := y - c.Y
				if dx*dx+dy*dy > rsq {
					out.SetRGBA(x, y, color.RGBA{})
				}
			}
		}
	}
	return out
}

// ApplyShadow composites img over a blurred drop shadow built from its
// alpha channel. The returned image has zero-based bounds; shift
// reports where the original top-left corner ended up so callers can
// keep content anchored.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() || opts.Opacity <= 0 {
		return img, image.Point{}
	}
	opacity := math.Min(opts.Opacity, 1)
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	srcBounds := img.Bounds()
	paddedBounds := srcBounds
	if radius > 0 {
		paddedBounds = paddedBounds.Inset(-radius)
	}
	shadowBounds := paddedBounds.Add(opts.Offset)
	compositeBounds := srcBounds.Union(shadowBounds)
	dstRect := compositeBounds.Sub(compositeBounds.Min)
	if dstRect.Dx() <= 0 || dstRect.Dy() <= 0 {
		return img, image.Point{}
	}

	shift := srcBounds.Min.Sub(compositeBounds.Min)
	shadowOrigin := shadowBounds.Min.Sub(compositeBounds.Min)

	mask := image.NewGray(paddedBounds.Sub(paddedBounds.Min))
	for y := srcBounds.Min.Y; y < srcBounds.Max.Y; y++ {
		for x := srcBounds.Min.X; x < srcBounds.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			mask.SetGray(x-paddedBounds.Min.X, y-paddedBounds.Min.Y, color.Gray{Y: a})
		}
	}
	blurred := blurGray(mask, radius)

	dst := image.NewRGBA(dstRect)
	alpha := uint8(opacity*255 + 0.5)
	if alpha > 0 {
		draw.DrawMask(dst, blurred.Bounds().Add(shadowOrigin),
			image.NewUniform(color.RGBA{0, 0, 0, alpha}), image.Point{},
			blurred, blurred.Bounds().Min, draw.Over)
	}
	draw.Draw(dst, srcBounds.Sub(compositeBounds.Min), img, srcBounds.Min, draw.Over)
	return dst, shift
}

// blurGray applies a separable box blur using prefix sums per row and
// column. Integer-only, so the output is deterministic.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	for y := 0; y < h; y++ {
		rowStart := y * src.Stride
		tmpStart := y * tmp.Stride
		prefix := make([]int, w+1)
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x])
		}
		for x := 0; x < w; x++ {
			x0 := x - radius
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + radius
			if x1 >= w {
				x1 = w - 1
			}
			sum := prefix[x1+1] - prefix[x0]
			tmp.Pix[tmpStart+x] = uint8(sum / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		prefix := make([]int, h+1)
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := y - radius
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + radius
			if y1 >= h {
				y1 = h - 1
			}
			sum := prefix[y1+1] - prefix[y0]
			dst.Pix[y*dst.Stride+x] = uint8(sum / (y1 - y0 + 1))
		}
	}
	return dst
}
