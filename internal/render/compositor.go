package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/snapmark/internal/scene"
)

// BackgroundType selects the beautify backdrop fill.
type BackgroundType int

const (
	BackgroundSolid BackgroundType = iota
	BackgroundGradient
)

// Options carries the presentation settings consumed by Composite.
// Values come from the settings store; the compositor never persists
// them.
type Options struct {
	// Frame letterboxes the result into a fixed-size canvas.
	FrameEnabled bool
	FrameWidth   int
	FrameHeight  int
	FrameColor   color.RGBA

	// Beautify wraps the image in a decorative backdrop with padding,
	// corner rounding and a drop shadow.
	Beautify        bool
	Padding         int
	CornerRadius    int
	OuterRadius     int
	ShadowRadius    int
	ShadowOffset    image.Point
	ShadowOpacity   float64
	Background      BackgroundType
	BackgroundColor color.RGBA
	GradientFrom    color.RGBA
	GradientTo      color.RGBA
	GradientAngle   float64

	// Watermark is drawn last in the bottom-right corner.
	Watermark        image.Image
	WatermarkWidth   int
	WatermarkOpacity float64
}

// Flatten bakes the scene's annotations onto a copy of base at scale 1.
// The result is exactly what the live view shows at 100% zoom.
func Flatten(base *image.RGBA, sc *scene.Scene) *image.RGBA {
	out := image.NewRGBA(base.Bounds().Sub(base.Bounds().Min))
	draw.Draw(out, out.Bounds(), base, base.Bounds().Min, draw.Src)
	DrawScene(out, sc, image.Point{}, 1)
	return out
}

// Composite assembles the final export bitmap: background, beautify
// matte with shadow, frame fill, base image, annotations in draw
// order, watermark last. The same inputs always produce byte-identical
// output.
func Composite(base *image.RGBA, sc *scene.Scene, opts Options) *image.RGBA {
	content := Flatten(base, sc)

	if opts.Beautify {
		content = beautify(content, opts)
	}
	if opts.FrameEnabled && opts.FrameWidth > 0 && opts.FrameHeight > 0 {
		content = letterbox(content, opts.FrameWidth, opts.FrameHeight, opts.FrameColor)
	}
	if opts.Watermark != nil {
		stampWatermark(content, opts)
	}
	return content
}

func beautify(content *image.RGBA, opts Options) *image.RGBA {
	rounded := RoundCorners(content, opts.CornerRadius)
	shadowed, _ := ApplyShadow(rounded, ShadowOptions{
		Radius:  opts.ShadowRadius,
		Offset:  opts.ShadowOffset,
		Opacity: opts.ShadowOpacity,
	})
	pad := opts.Padding
	if pad < 0 {
		pad = 0
	}
	out := image.NewRGBA(image.Rect(0, 0, shadowed.Bounds().Dx()+2*pad, shadowed.Bounds().Dy()+2*pad))
	fillBackground(out, opts)
	draw.Draw(out, shadowed.Bounds().Add(image.Pt(pad, pad)), shadowed, shadowed.Bounds().Min, draw.Over)
	if opts.OuterRadius > 0 {
		out = RoundCorners(out, opts.OuterRadius)
	}
	return out
}

func fillBackground(dst *image.RGBA, opts Options) {
	if opts.Background != BackgroundGradient {
		draw.Draw(dst, dst.Bounds(), &image.Uniform{opts.BackgroundColor}, image.Point{}, draw.Src)
		return
	}
	b := dst.Bounds()
	rad := opts.GradientAngle * math.Pi / 180
	dirX := math.Cos(rad)
	dirY := math.Sin(rad)
	// Project every pixel onto the gradient axis and normalise over the
	// projection range of the four corners.
	minP := math.Inf(1)
	maxP := math.Inf(-1)
	for _, c := range []image.Point{b.Min, {b.Max.X, b.Min.Y}, {b.Min.X, b.Max.Y}, b.Max} {
		p := float64(c.X)*dirX + float64(c.Y)*dirY
		minP = math.Min(minP, p)
		maxP = math.Max(maxP, p)
	}
	span := maxP - minP
	if span == 0 {
		span = 1
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := (float64(x)*dirX + float64(y)*dirY - minP) / span
			dst.SetRGBA(x, y, lerpRGBA(opts.GradientFrom, opts.GradientTo, t))
		}
	}
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), lerp(a.A, b.A)}
}

// letterbox scales src to fit inside a w×h canvas filled with bg,
// preserving aspect ratio and centring the result.
func letterbox(src *image.RGBA, w, h int, bg color.RGBA) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return out
	}
	scale := math.Min(float64(w)/float64(sw), float64(h)/float64(sh))
	if scale > 1 {
		scale = 1
	}
	dw := int(float64(sw) * scale)
	dh := int(float64(sh) * scale)
	x0 := (w - dw) / 2
	y0 := (h - dh) / 2
	dstRect := image.Rect(x0, y0, x0+dw, y0+dh)
	if scale == 1 {
		draw.Draw(out, dstRect, src, src.Bounds().Min, draw.Over)
	} else {
		xdraw.ApproxBiLinear.Scale(out, dstRect, src, src.Bounds(), draw.Over, nil)
	}
	return out
}

func stampWatermark(dst *image.RGBA, opts Options) {
	wm := opts.Watermark
	ww := wm.Bounds().Dx()
	wh := wm.Bounds().Dy()
	if ww == 0 || wh == 0 {
		return
	}
	targetW := opts.WatermarkWidth
	if targetW <= 0 || targetW > ww {
		targetW = ww
	}
	targetH := wh * targetW / ww
	if targetH < 1 {
		targetH = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), wm, wm.Bounds(), draw.Src, nil)

	const margin = 8
	b := dst.Bounds()
	pos := image.Pt(b.Max.X-targetW-margin, b.Max.Y-targetH-margin)
	opacity := opts.WatermarkOpacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	alpha := uint8(opacity*255 + 0.5)
	mask := image.NewUniform(color.Alpha{A: alpha})
	draw.DrawMask(dst, image.Rectangle{Min: pos, Max: pos.Add(image.Pt(targetW, targetH))},
		scaled, image.Point{}, mask, image.Point{}, draw.Over)
}

// Thumbnail scales img so its longest side is maxDim pixels.
func Thumbnail(img *image.RGBA, maxDim int) *image.RGBA {
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	if w <= maxDim && h <= maxDim {
		out := image.NewRGBA(b.Sub(b.Min))
		draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
		return out
	}
	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	tw := int(float64(w) * scale)
	th := int(float64(h) * scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
