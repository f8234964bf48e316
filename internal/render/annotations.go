package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/scene"
)

// The draw routines below are shared verbatim by the live view and the
// export compositor: the view calls them at the current zoom, export
// calls them at scale 1. Annotation coordinates are image-space and are
// projected with off + p*scale.

func project(p image.Point, off image.Point, scale float64) image.Point {
	return image.Pt(off.X+int(float64(p.X)*scale), off.Y+int(float64(p.Y)*scale))
}

func scaleInt(v int, scale float64) int {
	out := int(float64(v) * scale)
	if v > 0 && out < 1 {
		out = 1
	}
	return out
}

// contrastText picks black or white for legibility over col.
func contrastText(col color.RGBA) color.Color {
	brightness := 0.299*float64(col.R) + 0.587*float64(col.G) + 0.114*float64(col.B)
	if brightness < 128 {
		return color.White
	}
	return color.Black
}

// DrawStep paints a numbered step indicator.
func DrawStep(dst *image.RGBA, st annotation.StepIndicator, off image.Point, scale float64) {
	c := project(st.Pos, off, scale)
	r := scaleInt(st.Size, scale)
	drawFilledCircle(dst, c.X, c.Y, r, st.Color)

	face := Face(scaleInt(st.Size, scale))
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(contrastText(st.Color)), Face: face}
	w := d.MeasureString(st.Label).Ceil()
	m := face.Metrics()
	baseline := c.Y + (m.Ascent.Ceil()-m.Descent.Ceil())/2
	d.Dot = fixed.P(c.X-w/2, baseline)
	d.DrawString(st.Label)
}

// DrawShape paints a rect, arrow or blur shape. Blur reads the pixels
// already on dst, so shapes must be drawn strictly in draw order.
func DrawShape(dst *image.RGBA, sh annotation.Shape, off image.Point, scale float64) {
	switch sh.Kind {
	case annotation.KindRect:
		b := sh.Bounds()
		r := image.Rectangle{Min: project(b.Min, off, scale), Max: project(b.Max, off, scale)}
		switch sh.RectMode {
		case annotation.RectBlackout:
			fillRect(dst, r, color.RGBA{0, 0, 0, 255})
		case annotation.RectWhiteout:
			fillRect(dst, r, color.RGBA{255, 255, 255, 255})
		default:
			if sh.Filled {
				fillRect(dst, r, sh.Color)
			}
			strokeRect(dst, r, sh.Color, scaleInt(sh.StrokeWidth, scale))
		}
	case annotation.KindArrow:
		drawArrowShape(dst, sh, off, scale)
	case annotation.KindBlur:
		b := sh.Bounds()
		r := image.Rectangle{Min: project(b.Min, off, scale), Max: project(b.Max, off, scale)}
		Pixelate(dst, r, b.Dx(), b.Dy(), sh.BlurStrength)
	}
}

func drawArrowShape(dst *image.RGBA, sh annotation.Shape, off image.Point, scale float64) {
	p1 := project(sh.P1, off, scale)
	p2 := project(sh.P2, off, scale)
	thick := scaleInt(sh.StrokeWidth, scale)
	drawLine(dst, p1.X, p1.Y, p2.X, p2.Y, sh.Color, thick)

	headLen := float64(6 + thick*2)
	left, right := arrowHeadPoints(p1, p2, headLen)
	if sh.Chevron {
		// Open chevron head: two strokes meeting at the tip.
		drawLine(dst, p2.X, p2.Y, left.X, left.Y, sh.Color, thick)
		drawLine(dst, p2.X, p2.Y, right.X, right.Y, sh.Color, thick)
	} else {
		fillTriangle(dst, p2, left, right, sh.Color)
	}
}

func arrowHeadPoints(p1, p2 image.Point, size float64) (image.Point, image.Point) {
	angle := math.Atan2(float64(p2.Y-p1.Y), float64(p2.X-p1.X))
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	left := image.Pt(p2.X-int(math.Cos(a1)*size), p2.Y-int(math.Sin(a1)*size))
	right := image.Pt(p2.X-int(math.Cos(a2)*size), p2.Y-int(math.Sin(a2)*size))
	return left, right
}

// DrawText paints a multi-line text annotation anchored at its
// top-left corner.
func DrawText(dst *image.RGBA, t annotation.Text, off image.Point, scale float64) {
	size := scaleInt(t.FontSize, scale)
	face := Face(size)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.Color), Face: face}
	anchor := project(t.Pos, off, scale)
	ascent := face.Metrics().Ascent.Ceil()
	lh := LineHeight(size)
	for i, line := range t.Lines {
		d.Dot = fixed.P(anchor.X, anchor.Y+ascent+i*lh)
		d.DrawString(line)
	}
}

// DrawScene paints every annotation in draw order.
func DrawScene(dst *image.RGBA, sc *scene.Scene, off image.Point, scale float64) {
	for _, id := range sc.DrawOrder {
		if st := sc.Step(id); st != nil {
			DrawStep(dst, *st, off, scale)
			continue
		}
		if sh := sc.Shape(id); sh != nil {
			DrawShape(dst, *sh, off, scale)
			continue
		}
		if t := sc.Text(id); t != nil {
			DrawText(dst, *t, off, scale)
		}
	}
}
