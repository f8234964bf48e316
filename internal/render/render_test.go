package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/scene"
)

func testBase(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 7 % 256), uint8(y * 13 % 256), uint8((x + y) % 256), 255})
		}
	}
	return img
}

func testScene() *scene.Scene {
	sc := scene.New()
	sc.AddShape(annotation.Shape{
		ID: "blur", Kind: annotation.KindBlur,
		P1: image.Pt(10, 10), P2: image.Pt(60, 60), BlurStrength: 8,
	})
	sc.AddShape(annotation.Shape{
		ID: "rect", Kind: annotation.KindRect,
		P1: image.Pt(20, 20), P2: image.Pt(90, 70),
		Color: color.RGBA{255, 0, 0, 255}, StrokeWidth: 2,
	})
	sc.AddShape(annotation.Shape{
		ID: "arrow", Kind: annotation.KindArrow,
		P1: image.Pt(30, 80), P2: image.Pt(100, 30),
		Color: color.RGBA{0, 0, 255, 255}, StrokeWidth: 2,
	})
	sc.AddStep(annotation.StepIndicator{
		ID: "step", Pos: image.Pt(50, 50), Label: "1.",
		Color: color.RGBA{0, 128, 0, 255}, Size: 12,
	})
	sc.AddText(annotation.Text{
		ID: "text", Pos: image.Pt(15, 90), Lines: []string{"hello", "world"},
		FontSize: 14, Color: color.RGBA{0, 0, 0, 255}, W: 40, H: 34,
	})
	return sc
}

func TestCompositeDeterministic(t *testing.T) {
	base := testBase(120, 120)
	sc := testScene()
	opts := Options{
		Beautify: true, Padding: 16, CornerRadius: 8, OuterRadius: 4,
		ShadowRadius: 6, ShadowOffset: image.Pt(4, 4), ShadowOpacity: 0.5,
		Background: BackgroundGradient,
		GradientFrom: color.RGBA{30, 30, 120, 255}, GradientTo: color.RGBA{120, 30, 30, 255},
		GradientAngle: 45,
		FrameEnabled:  true, FrameWidth: 200, FrameHeight: 180, FrameColor: color.RGBA{240, 240, 240, 255},
		Watermark: testBase(20, 10), WatermarkWidth: 16, WatermarkOpacity: 0.7,
	}
	a := Composite(base, sc, opts)
	b := Composite(base, sc, opts)
	if !a.Bounds().Eq(b.Bounds()) {
		t.Fatalf("bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("compositing the same inputs twice produced different pixels")
	}
}

func TestFlattenMatchesDrawScene(t *testing.T) {
	base := testBase(120, 120)
	sc := testScene()
	flat := Flatten(base, sc)
	if !flat.Bounds().Eq(base.Bounds()) {
		t.Fatalf("flatten changed bounds: %v", flat.Bounds())
	}
	// The base must be untouched by flattening.
	if base.RGBAAt(50, 50) == flat.RGBAAt(50, 50) {
		t.Fatal("annotations did not alter the flattened copy at the step centre")
	}
	want := testBase(120, 120)
	if !bytes.Equal(base.Pix, want.Pix) {
		t.Fatal("Flatten mutated its input")
	}
}

func TestPixelateOrderDependence(t *testing.T) {
	// A blur drawn before a shape must not hide the shape; drawn after,
	// it must redact it.
	region := annotation.Shape{ID: "b", Kind: annotation.KindBlur, P1: image.Pt(0, 0), P2: image.Pt(64, 64), BlurStrength: 16}
	box := annotation.Shape{ID: "r", Kind: annotation.KindRect, P1: image.Pt(8, 8), P2: image.Pt(56, 56),
		RectMode: annotation.RectBlackout}

	blurFirst := scene.New()
	blurFirst.AddShape(region)
	blurFirst.AddShape(box)
	a := Flatten(testBase(64, 64), blurFirst)
	if a.RGBAAt(32, 32) != (color.RGBA{0, 0, 0, 255}) {
		t.Fatal("shape drawn after blur should be visible")
	}

	blurLast := scene.New()
	blurLast.AddShape(box)
	blurLast.AddShape(region)
	b := Flatten(testBase(64, 64), blurLast)
	// The pixelated centre averages the blackout box with the backdrop,
	// but the exact centre cell is fully inside the box, so it stays
	// black; a cell near the box edge mixes in backdrop.
	edge := b.RGBAAt(60, 32)
	if edge == (color.RGBA{0, 0, 0, 255}) {
		t.Fatal("blur drawn after shape should mix surrounding pixels")
	}
}

func TestPixelateGranularityZoomIndependent(t *testing.T) {
	// Rendering at 2x must produce 2x-sized cells: the cell count only
	// depends on the image-space region and strength.
	sh := annotation.Shape{ID: "b", Kind: annotation.KindBlur, P1: image.Pt(0, 0), P2: image.Pt(32, 32), BlurStrength: 8}

	at1 := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			at1.SetRGBA(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 0, 255})
		}
	}
	DrawShape(at1, sh, image.Point{}, 1)

	// Each cell is strength px wide at scale 1, so 4 cells across.
	if at1.RGBAAt(1, 1) != at1.RGBAAt(6, 6) {
		t.Fatal("pixels within one cell differ at scale 1")
	}
	if at1.RGBAAt(1, 1) == at1.RGBAAt(9, 9) {
		t.Fatal("adjacent cells are identical at scale 1")
	}

	at2 := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			at2.SetRGBA(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), 0, 255})
		}
	}
	DrawShape(at2, sh, image.Point{}, 2)
	if at2.RGBAAt(2, 2) != at2.RGBAAt(12, 12) {
		t.Fatal("pixels within one scaled cell differ at scale 2")
	}
	if at2.RGBAAt(2, 2) == at2.RGBAAt(18, 18) {
		t.Fatal("adjacent cells are identical at scale 2")
	}
}

func TestMeasureLines(t *testing.T) {
	w1, h1 := MeasureLines([]string{"short"}, 14)
	w2, h2 := MeasureLines([]string{"short", "a much longer line"}, 14)
	if w1 <= 0 || h1 <= 0 {
		t.Fatalf("measurement not positive: %dx%d", w1, h1)
	}
	if w2 <= w1 {
		t.Fatalf("longer line did not widen the block: %d vs %d", w2, w1)
	}
	if h2 != 2*h1 {
		t.Fatalf("two lines height %d, want %d", h2, 2*h1)
	}
}

func TestLetterboxKeepsAspect(t *testing.T) {
	src := testBase(100, 50)
	out := letterbox(src, 200, 200, color.RGBA{9, 9, 9, 255})
	if !out.Bounds().Eq(image.Rect(0, 0, 200, 200)) {
		t.Fatalf("letterbox bounds %v", out.Bounds())
	}
	// 100x50 fits without upscaling, so bars above and below.
	if out.RGBAAt(100, 5) != (color.RGBA{9, 9, 9, 255}) {
		t.Fatal("top bar not frame colored")
	}
	if out.RGBAAt(100, 100) == (color.RGBA{9, 9, 9, 255}) {
		t.Fatal("centre should show the source image")
	}
}
