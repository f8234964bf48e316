package annotation

import (
	"image"
	"math"
	"testing"
)

func TestDistanceToRect(t *testing.T) {
	r := image.Rect(10, 10, 60, 60)
	tests := []struct {
		name string
		p    image.Point
		want float64
	}{
		{"outside left", image.Pt(0, 30), 10},
		{"outside corner", image.Pt(4, 2), math.Hypot(6, 8)},
		{"inside near top", image.Pt(30, 13), 3},
		{"inside centre", image.Pt(35, 35), 25},
		{"on boundary", image.Pt(10, 30), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceToRect(r, tc.p)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("DistanceToRect(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestDistanceToSegment(t *testing.T) {
	a := image.Pt(0, 0)
	b := image.Pt(10, 0)
	if got := DistanceToSegment(a, b, image.Pt(5, 4)); got != 4 {
		t.Fatalf("perpendicular distance = %v, want 4", got)
	}
	if got := DistanceToSegment(a, b, image.Pt(-3, 4)); got != 5 {
		t.Fatalf("beyond start distance = %v, want 5", got)
	}
	if got := DistanceToSegment(a, a, image.Pt(3, 4)); got != 5 {
		t.Fatalf("degenerate segment distance = %v, want 5", got)
	}
}

func TestHitReflexive(t *testing.T) {
	step := StepIndicator{Pos: image.Pt(100, 100), Size: 12}
	if !HitStep(step, step.Pos) {
		t.Fatal("step does not hit its own centre")
	}
	rect := Shape{Kind: KindRect, P1: image.Pt(10, 10), P2: image.Pt(60, 60)}
	if !HitShape(rect, rect.P1) {
		t.Fatal("rect does not hit its own corner")
	}
	arrow := Shape{Kind: KindArrow, P1: image.Pt(5, 5), P2: image.Pt(50, 30)}
	if !HitShape(arrow, arrow.P1) {
		t.Fatal("arrow does not hit its own endpoint")
	}
	txt := Text{Pos: image.Pt(20, 20), W: 40, H: 16}
	if !HitText(txt, txt.Pos) {
		t.Fatal("text does not hit its own anchor")
	}
}

func TestShapeHandleAt(t *testing.T) {
	rect := Shape{Kind: KindRect, P1: image.Pt(60, 60), P2: image.Pt(10, 10)}
	tests := []struct {
		p    image.Point
		want Handle
	}{
		{image.Pt(10, 10), HandleTopLeft},
		{image.Pt(62, 12), HandleTopRight},
		{image.Pt(9, 58), HandleBottomLeft},
		{image.Pt(60, 60), HandleBottomRight},
		{image.Pt(35, 10), HandleNone},
	}
	for _, tc := range tests {
		if got := ShapeHandleAt(rect, tc.p); got != tc.want {
			t.Fatalf("ShapeHandleAt(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}

	arrow := Shape{Kind: KindArrow, P1: image.Pt(0, 0), P2: image.Pt(100, 0)}
	if got := ShapeHandleAt(arrow, image.Pt(3, 3)); got != HandleStart {
		t.Fatalf("arrow start handle = %v", got)
	}
	if got := ShapeHandleAt(arrow, image.Pt(99, -2)); got != HandleEnd {
		t.Fatalf("arrow end handle = %v", got)
	}
	if got := ShapeHandleAt(arrow, image.Pt(50, 0)); got != HandleNone {
		t.Fatalf("arrow midpoint should not be a handle, got %v", got)
	}
}

func TestFormatStepLabel(t *testing.T) {
	tests := []struct {
		n     int
		style StepStyle
		want  string
	}{
		{1, StepDecimal, "1."},
		{12, StepDecimal, "12."},
		{3, StepPlain, "3"},
		{4, StepParen, "4)"},
		{4, StepRoman, "IV"},
		{9, StepRoman, "IX"},
		{14, StepRoman, "XIV"},
		{0, StepDecimal, "1."},
	}
	for _, tc := range tests {
		if got := FormatStepLabel(tc.n, tc.style); got != tc.want {
			t.Fatalf("FormatStepLabel(%d, %v) = %q, want %q", tc.n, tc.style, got, tc.want)
		}
	}
}
