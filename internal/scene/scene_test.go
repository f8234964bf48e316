package scene

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/snapmark/internal/annotation"
)

func red() color.RGBA { return color.RGBA{255, 0, 0, 255} }

func TestAddRemoveKeepsDrawOrderInSync(t *testing.T) {
	s := New()
	st := annotation.StepIndicator{ID: annotation.NewID(), Pos: image.Pt(10, 10), Size: 12}
	sh := annotation.Shape{ID: annotation.NewID(), Kind: annotation.KindRect, P1: image.Pt(0, 0), P2: image.Pt(50, 50)}
	tx := annotation.Text{ID: annotation.NewID(), Pos: image.Pt(5, 5), Lines: []string{"hi"}, W: 20, H: 14}
	s.AddStep(st)
	s.AddShape(sh)
	s.AddText(tx)
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(s.DrawOrder) != 3 {
		t.Fatalf("draw order has %d entries", len(s.DrawOrder))
	}
	if !s.Remove(sh.ID) {
		t.Fatal("remove reported no-op")
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if s.Contains(sh.ID) {
		t.Fatal("removed id still live")
	}
	if s.Remove("no-such-id") {
		t.Fatal("removing unknown id reported success")
	}
}

func TestStepCounterSequence(t *testing.T) {
	s := New()
	style := annotation.StepDecimal

	place := func() annotation.StepIndicator {
		st := annotation.StepIndicator{
			ID:    annotation.NewID(),
			Pos:   image.Pt(100, 100),
			Label: annotation.FormatStepLabel(s.NextStep, style),
			Size:  12,
		}
		s.AddStep(st)
		return st
	}

	first := place()
	if first.Label != "1." {
		t.Fatalf("first label %q, want 1.", first.Label)
	}
	second := place()
	if second.Label != "2." {
		t.Fatalf("second label %q, want 2.", second.Label)
	}
	s.Remove(first.ID)
	third := place()
	if third.Label != "2." {
		t.Fatalf("label after removal %q, want 2.", third.Label)
	}
	// The counter never drops below one.
	s.Remove(second.ID)
	s.Remove(third.ID)
	s.Remove(third.ID)
	if s.NextStep != 1 {
		t.Fatalf("counter floor %d, want 1", s.NextStep)
	}
}

func TestReorder(t *testing.T) {
	s := New()
	a := annotation.Shape{ID: "a", Kind: annotation.KindRect}
	b := annotation.Shape{ID: "b", Kind: annotation.KindRect}
	c := annotation.Shape{ID: "c", Kind: annotation.KindRect}
	s.AddShape(a)
	s.AddShape(b)
	s.AddShape(c)

	s.BringToFront("a")
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if s.DrawOrder[i] != id {
			t.Fatalf("after bring-to-front order %v, want %v", s.DrawOrder, want)
		}
	}
	s.SendToBack("c")
	want = []string{"c", "b", "a"}
	for i, id := range want {
		if s.DrawOrder[i] != id {
			t.Fatalf("after send-to-back order %v, want %v", s.DrawOrder, want)
		}
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	s.AddText(annotation.Text{ID: "t", Pos: image.Pt(1, 1), Lines: []string{"one"}})
	c := s.Clone()
	c.Text("t").Lines[0] = "changed"
	c.Translate("t", image.Pt(5, 5))
	if s.Text("t").Lines[0] != "one" {
		t.Fatal("clone shares line storage with original")
	}
	if s.Text("t").Pos != image.Pt(1, 1) {
		t.Fatal("clone shares position with original")
	}
}

func TestHitTestPriorityAndRecency(t *testing.T) {
	s := New()
	sh := annotation.Shape{ID: "shape", Kind: annotation.KindRect, P1: image.Pt(0, 0), P2: image.Pt(100, 100), Color: red()}
	tx := annotation.Text{ID: "text", Pos: image.Pt(0, 0), Lines: []string{"x"}, W: 100, H: 100}
	s.AddShape(sh)
	s.AddText(tx)

	// Point on the shared boundary: the shape edge distance is zero and
	// the text hit is zero, so text priority wins.
	if got := s.HitTest(image.Pt(0, 50)); got != "text" {
		t.Fatalf("hit %q, want text", got)
	}

	// Two coincident shapes: the most recently drawn wins.
	s2 := New()
	s2.AddShape(annotation.Shape{ID: "older", Kind: annotation.KindRect, P1: image.Pt(0, 0), P2: image.Pt(50, 50)})
	s2.AddShape(annotation.Shape{ID: "newer", Kind: annotation.KindRect, P1: image.Pt(0, 0), P2: image.Pt(50, 50)})
	if got := s2.HitTest(image.Pt(0, 25)); got != "newer" {
		t.Fatalf("hit %q, want newer", got)
	}

	if got := s2.HitTest(image.Pt(500, 500)); got != "" {
		t.Fatalf("far point hit %q, want none", got)
	}
}

func TestIntersectBand(t *testing.T) {
	s := New()
	s.AddShape(annotation.Shape{ID: "in", Kind: annotation.KindRect, P1: image.Pt(10, 10), P2: image.Pt(30, 30)})
	s.AddShape(annotation.Shape{ID: "out", Kind: annotation.KindRect, P1: image.Pt(200, 200), P2: image.Pt(220, 220)})
	s.AddStep(annotation.StepIndicator{ID: "edge", Pos: image.Pt(55, 20), Size: 10})

	got := s.IntersectBand(image.Rect(0, 0, 50, 50))
	want := map[string]bool{"in": true, "edge": true}
	if len(got) != len(want) {
		t.Fatalf("band selected %v", got)
	}
	for _, id := range got {
		if !want[id] {
			t.Fatalf("band selected unexpected id %q", id)
		}
	}
}

func TestReconstructDrawOrder(t *testing.T) {
	s := New()
	s.Shapes = []annotation.Shape{
		{ID: "rect1", Kind: annotation.KindRect},
		{ID: "blur1", Kind: annotation.KindBlur},
		{ID: "arrow1", Kind: annotation.KindArrow},
	}
	s.Steps = []annotation.StepIndicator{{ID: "step1"}}
	s.Texts = []annotation.Text{{ID: "text1"}}
	s.ReconstructDrawOrder()

	want := []string{"blur1", "rect1", "arrow1", "step1", "text1"}
	if len(s.DrawOrder) != len(want) {
		t.Fatalf("order %v, want %v", s.DrawOrder, want)
	}
	for i := range want {
		if s.DrawOrder[i] != want[i] {
			t.Fatalf("order %v, want %v", s.DrawOrder, want)
		}
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}
