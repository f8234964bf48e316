// Package scene holds the per-tab annotation collections together with
// the draw order. The draw order is the single authoritative render,
// stacking and hit-priority sequence: every live annotation id appears
// in it exactly once, and the front of the stack is the end of the
// list. Every mutation that adds or removes an annotation updates the
// collections and the draw order atomically so the two can never drift
// apart.
package scene

import (
	"fmt"
	"image"

	"github.com/example/snapmark/internal/annotation"
)

// Scene is one tab's annotation state.
type Scene struct {
	Steps  []annotation.StepIndicator
	Shapes []annotation.Shape
	Texts  []annotation.Text

	// DrawOrder lists annotation ids back-to-front.
	DrawOrder []string

	// NextStep is the counter used to label the next step indicator.
	// It decrements when a step is removed, floored at 1, so labels
	// continue without gaps only when steps are removed from the end.
	NextStep int
}

// New returns an empty scene with the step counter primed.
func New() *Scene {
	return &Scene{NextStep: 1}
}

// Clone returns a deep copy of the scene, used for history snapshots.
func (s *Scene) Clone() *Scene {
	c := &Scene{
		Steps:     make([]annotation.StepIndicator, len(s.Steps)),
		Shapes:    make([]annotation.Shape, len(s.Shapes)),
		Texts:     make([]annotation.Text, len(s.Texts)),
		DrawOrder: make([]string, len(s.DrawOrder)),
		NextStep:  s.NextStep,
	}
	copy(c.Steps, s.Steps)
	copy(c.Shapes, s.Shapes)
	copy(c.DrawOrder, s.DrawOrder)
	for i, t := range s.Texts {
		t.Lines = append([]string(nil), t.Lines...)
		c.Texts[i] = t
	}
	return c
}

// Empty reports whether the scene holds no annotations.
func (s *Scene) Empty() bool {
	return len(s.Steps) == 0 && len(s.Shapes) == 0 && len(s.Texts) == 0
}

// AddStep appends a step indicator and advances the counter.
func (s *Scene) AddStep(st annotation.StepIndicator) {
	s.Steps = append(s.Steps, st)
	s.DrawOrder = append(s.DrawOrder, st.ID)
	s.NextStep++
}

// AddShape appends a shape.
func (s *Scene) AddShape(sh annotation.Shape) {
	s.Shapes = append(s.Shapes, sh)
	s.DrawOrder = append(s.DrawOrder, sh.ID)
}

// AddText appends a text annotation.
func (s *Scene) AddText(t annotation.Text) {
	s.Texts = append(s.Texts, t)
	s.DrawOrder = append(s.DrawOrder, t.ID)
}

// Remove deletes the annotation with the given id from its collection
// and from the draw order. Removing a step decrements the counter,
// floored at 1. It reports whether anything was removed.
func (s *Scene) Remove(id string) bool {
	for i, st := range s.Steps {
		if st.ID == id {
			s.Steps = append(s.Steps[:i], s.Steps[i+1:]...)
			s.removeFromOrder(id)
			if s.NextStep > 1 {
				s.NextStep--
			}
			return true
		}
	}
	for i, sh := range s.Shapes {
		if sh.ID == id {
			s.Shapes = append(s.Shapes[:i], s.Shapes[i+1:]...)
			s.removeFromOrder(id)
			return true
		}
	}
	for i, t := range s.Texts {
		if t.ID == id {
			s.Texts = append(s.Texts[:i], s.Texts[i+1:]...)
			s.removeFromOrder(id)
			return true
		}
	}
	return false
}

// Clear removes every annotation and resets the counter. Used when a
// crop flattens the scene into the raster.
func (s *Scene) Clear() {
	s.Steps = nil
	s.Shapes = nil
	s.Texts = nil
	s.DrawOrder = nil
	s.NextStep = 1
}

func (s *Scene) removeFromOrder(id string) {
	for i, v := range s.DrawOrder {
		if v == id {
			s.DrawOrder = append(s.DrawOrder[:i], s.DrawOrder[i+1:]...)
			return
		}
	}
}

// BringToFront moves id to the end of the draw order.
func (s *Scene) BringToFront(id string) {
	if !s.Contains(id) {
		return
	}
	s.removeFromOrder(id)
	s.DrawOrder = append(s.DrawOrder, id)
}

// SendToBack moves id to the start of the draw order.
func (s *Scene) SendToBack(id string) {
	if !s.Contains(id) {
		return
	}
	s.removeFromOrder(id)
	s.DrawOrder = append([]string{id}, s.DrawOrder...)
}

// Contains reports whether id names a live annotation.
func (s *Scene) Contains(id string) bool {
	_, _, ok := s.find(id)
	return ok
}

type kind int

const (
	kindStep kind = iota
	kindShape
	kindText
)

func (s *Scene) find(id string) (kind, int, bool) {
	for i, st := range s.Steps {
		if st.ID == id {
			return kindStep, i, true
		}
	}
	for i, sh := range s.Shapes {
		if sh.ID == id {
			return kindShape, i, true
		}
	}
	for i, t := range s.Texts {
		if t.ID == id {
			return kindText, i, true
		}
	}
	return 0, 0, false
}

// Step returns a pointer to the step with the given id, or nil.
func (s *Scene) Step(id string) *annotation.StepIndicator {
	for i := range s.Steps {
		if s.Steps[i].ID == id {
			return &s.Steps[i]
		}
	}
	return nil
}

// Shape returns a pointer to the shape with the given id, or nil.
func (s *Scene) Shape(id string) *annotation.Shape {
	for i := range s.Shapes {
		if s.Shapes[i].ID == id {
			return &s.Shapes[i]
		}
	}
	return nil
}

// Text returns a pointer to the text with the given id, or nil.
func (s *Scene) Text(id string) *annotation.Text {
	for i := range s.Texts {
		if s.Texts[i].ID == id {
			return &s.Texts[i]
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the annotation with
// the given id. The zero rectangle is returned for unknown ids.
func (s *Scene) Bounds(id string) image.Rectangle {
	if st := s.Step(id); st != nil {
		return annotation.StepBounds(*st)
	}
	if sh := s.Shape(id); sh != nil {
		if sh.Kind == annotation.KindArrow {
			return image.Rect(sh.P1.X, sh.P1.Y, sh.P2.X, sh.P2.Y).Canon()
		}
		return sh.Bounds()
	}
	if t := s.Text(id); t != nil {
		return t.Bounds()
	}
	return image.Rectangle{}
}

// Translate moves the annotation with the given id by delta.
func (s *Scene) Translate(id string, delta image.Point) {
	if st := s.Step(id); st != nil {
		st.Pos = st.Pos.Add(delta)
		return
	}
	if sh := s.Shape(id); sh != nil {
		sh.P1 = sh.P1.Add(delta)
		sh.P2 = sh.P2.Add(delta)
		return
	}
	if t := s.Text(id); t != nil {
		t.Pos = t.Pos.Add(delta)
	}
}

// TranslateAll moves every listed annotation by the same delta.
func (s *Scene) TranslateAll(ids []string, delta image.Point) {
	for _, id := range ids {
		s.Translate(id, delta)
	}
}

// Validate checks the draw order invariant: every live annotation id
// appears exactly once and no stale ids remain.
func (s *Scene) Validate() error {
	seen := map[string]int{}
	for _, id := range s.DrawOrder {
		seen[id]++
	}
	live := 0
	check := func(id string) error {
		live++
		switch seen[id] {
		case 1:
			return nil
		case 0:
			return fmt.Errorf("annotation %s missing from draw order", id)
		default:
			return fmt.Errorf("annotation %s appears %d times in draw order", id, seen[id])
		}
	}
	for _, st := range s.Steps {
		if err := check(st.ID); err != nil {
			return err
		}
	}
	for _, sh := range s.Shapes {
		if err := check(sh.ID); err != nil {
			return err
		}
	}
	for _, t := range s.Texts {
		if err := check(t.ID); err != nil {
			return err
		}
	}
	if live != len(s.DrawOrder) {
		return fmt.Errorf("draw order has %d entries for %d annotations", len(s.DrawOrder), live)
	}
	return nil
}

// ReconstructDrawOrder rebuilds the draw order deterministically for
// documents that predate it: blur shapes first, then the remaining
// shapes, then steps, then texts.
func (s *Scene) ReconstructDrawOrder() {
	order := make([]string, 0, len(s.Steps)+len(s.Shapes)+len(s.Texts))
	for _, sh := range s.Shapes {
		if sh.Kind == annotation.KindBlur {
			order = append(order, sh.ID)
		}
	}
	for _, sh := range s.Shapes {
		if sh.Kind != annotation.KindBlur {
			order = append(order, sh.ID)
		}
	}
	for _, st := range s.Steps {
		order = append(order, st.ID)
	}
	for _, t := range s.Texts {
		order = append(order, t.ID)
	}
	s.DrawOrder = order
}
