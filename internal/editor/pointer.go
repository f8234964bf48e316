package editor

import (
	"image"
	"math"

	"golang.org/x/mobile/event/key"

	"github.com/example/snapmark/internal/annotation"
)

// PointerDown starts a gesture at p (image space). mods carries the
// keyboard modifiers held at press time.
func (c *Controller) PointerDown(p image.Point, mods key.Modifiers) {
	tab := c.Tab()
	if tab == nil {
		return
	}
	if c.overlay != nil {
		c.overlayPointerDown(p)
		return
	}
	if c.text.Active {
		// Clicking away from an open text editor commits it first.
		c.commitText()
	}

	c.gestureStart = p
	c.gestureLast = p

	switch c.tool {
	case ToolStep:
		// Steps place immediately on press; there is no drag phase.
		c.pushUndo(false)
		st := annotation.StepIndicator{
			ID:    annotation.NewID(),
			Pos:   p,
			Label: annotation.FormatStepLabel(tab.Scene.NextStep, c.stepStyle()),
			Style: c.stepStyle(),
			Color: c.defaults.ShapeColor,
			Size:  c.defaults.StepSize,
		}
		tab.Scene.AddStep(st)
		c.clearSelection()
		c.selection[st.ID] = struct{}{}

	case ToolText:
		c.text = textState{Active: true, Pos: p, Lines: []string{""}}

	case ToolRect, ToolArrow, ToolBlur:
		c.gesture = gesturePlace
		c.preview = c.newShapeAt(p)

	case ToolCrop:
		c.gesture = gestureCrop
		c.cropReady = false
		c.pendingCrop = image.Rectangle{Min: p, Max: p}

	case ToolSelect:
		c.selectPointerDown(p, mods)
	}
}

func (c *Controller) selectPointerDown(p image.Point, mods key.Modifiers) {
	tab := c.Tab()

	// A resize handle on the single selected shape wins over hit
	// testing, so handles stay grabbable even where annotations
	// overlap.
	if ids := c.Selection(); len(ids) == 1 {
		if sh := tab.Scene.Shape(ids[0]); sh != nil {
			if h := annotation.ShapeHandleAt(*sh, p); h != annotation.HandleNone {
				c.pushUndo(false)
				b := sh.Bounds()
				if sh.Kind != annotation.KindArrow {
					sh.P1, sh.P2 = b.Min, b.Max
				}
				c.gesture = gestureResize
				c.gestureID = sh.ID
				c.handle = h
				return
			}
		}
	}

	hit := tab.Scene.HitTest(p)
	if hit == "" {
		c.clearSelection()
		c.gesture = gestureBand
		c.band = image.Rectangle{Min: p, Max: p}
		return
	}

	if mods&(key.ModControl|key.ModShift) != 0 {
		// Toggle membership without starting a drag.
		if _, ok := c.selection[hit]; ok {
			delete(c.selection, hit)
		} else {
			c.selection[hit] = struct{}{}
		}
		return
	}

	if _, ok := c.selection[hit]; ok && len(c.selection) > 1 {
		c.gesture = gestureGroupDrag
	} else {
		c.clearSelection()
		c.selection[hit] = struct{}{}
		c.gesture = gestureDrag
		c.gestureID = hit
	}
	// One entry for the whole drag, pushed on the first real move so
	// a click that never drags stays out of history.
	c.pendingPush = true
}

// dragPush records the pre-drag snapshot once per drag gesture.
func (c *Controller) dragPush() {
	if c.pendingPush {
		c.pendingPush = false
		c.pushUndo(false)
	}
}

// PointerMove advances an in-flight gesture. Moves outside a gesture
// are ignored.
func (c *Controller) PointerMove(p image.Point, mods key.Modifiers) {
	tab := c.Tab()
	if tab == nil {
		return
	}
	switch c.gesture {
	case gesturePlace:
		c.preview.P2 = p
		if c.preview.Kind == annotation.KindArrow && mods&key.ModShift != 0 {
			c.preview.P2 = snapAngle(c.preview.P1, p)
		}

	case gestureDrag:
		if d := p.Sub(c.gestureLast); d != (image.Point{}) {
			c.dragPush()
			tab.Scene.Translate(c.gestureID, d)
		}

	case gestureGroupDrag:
		if d := p.Sub(c.gestureLast); d != (image.Point{}) {
			c.dragPush()
			tab.Scene.TranslateAll(c.Selection(), d)
		}

	case gestureResize:
		c.resizeTo(p, mods)

	case gestureBand:
		c.band.Max = p

	case gestureCrop:
		c.pendingCrop.Max = p

	case gestureOverlayMove, gestureOverlayResize, gestureOverlayCrop:
		c.overlayPointerMove(p)
	}
	c.gestureLast = p
}

// PointerUp ends the gesture. Draw gestures below the minimum size are
// discarded without a history entry.
func (c *Controller) PointerUp(p image.Point, mods key.Modifiers) {
	tab := c.Tab()
	if tab == nil {
		return
	}
	c.PointerMove(p, mods)

	switch c.gesture {
	case gesturePlace:
		sh := c.preview
		c.preview = nil
		c.gesture = gestureNone
		b := sh.Bounds()
		if b.Dx() < minGestureSize && b.Dy() < minGestureSize {
			return
		}
		c.pushUndo(false)
		tab.Scene.AddShape(*sh)
		c.clearSelection()
		c.selection[sh.ID] = struct{}{}

	case gestureBand:
		band := c.band.Canon()
		c.band = image.Rectangle{}
		c.gesture = gestureNone
		c.clearSelection()
		for _, id := range tab.Scene.IntersectBand(band) {
			c.selection[id] = struct{}{}
		}

	case gestureCrop:
		c.gesture = gestureNone
		r := c.pendingCrop.Canon().Intersect(tab.Image.Bounds())
		if r.Dx() < minGestureSize || r.Dy() < minGestureSize {
			c.pendingCrop = image.Rectangle{}
			return
		}
		// Armed; the crop applies on ConfirmCrop (Enter) and is
		// dropped by CancelCrop (Escape).
		c.pendingCrop = r
		c.cropReady = true

	case gestureDrag, gestureGroupDrag:
		c.gesture = gestureNone
		c.pendingPush = false

	case gestureOverlayMove, gestureOverlayResize, gestureOverlayCrop:
		c.overlayPointerUp(p)

	default:
		c.gesture = gestureNone
	}
}

// DoubleClick opens the text editor over an existing text annotation.
// Elsewhere it behaves like a click.
func (c *Controller) DoubleClick(p image.Point, mods key.Modifiers) {
	tab := c.Tab()
	if tab == nil || c.overlay != nil {
		return
	}
	hit := tab.Scene.HitTest(p)
	if hit != "" {
		if t := tab.Scene.Text(hit); t != nil {
			c.clearSelection()
			c.text = textState{
				Active:   true,
				Pos:      t.Pos,
				Lines:    append([]string(nil), t.Lines...),
				EditID:   t.ID,
				original: t.String(),
			}
			return
		}
	}
	c.PointerDown(p, mods)
	c.PointerUp(p, mods)
}

func (c *Controller) newShapeAt(p image.Point) *annotation.Shape {
	sh := &annotation.Shape{
		ID:          annotation.NewID(),
		P1:          p,
		P2:          p,
		Color:       c.defaults.ShapeColor,
		StrokeWidth: c.defaults.StrokeWidth,
	}
	switch c.tool {
	case ToolArrow:
		sh.Kind = annotation.KindArrow
		sh.Chevron = c.defaults.ArrowChevron
	case ToolBlur:
		sh.Kind = annotation.KindBlur
		sh.BlurStrength = c.defaults.BlurStrength
	default:
		sh.Kind = annotation.KindRect
		sh.Filled = c.defaults.ShapeFilled
	}
	return sh
}

func (c *Controller) resizeTo(p image.Point, mods key.Modifiers) {
	tab := c.Tab()
	sh := tab.Scene.Shape(c.gestureID)
	if sh == nil {
		c.gesture = gestureNone
		return
	}
	if sh.Kind == annotation.KindArrow {
		switch c.handle {
		case annotation.HandleStart:
			sh.P1 = p
			if mods&key.ModShift != 0 {
				sh.P1 = snapAngle(sh.P2, p)
			}
		case annotation.HandleEnd:
			sh.P2 = p
			if mods&key.ModShift != 0 {
				sh.P2 = snapAngle(sh.P1, p)
			}
		}
		return
	}
	// Box shapes were canonicalised at gesture start, so P1 is the
	// top-left and P2 the bottom-right corner.
	switch c.handle {
	case annotation.HandleTopLeft:
		sh.P1 = p
	case annotation.HandleTopRight:
		sh.P2.X, sh.P1.Y = p.X, p.Y
	case annotation.HandleBottomLeft:
		sh.P1.X, sh.P2.Y = p.X, p.Y
	case annotation.HandleBottomRight:
		sh.P2 = p
	}
}

// snapAngle constrains p to the nearest 45 degree ray from anchor,
// preserving the distance.
func snapAngle(anchor, p image.Point) image.Point {
	dx := float64(p.X - anchor.X)
	dy := float64(p.Y - anchor.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return p
	}
	step := math.Pi / 4
	angle := math.Round(math.Atan2(dy, dx)/step) * step
	return image.Pt(
		anchor.X+int(math.Round(length*math.Cos(angle))),
		anchor.Y+int(math.Round(length*math.Sin(angle))),
	)
}
