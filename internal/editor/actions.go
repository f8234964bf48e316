package editor

import (
	"image"
	"sort"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/detect"
)

// AlignEdge selects the edge annotations are aligned to.
type AlignEdge int

const (
	AlignLeft AlignEdge = iota
	AlignRight
	AlignTop
	AlignBottom
	AlignCenterX
	AlignCenterY
)

// DeleteSelection removes every selected annotation in one history
// entry. Removing steps renumbers nothing; the counter simply backs up
// so the next placed step reuses the freed number.
func (c *Controller) DeleteSelection() {
	tab := c.Tab()
	ids := c.Selection()
	if tab == nil || len(ids) == 0 {
		return
	}
	c.pushUndo(false)
	for _, id := range ids {
		tab.Scene.Remove(id)
	}
	c.clearSelection()
}

// BringSelectionToFront moves the selection to the end of the draw
// order, preserving relative order within it.
func (c *Controller) BringSelectionToFront() {
	tab := c.Tab()
	ids := c.Selection()
	if tab == nil || len(ids) == 0 {
		return
	}
	c.pushUndo(false)
	for _, id := range ids {
		tab.Scene.BringToFront(id)
	}
}

// SendSelectionToBack moves the selection to the start of the draw
// order.
func (c *Controller) SendSelectionToBack() {
	tab := c.Tab()
	ids := c.Selection()
	if tab == nil || len(ids) == 0 {
		return
	}
	c.pushUndo(false)
	// Reverse so the first selected id ends up frontmost within the
	// moved block.
	for i := len(ids) - 1; i >= 0; i-- {
		tab.Scene.SendToBack(ids[i])
	}
}

// AlignSelection lines the selected annotations up on the given edge
// of their combined bounding box. Requires at least two selected.
func (c *Controller) AlignSelection(edge AlignEdge) {
	tab := c.Tab()
	ids := c.Selection()
	if tab == nil || len(ids) < 2 {
		return
	}
	union := tab.Scene.Bounds(ids[0])
	for _, id := range ids[1:] {
		union = union.Union(tab.Scene.Bounds(id))
	}
	c.pushUndo(false)
	for _, id := range ids {
		b := tab.Scene.Bounds(id)
		var d image.Point
		switch edge {
		case AlignLeft:
			d.X = union.Min.X - b.Min.X
		case AlignRight:
			d.X = union.Max.X - b.Max.X
		case AlignTop:
			d.Y = union.Min.Y - b.Min.Y
		case AlignBottom:
			d.Y = union.Max.Y - b.Max.Y
		case AlignCenterX:
			d.X = (union.Min.X+union.Max.X)/2 - (b.Min.X+b.Max.X)/2
		case AlignCenterY:
			d.Y = (union.Min.Y+union.Max.Y)/2 - (b.Min.Y+b.Max.Y)/2
		}
		tab.Scene.Translate(id, d)
	}
}

// DistributeSelection spaces three or more selected annotations with
// equal gaps along one axis. The outermost two stay put.
func (c *Controller) DistributeSelection(horizontal bool) {
	tab := c.Tab()
	ids := c.Selection()
	if tab == nil || len(ids) < 3 {
		return
	}
	type item struct {
		id string
		b  image.Rectangle
	}
	items := make([]item, len(ids))
	for i, id := range ids {
		items[i] = item{id, tab.Scene.Bounds(id)}
	}
	sort.Slice(items, func(i, j int) bool {
		if horizontal {
			return items[i].b.Min.X < items[j].b.Min.X
		}
		return items[i].b.Min.Y < items[j].b.Min.Y
	})

	first, last := items[0], items[len(items)-1]
	var span, sizes int
	if horizontal {
		span = last.b.Max.X - first.b.Min.X
	} else {
		span = last.b.Max.Y - first.b.Min.Y
	}
	for _, it := range items {
		if horizontal {
			sizes += it.b.Dx()
		} else {
			sizes += it.b.Dy()
		}
	}
	gap := (span - sizes) / (len(items) - 1)

	c.pushUndo(false)
	var cursor int
	if horizontal {
		cursor = first.b.Min.X
	} else {
		cursor = first.b.Min.Y
	}
	for i, it := range items {
		if i > 0 && i < len(items)-1 {
			var d image.Point
			if horizontal {
				d.X = cursor - it.b.Min.X
			} else {
				d.Y = cursor - it.b.Min.Y
			}
			tab.Scene.Translate(it.id, d)
		}
		if horizontal {
			cursor += it.b.Dx() + gap
		} else {
			cursor += it.b.Dy() + gap
		}
	}
}

// CopySelection stores deep copies of the selected annotations on the
// internal clipboard. It never touches the scene or history.
func (c *Controller) CopySelection() {
	tab := c.Tab()
	ids := c.Selection()
	if tab == nil || len(ids) == 0 {
		return
	}
	c.clip = nil
	for _, id := range ids {
		switch {
		case tab.Scene.Step(id) != nil:
			st := *tab.Scene.Step(id)
			c.clip = append(c.clip, clipItem{step: &st})
		case tab.Scene.Shape(id) != nil:
			sh := *tab.Scene.Shape(id)
			c.clip = append(c.clip, clipItem{shape: &sh})
		case tab.Scene.Text(id) != nil:
			t := *tab.Scene.Text(id)
			t.Lines = append([]string(nil), t.Lines...)
			c.clip = append(c.clip, clipItem{text: &t})
		}
	}
}

// PasteClipboard inserts clipboard annotations with fresh ids at a
// small offset from their source and selects them. One history entry
// per paste, however many annotations it carries.
func (c *Controller) PasteClipboard() {
	tab := c.Tab()
	if tab == nil || len(c.clip) == 0 {
		return
	}
	c.pushUndo(false)
	c.clearSelection()
	for _, it := range c.clip {
		switch {
		case it.step != nil:
			st := *it.step
			st.ID = annotation.NewID()
			st.Pos = st.Pos.Add(pasteOffset)
			// A pasted step keeps its label; the counter only advances
			// for freshly placed steps.
			tab.Scene.Steps = append(tab.Scene.Steps, st)
			tab.Scene.DrawOrder = append(tab.Scene.DrawOrder, st.ID)
			c.selection[st.ID] = struct{}{}
		case it.shape != nil:
			sh := *it.shape
			sh.ID = annotation.NewID()
			sh.P1 = sh.P1.Add(pasteOffset)
			sh.P2 = sh.P2.Add(pasteOffset)
			tab.Scene.AddShape(sh)
			c.selection[sh.ID] = struct{}{}
		case it.text != nil:
			t := *it.text
			t.ID = annotation.NewID()
			t.Pos = t.Pos.Add(pasteOffset)
			t.Lines = append([]string(nil), t.Lines...)
			tab.Scene.AddText(t)
			c.selection[t.ID] = struct{}{}
		}
	}
}

// DuplicateSelection is copy-then-paste in a single action.
func (c *Controller) DuplicateSelection() {
	c.CopySelection()
	c.PasteClipboard()
}

// ApplyRegions adds fill rectangles over detected regions, typically
// from text detection. tabID guards against the detection finishing
// after the user switched or closed tabs; a mismatch discards the
// result.
func (c *Controller) ApplyRegions(tabID string, regions []detect.Region) {
	tab := c.Tab()
	if tab == nil || tab.ID != tabID || len(regions) == 0 {
		return
	}
	c.pushUndo(false)
	for _, r := range regions {
		mode := annotation.RectBlackout
		if r.Light {
			mode = annotation.RectWhiteout
		}
		tab.Scene.AddShape(annotation.Shape{
			ID:       annotation.NewID(),
			Kind:     annotation.KindRect,
			P1:       r.Rect.Min,
			P2:       r.Rect.Max,
			RectMode: mode,
		})
	}
}
