package editor

import (
	"image"
	"image/draw"

	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/scene"
)

// PendingCrop returns the armed crop rectangle awaiting confirmation,
// and whether one exists.
func (c *Controller) PendingCrop() (image.Rectangle, bool) {
	return c.pendingCrop, c.cropReady
}

// ConfirmCrop flattens the scene into the raster at scale 1, trims the
// result to the armed region and replaces the tab image. All
// annotations are consumed by the flatten, so the scene resets. The
// history entry carries the prior raster; a single undo restores both
// pixels and annotations.
func (c *Controller) ConfirmCrop() {
	tab := c.Tab()
	if tab == nil || !c.cropReady {
		return
	}
	r := c.pendingCrop.Intersect(tab.Image.Bounds())
	c.cropReady = false
	c.pendingCrop = image.Rectangle{}
	if r.Empty() {
		return
	}
	c.pushUndo(true)

	flat := render.Flatten(tab.Image, tab.Scene)
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), flat, r.Min, draw.Src)

	tab.Image = out
	tab.Scene = scene.New()
	c.refreshThumb()
	c.clearSelection()
}

// CancelCrop drops the armed crop region without touching history.
func (c *Controller) CancelCrop() {
	c.cropReady = false
	c.pendingCrop = image.Rectangle{}
}
