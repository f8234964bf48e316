package editor

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/snapmark/internal/annotation"
)

// Overlay is a floating pasted image hovering above the base raster.
// It can be moved, resized (aspect locked) and cropped freely until it
// is committed, at which point it is stamped into the raster as one
// destructive operation. None of the intermediate adjustments touch
// history.
type Overlay struct {
	Image *image.RGBA
	Pos   image.Point
	W, H  int

	// CropMode routes pointer input to crop-region selection inside
	// the overlay instead of move/resize.
	CropMode bool
	CropRect image.Rectangle
}

// Bounds returns the overlay's current placement rectangle in image
// space.
func (o *Overlay) Bounds() image.Rectangle {
	return image.Rect(o.Pos.X, o.Pos.Y, o.Pos.X+o.W, o.Pos.Y+o.H)
}

// Overlay returns the active floating overlay, or nil.
func (c *Controller) Overlay() *Overlay { return c.overlay }

// PasteImage floats img over the current tab as an overlay centred on
// the image. With no tab open it opens a new one instead.
func (c *Controller) PasteImage(img *image.RGBA) {
	tab := c.Tab()
	if tab == nil {
		c.NewTab(img, "")
		return
	}
	b := tab.Image.Bounds()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	c.overlay = &Overlay{
		Image: img,
		Pos:   image.Pt(b.Min.X+(b.Dx()-w)/2, b.Min.Y+(b.Dy()-h)/2),
		W:     w,
		H:     h,
	}
	c.gesture = gestureNone
	c.clearSelection()
}

// overlayHandleAt reports which corner handle of the overlay p falls
// on, using the same handle vocabulary as shapes.
func (o *Overlay) handleAt(p image.Point) annotation.Handle {
	b := o.Bounds()
	corners := []struct {
		pt image.Point
		h  annotation.Handle
	}{
		{b.Min, annotation.HandleTopLeft},
		{image.Pt(b.Max.X, b.Min.Y), annotation.HandleTopRight},
		{image.Pt(b.Min.X, b.Max.Y), annotation.HandleBottomLeft},
		{b.Max, annotation.HandleBottomRight},
	}
	for _, c := range corners {
		dx, dy := p.X-c.pt.X, p.Y-c.pt.Y
		if dx*dx+dy*dy <= int(annotation.HandleRadius*annotation.HandleRadius) {
			return c.h
		}
	}
	return annotation.HandleNone
}

func (c *Controller) overlayPointerDown(p image.Point) {
	o := c.overlay
	c.gestureStart = p
	c.gestureLast = p

	if o.CropMode {
		c.gesture = gestureOverlayCrop
		o.CropRect = image.Rectangle{Min: p, Max: p}
		return
	}
	if h := o.handleAt(p); h != annotation.HandleNone {
		c.gesture = gestureOverlayResize
		c.handle = h
		return
	}
	if p.In(o.Bounds()) {
		c.gesture = gestureOverlayMove
		return
	}
	// Clicking outside the overlay commits it.
	c.CommitOverlay()
}

func (c *Controller) overlayPointerMove(p image.Point) {
	o := c.overlay
	if o == nil {
		return
	}
	switch c.gesture {
	case gestureOverlayMove:
		o.Pos = o.Pos.Add(p.Sub(c.gestureLast))

	case gestureOverlayResize:
		c.overlayResizeTo(p)

	case gestureOverlayCrop:
		o.CropRect.Max = p
	}
}

func (c *Controller) overlayPointerUp(p image.Point) {
	o := c.overlay
	if o == nil {
		c.gesture = gestureNone
		return
	}
	if c.gesture == gestureOverlayCrop {
		r := o.CropRect.Canon().Intersect(o.Bounds())
		o.CropRect = image.Rectangle{}
		o.CropMode = false
		if r.Dx() >= minGestureSize && r.Dy() >= minGestureSize {
			c.cropOverlay(r)
		}
	}
	c.gesture = gestureNone
}

// overlayResizeTo resizes the overlay so the dragged corner tracks p
// while the opposite corner stays fixed. The aspect ratio of the
// pasted image is always preserved.
func (c *Controller) overlayResizeTo(p image.Point) {
	o := c.overlay
	b := o.Bounds()
	var anchor image.Point
	switch c.handle {
	case annotation.HandleTopLeft:
		anchor = b.Max
	case annotation.HandleTopRight:
		anchor = image.Pt(b.Min.X, b.Max.Y)
	case annotation.HandleBottomLeft:
		anchor = image.Pt(b.Max.X, b.Min.Y)
	case annotation.HandleBottomRight:
		anchor = b.Min
	default:
		return
	}
	srcW := o.Image.Bounds().Dx()
	srcH := o.Image.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return
	}
	w := p.X - anchor.X
	if w < 0 {
		w = -w
	}
	h := w * srcH / srcW
	if w < minGestureSize || h < minGestureSize {
		return
	}
	o.W, o.H = w, h
	switch c.handle {
	case annotation.HandleTopLeft:
		o.Pos = image.Pt(anchor.X-w, anchor.Y-h)
	case annotation.HandleTopRight:
		o.Pos = image.Pt(anchor.X, anchor.Y-h)
	case annotation.HandleBottomLeft:
		o.Pos = image.Pt(anchor.X-w, anchor.Y)
	case annotation.HandleBottomRight:
		o.Pos = anchor
	}
}

// BeginOverlayCrop switches the overlay into crop-region selection.
func (c *Controller) BeginOverlayCrop() {
	if c.overlay != nil {
		c.overlay.CropMode = true
	}
}

// cropOverlay trims the overlay image to r, given in image space over
// the overlay's current scaled placement.
func (c *Controller) cropOverlay(r image.Rectangle) {
	o := c.overlay
	src := o.Image.Bounds()
	sx := float64(src.Dx()) / float64(o.W)
	sy := float64(src.Dy()) / float64(o.H)
	local := image.Rect(
		src.Min.X+int(float64(r.Min.X-o.Pos.X)*sx),
		src.Min.Y+int(float64(r.Min.Y-o.Pos.Y)*sy),
		src.Min.X+int(float64(r.Max.X-o.Pos.X)*sx),
		src.Min.Y+int(float64(r.Max.Y-o.Pos.Y)*sy),
	).Intersect(src)
	if local.Empty() {
		return
	}
	out := image.NewRGBA(image.Rect(0, 0, local.Dx(), local.Dy()))
	draw.Draw(out, out.Bounds(), o.Image, local.Min, draw.Src)
	o.Image = out
	o.Pos = r.Min
	o.W, o.H = r.Dx(), r.Dy()
}

// CommitOverlay stamps the overlay into the tab raster at its current
// placement and size, recording one history entry that carries the
// prior pixels so a single undo removes it.
func (c *Controller) CommitOverlay() {
	tab := c.Tab()
	o := c.overlay
	if tab == nil || o == nil {
		return
	}
	c.pushUndo(true)
	dst := o.Bounds().Intersect(tab.Image.Bounds())
	if !dst.Empty() {
		scaled := o.Image
		if o.W != o.Image.Bounds().Dx() || o.H != o.Image.Bounds().Dy() {
			scaled = scaleImage(o.Image, o.W, o.H)
		}
		xdraw.Draw(tab.Image, dst, scaled, scaled.Bounds().Min.Add(dst.Min.Sub(o.Pos)), draw.Over)
	}
	c.overlay = nil
	c.gesture = gestureNone
	c.refreshThumb()
}

// CancelOverlay discards the overlay without touching raster or
// history.
func (c *Controller) CancelOverlay() {
	c.overlay = nil
	c.gesture = gestureNone
}
