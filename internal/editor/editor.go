// Package editor implements the pointer/keyboard interaction state
// machine over the scene store: tool selection, draw and placement
// gestures, drag/resize/multi-select, rubber-band selection, floating
// paste overlays and destructive crop. All coordinates entering the
// controller are image-space; the live view converts from window
// coordinates before dispatching. Only one gesture can be in flight at
// a time by construction.
package editor

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/history"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/scene"
)

// Tool identifies the active annotation tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolStep
	ToolText
	ToolRect
	ToolArrow
	ToolBlur
	ToolCrop
)

// minGestureSize is the minimum width or height, in image pixels, a
// draw gesture must span before it commits an annotation or crop
// region. Smaller drags are discarded without touching history.
const minGestureSize = 5

// pasteOffset is applied to pasted/duplicated annotations so they do
// not land exactly on top of their source.
var pasteOffset = image.Pt(12, 12)

const thumbSize = 160

// Tab is one open document: a base raster plus its annotation scene.
type Tab struct {
	ID    string
	Name  string
	Image *image.RGBA
	Thumb *image.RGBA
	Scene *scene.Scene

	// Zoom and Offset position the live view; they never affect the
	// annotation coordinates, which stay in image space.
	Zoom   float64
	Offset image.Point
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gesturePlace
	gestureDrag
	gestureGroupDrag
	gestureResize
	gestureBand
	gestureCrop
	gestureOverlayMove
	gestureOverlayResize
	gestureOverlayCrop
)

// Controller is the interaction state machine. It owns the open tabs,
// their scenes and the undo/redo history.
type Controller struct {
	tabs    []*Tab
	current int

	hist     *history.Manager
	defaults config.Defaults

	tool      Tool
	selection map[string]struct{}

	gesture      gestureKind
	gestureStart image.Point
	gestureLast  image.Point
	gestureID    string
	handle       annotation.Handle
	preview      *annotation.Shape
	band         image.Rectangle
	// pendingPush defers the drag gesture's history entry until the
	// pointer actually moves.
	pendingPush bool

	pendingCrop image.Rectangle
	cropReady   bool

	overlay *Overlay

	text textState

	clip []clipItem
}

type textState struct {
	Active bool
	Pos    image.Point
	Lines  []string
	// EditID is set while re-editing an existing annotation.
	EditID   string
	original string
}

type clipItem struct {
	step  *annotation.StepIndicator
	shape *annotation.Shape
	text  *annotation.Text
}

// Option configures a Controller during creation.
type Option func(*Controller)

// WithDefaults sets the tool defaults, usually from the settings store.
func WithDefaults(d config.Defaults) Option {
	return func(c *Controller) { c.defaults = d }
}

// WithTool sets the initially active tool.
func WithTool(t Tool) Option {
	return func(c *Controller) { c.tool = t }
}

// New creates a Controller with the provided options.
func New(opts ...Option) *Controller {
	c := &Controller{
		hist:      history.NewManager(),
		defaults:  config.New().Defaults,
		tool:      ToolSelect,
		selection: map[string]struct{}{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewTab opens a new document around img and makes it current.
func (c *Controller) NewTab(img *image.RGBA, name string) *Tab {
	if name == "" {
		name = fmt.Sprintf("%d", len(c.tabs)+1)
	}
	t := &Tab{
		ID:    annotation.NewID(),
		Name:  name,
		Image: img,
		Thumb: render.Thumbnail(img, thumbSize),
		Scene: scene.New(),
		Zoom:  1,
	}
	c.tabs = append(c.tabs, t)
	c.current = len(c.tabs) - 1
	c.resetInteraction()
	return t
}

// Tabs returns the open tabs in order.
func (c *Controller) Tabs() []*Tab { return c.tabs }

// Tab returns the current tab, or nil when none is open.
func (c *Controller) Tab() *Tab {
	if c.current < 0 || c.current >= len(c.tabs) {
		return nil
	}
	return c.tabs[c.current]
}

// SelectTab switches the current tab. Out-of-range indexes are
// ignored. Gestures and selection do not survive a tab switch; the
// per-tab history stacks do.
func (c *Controller) SelectTab(i int) {
	if i < 0 || i >= len(c.tabs) || i == c.current {
		return
	}
	c.current = i
	c.resetInteraction()
}

// CloseTab closes tab i and drops its history.
func (c *Controller) CloseTab(i int) {
	if i < 0 || i >= len(c.tabs) {
		return
	}
	c.hist.Drop(c.tabs[i].ID)
	c.tabs = append(c.tabs[:i], c.tabs[i+1:]...)
	if c.current >= len(c.tabs) {
		c.current = len(c.tabs) - 1
	}
	c.resetInteraction()
}

func (c *Controller) resetInteraction() {
	c.gesture = gestureNone
	c.pendingPush = false
	c.preview = nil
	c.band = image.Rectangle{}
	c.cropReady = false
	c.pendingCrop = image.Rectangle{}
	c.overlay = nil
	c.text = textState{}
	c.selection = map[string]struct{}{}
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool switches the active tool, aborting any pending interaction
// state. Switching tools never mutates the scene.
func (c *Controller) SetTool(t Tool) {
	if c.text.Active {
		c.commitText()
	}
	c.tool = t
	c.gesture = gestureNone
	c.preview = nil
	c.cropReady = false
	c.pendingCrop = image.Rectangle{}
}

// Selection returns the ids of the selected annotations in draw order.
func (c *Controller) Selection() []string {
	tab := c.Tab()
	if tab == nil {
		return nil
	}
	var ids []string
	for _, id := range tab.Scene.DrawOrder {
		if _, ok := c.selection[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Selected reports whether id is part of the selection.
func (c *Controller) Selected(id string) bool {
	_, ok := c.selection[id]
	return ok
}

func (c *Controller) clearSelection() {
	c.selection = map[string]struct{}{}
}

// snapshot builds a history entry from the current tab. withImage
// additionally captures the raster for destructive operations.
func (c *Controller) snapshot(withImage bool) history.Entry {
	tab := c.Tab()
	e := history.Entry{Scene: tab.Scene.Clone()}
	if withImage {
		e.Image = cloneRGBA(tab.Image)
		e.Thumb = cloneRGBA(tab.Thumb)
	}
	return e
}

// pushUndo records one history entry for the current tab. Every
// discrete user action calls this exactly once; continuous gestures
// call it at gesture start only and mutate silently afterwards.
func (c *Controller) pushUndo(withImage bool) {
	tab := c.Tab()
	if tab == nil {
		return
	}
	c.hist.Push(tab.ID, c.snapshot(withImage))
}

// Undo restores the most recent history entry. A no-op on an empty
// stack.
func (c *Controller) Undo() {
	tab := c.Tab()
	if tab == nil {
		return
	}
	top, ok := c.hist.PeekUndo(tab.ID)
	if !ok {
		return
	}
	e, _ := c.hist.Undo(tab.ID, c.snapshot(top.Image != nil))
	c.applyEntry(tab, e)
}

// Redo reapplies the most recently undone entry. A no-op on an empty
// stack.
func (c *Controller) Redo() {
	tab := c.Tab()
	if tab == nil {
		return
	}
	top, ok := c.hist.PeekRedo(tab.ID)
	if !ok {
		return
	}
	e, _ := c.hist.Redo(tab.ID, c.snapshot(top.Image != nil))
	c.applyEntry(tab, e)
}

func (c *Controller) applyEntry(tab *Tab, e history.Entry) {
	tab.Scene = e.Scene.Clone()
	if e.Image != nil {
		tab.Image = cloneRGBA(e.Image)
		tab.Thumb = cloneRGBA(e.Thumb)
	}
	c.gesture = gestureNone
	c.preview = nil
	c.clearSelection()
}

// UndoDepth reports the current tab's undo stack depth, mainly for
// status display.
func (c *Controller) UndoDepth() int {
	tab := c.Tab()
	if tab == nil {
		return 0
	}
	return c.hist.UndoDepth(tab.ID)
}

// PreviewShape returns the uncommitted shape of an in-flight draw
// gesture for the live view to render, or nil.
func (c *Controller) PreviewShape() *annotation.Shape { return c.preview }

// BandRect returns the active rubber-band rectangle, or the zero
// rectangle.
func (c *Controller) BandRect() image.Rectangle {
	if c.gesture != gestureBand {
		return image.Rectangle{}
	}
	return c.band.Canon()
}

// TextState exposes the in-progress text editing state to the view.
func (c *Controller) TextState() (active bool, pos image.Point, lines []string) {
	return c.text.Active, c.text.Pos, c.text.Lines
}

func (c *Controller) refreshThumb() {
	tab := c.Tab()
	tab.Thumb = render.Thumbnail(tab.Image, thumbSize)
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

// scaleImage resizes img to w×h.
func scaleImage(img *image.RGBA, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}

func (c *Controller) stepStyle() annotation.StepStyle {
	switch c.defaults.StepStyle {
	case "plain":
		return annotation.StepPlain
	case "paren":
		return annotation.StepParen
	case "roman":
		return annotation.StepRoman
	default:
		return annotation.StepDecimal
	}
}
