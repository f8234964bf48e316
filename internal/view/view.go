// Package view runs the interactive window: it feeds pointer and key
// events into the editor controller with coordinates translated to
// image space, and paints the live frame through the same renderer
// the export path uses so what is shown matches what is written.
package view

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/project"
	"github.com/example/snapmark/internal/render"
)

const (
	tabHeight    = 24
	bottomHeight = 24
)

var (
	checkerLight = color.RGBA{220, 220, 220, 255}
	checkerDark  = color.RGBA{192, 192, 192, 255}

	selectionA = color.RGBA{255, 255, 255, 255}
	selectionB = color.RGBA{30, 30, 30, 255}
)

const doubleClickWindow = 400 * time.Millisecond

// Options configures the interactive session.
type Options struct {
	// ProjectPath receives ctrl+s saves; empty disables project saving.
	ProjectPath string
	// ExportPath receives ctrl+e exports; empty disables exporting.
	ExportPath string
	Config     *config.Config
	Notifier   *notify.Notifier
}

// View owns the window-side state of a session: zoom handling, event
// translation and frame painting around one editor controller.
type View struct {
	ctrl *editor.Controller
	opts Options

	winW, winH int

	lastClick    time.Time
	lastClickPos image.Point

	backdrop *image.RGBA
}

// Run opens the window and blocks until it closes.
func Run(ctrl *editor.Controller, opts Options) {
	v := &View{ctrl: ctrl, opts: opts}
	driver.Main(v.main)
}

func (v *View) main(s screen.Screen) {
	tab := v.ctrl.Tab()
	if tab == nil {
		log.Print("no tab to display")
		return
	}
	width := tab.Image.Bounds().Dx()
	height := tab.Image.Bounds().Dy() + tabHeight + bottomHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  width,
		Height: height,
		Title:  "Snapmark",
	})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	v.winW, v.winH = width, height
	tab.Zoom = v.fitZoom(tab.Image)

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			v.winW, v.winH = e.WidthPx, e.HeightPx
			v.backdrop = nil
			w.Send(paint.Event{})
		case paint.Event:
			v.drawFrame(s, w)
		case mouse.Event:
			if v.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if v.handleKey(e) {
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

// fitZoom picks the largest zoom that fits the raster into the canvas
// area, capped at 1 so small images are not blown up on open.
func (v *View) fitZoom(img *image.RGBA) float64 {
	availW := v.winW
	availH := v.winH - tabHeight - bottomHeight
	if availW <= 0 || availH <= 0 {
		return 1
	}
	zx := float64(availW) / float64(img.Bounds().Dx())
	zy := float64(availH) / float64(img.Bounds().Dy())
	z := zx
	if zy < z {
		z = zy
	}
	if z > 1 {
		z = 1
	}
	return z
}

// canvasRect is the window-space rectangle the raster occupies at the
// tab's zoom and pan offset. The origin is anchored below the tab
// strip so positions stay stable as the window resizes.
func (v *View) canvasRect(tab *editor.Tab) image.Rectangle {
	w := int(float64(tab.Image.Bounds().Dx()) * tab.Zoom)
	h := int(float64(tab.Image.Bounds().Dy()) * tab.Zoom)
	origin := image.Pt(
		int(float64(tab.Offset.X)*tab.Zoom),
		tabHeight+int(float64(tab.Offset.Y)*tab.Zoom),
	)
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}
}

// toImage converts a window-space point to image space.
func (v *View) toImage(tab *editor.Tab, p image.Point) image.Point {
	base := v.canvasRect(tab)
	return image.Pt(
		int(float64(p.X-base.Min.X)/tab.Zoom),
		int(float64(p.Y-base.Min.Y)/tab.Zoom),
	)
}

// toWindow converts an image-space point to window space.
func (v *View) toWindow(tab *editor.Tab, p image.Point) image.Point {
	base := v.canvasRect(tab)
	return image.Pt(
		base.Min.X+int(float64(p.X)*tab.Zoom),
		base.Min.Y+int(float64(p.Y)*tab.Zoom),
	)
}

func (v *View) windowRect(tab *editor.Tab, r image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: v.toWindow(tab, r.Min), Max: v.toWindow(tab, r.Max)}
}

func (v *View) handleMouse(e mouse.Event) bool {
	tab := v.ctrl.Tab()
	if tab == nil {
		return false
	}
	wp := image.Pt(int(e.X), int(e.Y))

	switch e.Button {
	case mouse.ButtonWheelUp:
		v.zoomBy(tab, 1.25)
		return true
	case mouse.ButtonWheelDown:
		v.zoomBy(tab, 0.8)
		return true
	}

	if e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft && wp.Y < tabHeight {
		v.clickTabStrip(wp)
		return true
	}

	ip := v.toImage(tab, wp)
	switch {
	case e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft:
		now := time.Now()
		dx, dy := wp.X-v.lastClickPos.X, wp.Y-v.lastClickPos.Y
		if now.Sub(v.lastClick) < doubleClickWindow && dx*dx+dy*dy < 16 {
			v.lastClick = time.Time{}
			v.ctrl.DoubleClick(ip, e.Modifiers)
		} else {
			v.lastClick = now
			v.lastClickPos = wp
			v.ctrl.PointerDown(ip, e.Modifiers)
		}
		return true
	case e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft:
		v.ctrl.PointerUp(ip, e.Modifiers)
		return true
	case e.Direction == mouse.DirNone:
		v.ctrl.PointerMove(ip, e.Modifiers)
		return true
	}
	return false
}

// zoomBy scales the view around the canvas origin. Annotation
// coordinates are untouched; only the window transform changes.
func (v *View) zoomBy(tab *editor.Tab, factor float64) {
	z := tab.Zoom * factor
	if z < 0.1 {
		z = 0.1
	}
	if z > 8 {
		z = 8
	}
	tab.Zoom = z
}

func (v *View) clickTabStrip(p image.Point) {
	x := 0
	d := &font.Drawer{Face: basicfont.Face7x13}
	for i, tab := range v.ctrl.Tabs() {
		w := d.MeasureString(tab.Name).Ceil() + 16
		if p.X >= x && p.X < x+w {
			v.ctrl.SelectTab(i)
			return
		}
		x += w
	}
}

func (v *View) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if e.Modifiers&key.ModControl != 0 {
		switch e.Rune {
		case 's', 'S':
			v.saveProject()
			return true
		case 'e', 'E':
			v.export()
			return true
		case 'c', 'C':
			if e.Modifiers&key.ModShift != 0 {
				v.copyComposite()
				return true
			}
		case 'v', 'V':
			// A system clipboard image becomes a floating overlay;
			// otherwise the internal annotation clipboard pastes.
			if img, err := clipboard.ReadImage(); err == nil {
				v.ctrl.PasteImage(img)
				return true
			}
		case '=', '+':
			if tab := v.ctrl.Tab(); tab != nil {
				v.zoomBy(tab, 1.25)
			}
			return true
		case '-':
			if tab := v.ctrl.Tab(); tab != nil {
				v.zoomBy(tab, 0.8)
			}
			return true
		case '0':
			if tab := v.ctrl.Tab(); tab != nil {
				tab.Zoom = v.fitZoom(tab.Image)
				tab.Offset = image.Point{}
			}
			return true
		}
	}
	v.ctrl.KeyPress(e)
	return true
}

func (v *View) saveProject() {
	if v.opts.ProjectPath == "" {
		return
	}
	tabs := v.ctrl.Tabs()
	current := 0
	for i, t := range tabs {
		if t == v.ctrl.Tab() {
			current = i
		}
	}
	if err := project.SaveFile(v.opts.ProjectPath, tabs, current); err != nil {
		log.Printf("save project: %v", err)
		return
	}
	if v.opts.Notifier != nil {
		v.opts.Notifier.Save(v.opts.ProjectPath)
	}
}

func (v *View) composite() *image.RGBA {
	tab := v.ctrl.Tab()
	cfg := v.opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	return render.Composite(tab.Image, tab.Scene, render.CompositorOptions(cfg))
}

func (v *View) export() {
	if v.opts.ExportPath == "" || v.ctrl.Tab() == nil {
		return
	}
	out := v.composite()
	if err := render.WriteFile(v.opts.ExportPath, out, exportFormat(v.opts.Config)); err != nil {
		log.Printf("export: %v", err)
		return
	}
	if v.opts.Notifier != nil {
		v.opts.Notifier.Export(v.opts.ExportPath, render.Thumbnail(out, 256))
	}
}

func (v *View) copyComposite() {
	if v.ctrl.Tab() == nil {
		return
	}
	if err := clipboard.WriteImage(v.composite()); err != nil {
		log.Printf("copy: %v", err)
		return
	}
	if v.opts.Notifier != nil {
		v.opts.Notifier.Copy("image")
	}
}

func exportFormat(cfg *config.Config) render.EncodeOptions {
	if cfg == nil {
		cfg = config.New()
	}
	return render.EncodeOptions{Format: cfg.Export.Format, Quality: cfg.Export.Quality}
}

func (v *View) drawFrame(s screen.Screen, w screen.Window) {
	tab := v.ctrl.Tab()
	if tab == nil {
		return
	}
	b, err := s.NewBuffer(image.Pt(v.winW, v.winH))
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	v.drawBackdrop(dst)

	// Live frame: the same flatten the export path uses, plus the
	// in-flight preview and text editor, scaled to the window.
	live := render.Flatten(tab.Image, tab.Scene)
	if sh := v.ctrl.PreviewShape(); sh != nil {
		render.DrawShape(live, *sh, image.Point{}, 1)
	}
	if active, pos, lines := v.ctrl.TextState(); active {
		cur := append([]string(nil), lines...)
		cur[len(cur)-1] += "|"
		render.DrawText(live, annotation.Text{
			Pos: pos, Lines: cur,
			FontSize: defaultFontSize(v.opts.Config),
			Color:    defaultColor(v.opts.Config),
		}, image.Point{}, 1)
	}
	canvas := v.canvasRect(tab)
	xdraw.NearestNeighbor.Scale(dst, canvas, live, live.Bounds(), draw.Over, nil)

	v.drawSelection(dst, tab)
	if band := v.ctrl.BandRect(); !band.Empty() {
		render.DrawDashedRect(dst, v.windowRect(tab, band), 4, 1, selectionA, selectionB)
	}
	if r, ok := v.ctrl.PendingCrop(); ok {
		render.DrawDashedRect(dst, v.windowRect(tab, r), 4, 2, selectionA, selectionB)
	}
	if o := v.ctrl.Overlay(); o != nil {
		or := v.windowRect(tab, o.Bounds())
		xdraw.ApproxBiLinear.Scale(dst, or, o.Image, o.Image.Bounds(), draw.Over, nil)
		render.DrawDashedRect(dst, or, 4, 1, selectionA, selectionB)
		for _, c := range [4]image.Point{
			or.Min, {or.Max.X, or.Min.Y}, {or.Min.X, or.Max.Y}, or.Max,
		} {
			render.DrawHandle(dst, c, 6, color.White, color.Black)
		}
	}

	v.drawTabStrip(dst)
	v.drawStatus(dst, tab)

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func (v *View) drawBackdrop(dst *image.RGBA) {
	bounds := dst.Bounds()
	if v.backdrop == nil || v.backdrop.Bounds() != bounds {
		v.backdrop = image.NewRGBA(bounds)
		const size = 8
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if ((x/size)+(y/size))%2 == 0 {
					v.backdrop.SetRGBA(x, y, checkerLight)
				} else {
					v.backdrop.SetRGBA(x, y, checkerDark)
				}
			}
		}
	}
	draw.Draw(dst, bounds, v.backdrop, image.Point{}, draw.Src)
}

func (v *View) drawSelection(dst *image.RGBA, tab *editor.Tab) {
	sel := v.ctrl.Selection()
	for _, id := range sel {
		r := v.windowRect(tab, tab.Scene.Bounds(id))
		render.DrawDashedRect(dst, r, 4, 1, selectionA, selectionB)
	}
	// Resize handles appear only on a single selected shape.
	if len(sel) != 1 {
		return
	}
	sh := tab.Scene.Shape(sel[0])
	if sh == nil {
		return
	}
	if sh.Kind == annotation.KindArrow {
		render.DrawHandle(dst, v.toWindow(tab, sh.P1), 6, color.White, color.Black)
		render.DrawHandle(dst, v.toWindow(tab, sh.P2), 6, color.White, color.Black)
		return
	}
	r := v.windowRect(tab, sh.Bounds())
	for _, c := range [4]image.Point{
		r.Min, {r.Max.X, r.Min.Y}, {r.Min.X, r.Max.Y}, r.Max,
	} {
		render.DrawHandle(dst, c, 6, color.White, color.Black)
	}
}

func (v *View) drawTabStrip(dst *image.RGBA) {
	strip := image.Rect(0, 0, v.winW, tabHeight)
	draw.Draw(dst, strip, &image.Uniform{color.RGBA{50, 50, 56, 255}}, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: image.White, Face: basicfont.Face7x13}
	x := 0
	for _, tab := range v.ctrl.Tabs() {
		w := d.MeasureString(tab.Name).Ceil() + 16
		cell := image.Rect(x, 0, x+w, tabHeight)
		bg := color.RGBA{72, 72, 80, 255}
		if tab == v.ctrl.Tab() {
			bg = color.RGBA{110, 110, 122, 255}
		}
		draw.Draw(dst, cell, &image.Uniform{bg}, image.Point{}, draw.Src)
		d.Dot = fixed.P(x+8, tabHeight-8)
		d.DrawString(tab.Name)
		x += w
	}
}

func (v *View) drawStatus(dst *image.RGBA, tab *editor.Tab) {
	bar := image.Rect(0, v.winH-bottomHeight, v.winW, v.winH)
	draw.Draw(dst, bar, &image.Uniform{color.RGBA{50, 50, 56, 255}}, image.Point{}, draw.Src)

	status := fmt.Sprintf("%s  %d%%  undo:%d", toolName(v.ctrl.Tool()), int(tab.Zoom*100), v.ctrl.UndoDepth())
	d := &font.Drawer{Dst: dst, Src: image.White, Face: basicfont.Face7x13}
	d.Dot = fixed.P(8, v.winH-8)
	d.DrawString(status)
}

func toolName(t editor.Tool) string {
	switch t {
	case editor.ToolStep:
		return "step"
	case editor.ToolText:
		return "text"
	case editor.ToolRect:
		return "rect"
	case editor.ToolArrow:
		return "arrow"
	case editor.ToolBlur:
		return "blur"
	case editor.ToolCrop:
		return "crop"
	default:
		return "select"
	}
}

func defaultFontSize(cfg *config.Config) int {
	if cfg == nil {
		return config.New().Defaults.TextFontSize
	}
	return cfg.Defaults.TextFontSize
}

func defaultColor(cfg *config.Config) color.RGBA {
	if cfg == nil {
		return config.New().Defaults.ShapeColor
	}
	return cfg.Defaults.ShapeColor
}
