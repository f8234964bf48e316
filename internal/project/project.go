// Package project saves and restores the full editing session: every
// open tab with its raster, thumbnail and annotation scene, so work
// can be resumed with annotations still editable. Documents are CBOR
// with integer keys; rasters travel as embedded PNG.
package project

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/scene"
)

// Version is the document format version. Loading fails closed on any
// other value rather than guessing at a partial decode.
const Version = 1

// Extension is the conventional project file extension.
const Extension = ".snapmark"

type document struct {
	Version int      `cbor:"1,keyasint"`
	Tabs    []tabRec `cbor:"2,keyasint"`
	Current int      `cbor:"3,keyasint,omitempty"`
}

type tabRec struct {
	ID        string     `cbor:"1,keyasint"`
	Name      string     `cbor:"2,keyasint,omitempty"`
	Image     []byte     `cbor:"3,keyasint"`
	Thumb     []byte     `cbor:"4,keyasint,omitempty"`
	Steps     []stepRec  `cbor:"5,keyasint,omitempty"`
	Shapes    []shapeRec `cbor:"6,keyasint,omitempty"`
	Texts     []textRec  `cbor:"7,keyasint,omitempty"`
	DrawOrder []string   `cbor:"8,keyasint,omitempty"`
	NextStep  int        `cbor:"9,keyasint"`
}

type stepRec struct {
	ID    string   `cbor:"1,keyasint"`
	X     int      `cbor:"2,keyasint"`
	Y     int      `cbor:"3,keyasint"`
	Label string   `cbor:"4,keyasint"`
	Style int      `cbor:"5,keyasint,omitempty"`
	Color colorRec `cbor:"6,keyasint"`
	Size  int      `cbor:"7,keyasint"`
}

type shapeRec struct {
	ID           string   `cbor:"1,keyasint"`
	Kind         int      `cbor:"2,keyasint"`
	X1           int      `cbor:"3,keyasint"`
	Y1           int      `cbor:"4,keyasint"`
	X2           int      `cbor:"5,keyasint"`
	Y2           int      `cbor:"6,keyasint"`
	Color        colorRec `cbor:"7,keyasint"`
	StrokeWidth  int      `cbor:"8,keyasint,omitempty"`
	Filled       bool     `cbor:"9,keyasint,omitempty"`
	RectMode     int      `cbor:"10,keyasint,omitempty"`
	Chevron      bool     `cbor:"11,keyasint,omitempty"`
	BlurStrength int      `cbor:"12,keyasint,omitempty"`
}

type textRec struct {
	ID       string   `cbor:"1,keyasint"`
	X        int      `cbor:"2,keyasint"`
	Y        int      `cbor:"3,keyasint"`
	Lines    []string `cbor:"4,keyasint"`
	FontSize int      `cbor:"5,keyasint"`
	Color    colorRec `cbor:"6,keyasint"`
	W        int      `cbor:"7,keyasint,omitempty"`
	H        int      `cbor:"8,keyasint,omitempty"`
}

type colorRec struct {
	R uint8 `cbor:"1,keyasint"`
	G uint8 `cbor:"2,keyasint"`
	B uint8 `cbor:"3,keyasint"`
	A uint8 `cbor:"4,keyasint"`
}

func toColorRec(c color.RGBA) colorRec { return colorRec{c.R, c.G, c.B, c.A} }
func (r colorRec) rgba() color.RGBA    { return color.RGBA{r.R, r.G, r.B, r.A} }

// Save writes every tab and the current tab index to w.
func Save(w io.Writer, tabs []*editor.Tab, current int) error {
	doc := document{Version: Version, Current: current}
	for _, t := range tabs {
		rec, err := encodeTab(t)
		if err != nil {
			return fmt.Errorf("tab %q: %w", t.Name, err)
		}
		doc.Tabs = append(doc.Tabs, rec)
	}
	data, err := cbor.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// SaveFile writes the project to path, creating or truncating it.
func SaveFile(path string, tabs []*editor.Tab, current int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, tabs, current); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a project document. Nothing is returned on any error:
// either the whole session decodes and validates, or the load fails
// without partial state.
func Load(r io.Reader) ([]*editor.Tab, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	var doc document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode project: %w", err)
	}
	if doc.Version != Version {
		return nil, 0, fmt.Errorf("unsupported project version %d (want %d)", doc.Version, Version)
	}
	tabs := make([]*editor.Tab, 0, len(doc.Tabs))
	for i, rec := range doc.Tabs {
		t, err := decodeTab(rec)
		if err != nil {
			return nil, 0, fmt.Errorf("tab %d: %w", i, err)
		}
		tabs = append(tabs, t)
	}
	current := doc.Current
	if current < 0 || current >= len(tabs) {
		current = 0
	}
	return tabs, current, nil
}

// LoadFile reads a project from path.
func LoadFile(path string) ([]*editor.Tab, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return Load(f)
}

func encodeTab(t *editor.Tab) (tabRec, error) {
	img, err := encodePNG(t.Image)
	if err != nil {
		return tabRec{}, fmt.Errorf("encode image: %w", err)
	}
	thumb, err := encodePNG(t.Thumb)
	if err != nil {
		return tabRec{}, fmt.Errorf("encode thumbnail: %w", err)
	}
	rec := tabRec{
		ID:        t.ID,
		Name:      t.Name,
		Image:     img,
		Thumb:     thumb,
		DrawOrder: t.Scene.DrawOrder,
		NextStep:  t.Scene.NextStep,
	}
	for _, st := range t.Scene.Steps {
		rec.Steps = append(rec.Steps, stepRec{
			ID: st.ID, X: st.Pos.X, Y: st.Pos.Y,
			Label: st.Label, Style: int(st.Style),
			Color: toColorRec(st.Color), Size: st.Size,
		})
	}
	for _, sh := range t.Scene.Shapes {
		rec.Shapes = append(rec.Shapes, shapeRec{
			ID: sh.ID, Kind: int(sh.Kind),
			X1: sh.P1.X, Y1: sh.P1.Y, X2: sh.P2.X, Y2: sh.P2.Y,
			Color: toColorRec(sh.Color), StrokeWidth: sh.StrokeWidth,
			Filled: sh.Filled, RectMode: int(sh.RectMode),
			Chevron: sh.Chevron, BlurStrength: sh.BlurStrength,
		})
	}
	for _, tx := range t.Scene.Texts {
		rec.Texts = append(rec.Texts, textRec{
			ID: tx.ID, X: tx.Pos.X, Y: tx.Pos.Y,
			Lines: tx.Lines, FontSize: tx.FontSize,
			Color: toColorRec(tx.Color), W: tx.W, H: tx.H,
		})
	}
	return rec, nil
}

func decodeTab(rec tabRec) (*editor.Tab, error) {
	img, err := decodePNG(rec.Image)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	thumb, err := decodePNG(rec.Thumb)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail: %w", err)
	}
	sc := scene.New()
	sc.NextStep = rec.NextStep
	if sc.NextStep < 1 {
		sc.NextStep = 1
	}
	for _, r := range rec.Steps {
		sc.Steps = append(sc.Steps, annotation.StepIndicator{
			ID: r.ID, Pos: image.Pt(r.X, r.Y),
			Label: r.Label, Style: annotation.StepStyle(r.Style),
			Color: r.Color.rgba(), Size: r.Size,
		})
	}
	for _, r := range rec.Shapes {
		sc.Shapes = append(sc.Shapes, annotation.Shape{
			ID: r.ID, Kind: annotation.Kind(r.Kind),
			P1: image.Pt(r.X1, r.Y1), P2: image.Pt(r.X2, r.Y2),
			Color: r.Color.rgba(), StrokeWidth: r.StrokeWidth,
			Filled: r.Filled, RectMode: annotation.RectMode(r.RectMode),
			Chevron: r.Chevron, BlurStrength: r.BlurStrength,
		})
	}
	for _, r := range rec.Texts {
		sc.Texts = append(sc.Texts, annotation.Text{
			ID: r.ID, Pos: image.Pt(r.X, r.Y),
			Lines: r.Lines, FontSize: r.FontSize,
			Color: r.Color.rgba(), W: r.W, H: r.H,
		})
	}
	sc.DrawOrder = rec.DrawOrder
	if err := sc.Validate(); err != nil {
		// Documents from older builds may miss the explicit order;
		// rebuild it instead of refusing the whole file.
		sc.ReconstructDrawOrder()
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("inconsistent scene: %w", err)
		}
	}
	id := rec.ID
	if id == "" {
		id = annotation.NewID()
	}
	return &editor.Tab{
		ID:    id,
		Name:  rec.Name,
		Image: img,
		Thumb: thumb,
		Scene: sc,
		Zoom:  1,
	}, nil
}

func encodePNG(img *image.RGBA) ([]byte, error) {
	if img == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodePNG(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, nil
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(img.Bounds())
	for y := out.Bounds().Min.Y; y < out.Bounds().Max.Y; y++ {
		for x := out.Bounds().Min.X; x < out.Bounds().Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out, nil
}
