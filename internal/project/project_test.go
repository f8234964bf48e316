package project

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/editor"
)

func sampleTabs(t *testing.T) []*editor.Tab {
	t.Helper()
	c := editor.New()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	// Opaque alpha so the PNG round trip is byte exact.
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	tab := c.NewTab(img, "document")

	tab.Scene.AddShape(annotation.Shape{
		ID: annotation.NewID(), Kind: annotation.KindBlur,
		P1: image.Pt(2, 2), P2: image.Pt(30, 20), BlurStrength: 8,
	})
	tab.Scene.AddStep(annotation.StepIndicator{
		ID: annotation.NewID(), Pos: image.Pt(10, 10),
		Label: "1.", Color: color.RGBA{226, 54, 54, 255}, Size: 14,
	})
	tab.Scene.AddText(annotation.Text{
		ID: annotation.NewID(), Pos: image.Pt(5, 30),
		Lines: []string{"first", "second"}, FontSize: 18,
		Color: color.RGBA{20, 20, 20, 255}, W: 60, H: 40,
	})
	return c.Tabs()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tabs := sampleTabs(t)

	var buf bytes.Buffer
	if err := Save(&buf, tabs, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, current, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if current != 0 || len(got) != 1 {
		t.Fatalf("loaded %d tabs, current %d", len(got), current)
	}

	want := tabs[0]
	tab := got[0]
	if tab.ID != want.ID || tab.Name != "document" {
		t.Fatalf("identity lost: %q %q", tab.ID, tab.Name)
	}
	if !bytes.Equal(tab.Image.Pix, want.Image.Pix) {
		t.Fatal("raster changed through the round trip")
	}
	if len(tab.Scene.Shapes) != 1 || len(tab.Scene.Steps) != 1 || len(tab.Scene.Texts) != 1 {
		t.Fatal("annotations lost")
	}
	if tab.Scene.Texts[0].String() != "first\nsecond" {
		t.Fatalf("text lines = %q", tab.Scene.Texts[0].String())
	}
	if tab.Scene.NextStep != want.Scene.NextStep {
		t.Fatalf("step counter = %d, want %d", tab.Scene.NextStep, want.Scene.NextStep)
	}
	if len(tab.Scene.DrawOrder) != 3 {
		t.Fatalf("draw order = %v", tab.Scene.DrawOrder)
	}
	for i, id := range want.Scene.DrawOrder {
		if tab.Scene.DrawOrder[i] != id {
			t.Fatalf("draw order changed at %d", i)
		}
	}
	if err := tab.Scene.Validate(); err != nil {
		t.Fatalf("loaded scene invalid: %v", err)
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	tabs := sampleTabs(t)
	var buf bytes.Buffer
	if err := Save(&buf, tabs, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var doc document
	if err := cbor.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	doc.Version = Version + 1
	data, err := cbor.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if _, _, err := Load(bytes.NewReader(data)); err == nil {
		t.Fatal("future version accepted")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, _, err := Load(bytes.NewReader([]byte("not a project"))); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestLoadRebuildsMissingDrawOrder(t *testing.T) {
	tabs := sampleTabs(t)
	var buf bytes.Buffer
	if err := Save(&buf, tabs, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var doc document
	if err := cbor.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	doc.Tabs[0].DrawOrder = nil
	data, err := cbor.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, _, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sc := got[0].Scene
	if err := sc.Validate(); err != nil {
		t.Fatalf("rebuilt scene invalid: %v", err)
	}
	// Blur shapes sink below everything else when the order is
	// reconstructed.
	if sc.DrawOrder[0] != sc.Shapes[0].ID {
		t.Fatalf("blur not at the back: %v", sc.DrawOrder)
	}
}

func TestSaveLoadFile(t *testing.T) {
	tabs := sampleTabs(t)
	path := t.TempDir() + "/session" + Extension
	if err := SaveFile(path, tabs, 0); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, _, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d tabs", len(got))
	}
}
