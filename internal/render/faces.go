package render

import (
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font

	facesMu sync.Mutex
	faces   = map[int]font.Face{}
)

func regular() *opentype.Font {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Fatalf("parse font: %v", err)
		}
		parsedFont = f
	})
	return parsedFont
}

// Face returns a cached font face for the given pixel size.
func Face(size int) font.Face {
	if size < 4 {
		size = 4
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(regular(), &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
	faces[size] = f
	return f
}

// LineHeight returns the baseline-to-baseline distance for a face size.
func LineHeight(size int) int {
	m := Face(size).Metrics()
	return m.Ascent.Ceil() + m.Descent.Ceil()
}

// MeasureLines measures a multi-line text block at the given font size.
// The result feeds the cached width/height on text annotations.
func MeasureLines(lines []string, size int) (w, h int) {
	face := Face(size)
	d := &font.Drawer{Face: face}
	for _, line := range lines {
		if lw := d.MeasureString(line).Ceil(); lw > w {
			w = lw
		}
	}
	h = len(lines) * LineHeight(size)
	return w, h
}
