//go:build ocr

package detect

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Detector wraps a Tesseract client. Close it when done to release
// the native resources.
type Detector struct {
	client *gosseract.Client
}

// Enabled reports whether text detection was compiled in.
func Enabled() bool { return true }

// NewDetector returns a Detector backed by Tesseract. Requires the
// tesseract-ocr libraries installed on the system.
func NewDetector() (*Detector, error) {
	return &Detector{client: gosseract.NewClient()}, nil
}

// Close releases the Tesseract client.
func (d *Detector) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

// SetLanguage selects recognition languages, "+" separated ("eng+fra").
func (d *Detector) SetLanguage(lang string) error {
	return d.client.SetLanguage(lang)
}

// Detect runs Tesseract over img and returns one Region per detected
// text line, each with a fill tone suggested from the surrounding
// pixel brightness.
func (d *Detector) Detect(img *image.RGBA) ([]Region, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	if err := d.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := d.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("detect text: %w", err)
	}
	regions := make([]Region, 0, len(boxes))
	for _, b := range boxes {
		if b.Box.Empty() {
			continue
		}
		regions = append(regions, Region{
			Rect:  b.Box,
			Light: averageLuma(img, b.Box) >= 128,
		})
	}
	return regions, nil
}
