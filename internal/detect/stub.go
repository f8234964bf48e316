//go:build !ocr

package detect

import (
	"errors"
	"image"
)

// ErrNotEnabled is returned when detection is requested but support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("text detection not enabled; rebuild with -tags ocr")

// Detector is the stub used when the ocr build tag is not set.
type Detector struct{}

// Enabled reports whether text detection was compiled in.
func Enabled() bool { return false }

// NewDetector always fails in stub builds.
func NewDetector() (*Detector, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op on the stub.
func (d *Detector) Close() error { return nil }

// SetLanguage always fails in stub builds.
func (d *Detector) SetLanguage(string) error { return ErrNotEnabled }

// Detect always fails in stub builds.
func (d *Detector) Detect(*image.RGBA) ([]Region, error) {
	return nil, ErrNotEnabled
}
