// Package annotation defines the annotation data model and the pure
// geometry used for hit-testing. All coordinates are in image space so
// they are independent of the live view's zoom level.
package annotation

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/google/uuid"
)

// Kind discriminates the structural shape variants.
type Kind int

const (
	KindRect Kind = iota
	KindArrow
	KindBlur
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindArrow:
		return "arrow"
	case KindBlur:
		return "blur"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RectMode selects how a rectangle shape is filled.
type RectMode int

const (
	RectNormal RectMode = iota
	RectBlackout
	RectWhiteout
)

// StepStyle selects how a step indicator label is formatted.
type StepStyle int

const (
	StepDecimal StepStyle = iota // "1."
	StepPlain                    // "1"
	StepParen                    // "1)"
	StepRoman                    // "I"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// FormatStepLabel renders the running counter n in the given style.
func FormatStepLabel(n int, style StepStyle) string {
	if n < 1 {
		n = 1
	}
	switch style {
	case StepPlain:
		return fmt.Sprintf("%d", n)
	case StepParen:
		return fmt.Sprintf("%d)", n)
	case StepRoman:
		var sb strings.Builder
		for _, r := range romanNumerals {
			for n >= r.value {
				sb.WriteString(r.symbol)
				n -= r.value
			}
		}
		return sb.String()
	default:
		return fmt.Sprintf("%d.", n)
	}
}

// NewID returns a fresh annotation identifier.
func NewID() string { return uuid.NewString() }

// StepIndicator is a numbered circular marker.
type StepIndicator struct {
	ID    string
	Pos   image.Point
	Label string
	Style StepStyle
	Color color.RGBA
	// Size is the circle radius in image pixels.
	Size int
}

// Shape covers the rect, arrow and blur variants. P1 and P2 are the two
// gesture corner points; they are not normalised, so Bounds must be used
// when an axis-aligned box is needed.
type Shape struct {
	ID          string
	Kind        Kind
	P1, P2      image.Point
	Color       color.RGBA
	StrokeWidth int
	Filled      bool
	RectMode    RectMode
	Chevron     bool
	// BlurStrength is the pixelation divisor for KindBlur.
	BlurStrength int
}

// Bounds returns the normalised axis-aligned box spanned by P1 and P2.
func (s Shape) Bounds() image.Rectangle {
	return image.Rect(s.P1.X, s.P1.Y, s.P2.X, s.P2.Y).Canon()
}

// Text is a multi-line text annotation anchored at Pos (top-left).
// W and H are cached from font measurement whenever the text or font
// size changes; hit-testing and rendering consume the cached values.
type Text struct {
	ID       string
	Pos      image.Point
	Lines    []string
	FontSize int
	Color    color.RGBA
	W, H     int
}

// Bounds returns the cached bounding box of the text block.
func (t Text) Bounds() image.Rectangle {
	return image.Rect(t.Pos.X, t.Pos.Y, t.Pos.X+t.W, t.Pos.Y+t.H)
}

// String joins the text lines with newlines.
func (t Text) String() string { return strings.Join(t.Lines, "\n") }
