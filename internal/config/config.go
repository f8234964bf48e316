// Package config holds the editor settings. Settings are read from an
// rc-format file (key = value lines grouped by [section] headers) and
// are consumed as inputs to the export compositor and the tool
// defaults; the editor core never writes them back.
package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Config is the full recognised option set.
type Config struct {
	Frame     Frame
	Beautify  Beautify
	Watermark Watermark
	Defaults  Defaults
	Export    Export
	Notify    Notify

	// Palette is the brand color palette offered by the tool UI.
	Palette []color.RGBA
}

// Frame configures the optional fixed-size export canvas.
type Frame struct {
	Enabled bool
	Width   int
	Height  int
	Color   color.RGBA
}

// Beautify configures the decorative export backdrop.
type Beautify struct {
	Enabled       bool
	Padding       int
	CornerRadius  int
	OuterRadius   int
	ShadowRadius  int
	ShadowOffsetX int
	ShadowOffsetY int
	ShadowOpacity float64
	// Background is "solid" or "gradient".
	Background    string
	Color         color.RGBA
	GradientFrom  color.RGBA
	GradientTo    color.RGBA
	GradientAngle float64
}

// Watermark configures the corner watermark stamped on exports.
type Watermark struct {
	Enabled bool
	Path    string
	Width   int
	Opacity float64
}

// Defaults supplies the initial values for annotation tools.
type Defaults struct {
	StepSize     int
	StepStyle    string
	ShapeColor   color.RGBA
	StrokeWidth  int
	ShapeFilled  bool
	ArrowChevron bool
	BlurStrength int
	TextFontSize int
}

// Export configures the output encoding.
type Export struct {
	// Format is "png" or "jpeg".
	Format  string
	Quality int
}

// Notify toggles desktop notifications per event.
type Notify struct {
	Export bool
	Save   bool
	Copy   bool
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Frame: Frame{
			Width:  1280,
			Height: 800,
			Color:  color.RGBA{245, 245, 245, 255},
		},
		Beautify: Beautify{
			Padding:       48,
			CornerRadius:  12,
			ShadowRadius:  24,
			ShadowOffsetY: 12,
			ShadowOpacity: 0.45,
			Background:    "gradient",
			Color:         color.RGBA{236, 240, 244, 255},
			GradientFrom:  color.RGBA{86, 111, 207, 255},
			GradientTo:    color.RGBA{176, 88, 196, 255},
			GradientAngle: 45,
		},
		Watermark: Watermark{
			Width:   120,
			Opacity: 0.6,
		},
		Defaults: Defaults{
			StepSize:     14,
			StepStyle:    "decimal",
			ShapeColor:   color.RGBA{226, 54, 54, 255},
			StrokeWidth:  3,
			BlurStrength: 10,
			TextFontSize: 18,
		},
		Export: Export{
			Format:  "png",
			Quality: 92,
		},
		Notify: Notify{
			Export: true,
			Save:   true,
			Copy:   true,
		},
		Palette: []color.RGBA{
			{226, 54, 54, 255},
			{241, 159, 34, 255},
			{44, 160, 90, 255},
			{41, 112, 219, 255},
			{136, 78, 199, 255},
			{0, 0, 0, 255},
			{255, 255, 255, 255},
		},
	}
}

// String renders the configuration in rc format. Parse(String()) round
// trips.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "palette = %s\n\n", joinColors(c.Palette))

	sb.WriteString("[frame]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", c.Frame.Enabled)
	fmt.Fprintf(&sb, "width = %d\n", c.Frame.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Frame.Height)
	fmt.Fprintf(&sb, "color = %s\n\n", toHex(c.Frame.Color))

	sb.WriteString("[beautify]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", c.Beautify.Enabled)
	fmt.Fprintf(&sb, "padding = %d\n", c.Beautify.Padding)
	fmt.Fprintf(&sb, "corner_radius = %d\n", c.Beautify.CornerRadius)
	fmt.Fprintf(&sb, "outer_radius = %d\n", c.Beautify.OuterRadius)
	fmt.Fprintf(&sb, "shadow_radius = %d\n", c.Beautify.ShadowRadius)
	fmt.Fprintf(&sb, "shadow_offset_x = %d\n", c.Beautify.ShadowOffsetX)
	fmt.Fprintf(&sb, "shadow_offset_y = %d\n", c.Beautify.ShadowOffsetY)
	fmt.Fprintf(&sb, "shadow_opacity = %g\n", c.Beautify.ShadowOpacity)
	fmt.Fprintf(&sb, "background = %s\n", c.Beautify.Background)
	fmt.Fprintf(&sb, "color = %s\n", toHex(c.Beautify.Color))
	fmt.Fprintf(&sb, "gradient_from = %s\n", toHex(c.Beautify.GradientFrom))
	fmt.Fprintf(&sb, "gradient_to = %s\n", toHex(c.Beautify.GradientTo))
	fmt.Fprintf(&sb, "gradient_angle = %g\n\n", c.Beautify.GradientAngle)

	sb.WriteString("[watermark]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", c.Watermark.Enabled)
	fmt.Fprintf(&sb, "path = %s\n", c.Watermark.Path)
	fmt.Fprintf(&sb, "width = %d\n", c.Watermark.Width)
	fmt.Fprintf(&sb, "opacity = %g\n\n", c.Watermark.Opacity)

	sb.WriteString("[defaults]\n")
	fmt.Fprintf(&sb, "step_size = %d\n", c.Defaults.StepSize)
	fmt.Fprintf(&sb, "step_style = %s\n", c.Defaults.StepStyle)
	fmt.Fprintf(&sb, "shape_color = %s\n", toHex(c.Defaults.ShapeColor))
	fmt.Fprintf(&sb, "stroke_width = %d\n", c.Defaults.StrokeWidth)
	fmt.Fprintf(&sb, "shape_filled = %v\n", c.Defaults.ShapeFilled)
	fmt.Fprintf(&sb, "arrow_chevron = %v\n", c.Defaults.ArrowChevron)
	fmt.Fprintf(&sb, "blur_strength = %d\n", c.Defaults.BlurStrength)
	fmt.Fprintf(&sb, "text_font_size = %d\n\n", c.Defaults.TextFontSize)

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "format = %s\n", c.Export.Format)
	fmt.Fprintf(&sb, "quality = %d\n\n", c.Export.Quality)

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	return sb.String()
}

func joinColors(cols []color.RGBA) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = toHex(c)
	}
	return strings.Join(parts, ", ")
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
