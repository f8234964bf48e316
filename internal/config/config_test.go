package config

import (
	"image/color"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
palette = #FF0000, #00FF00

[frame]
enabled = true
width = 1920
height = 1080
color = #202020

[beautify]
enabled = true
padding = 32
background = solid
color = #334455
shadow_opacity = 0.3

[watermark]
enabled = true
path = /tmp/logo.png
width = 96
opacity = 0.5

[defaults]
step_size = 18
step_style = roman
shape_color = #00AA00
stroke_width = 5
arrow_chevron = true
blur_strength = 16
text_font_size = 22

[export]
format = jpg
quality = 80
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !cfg.Frame.Enabled || cfg.Frame.Width != 1920 || cfg.Frame.Height != 1080 {
		t.Errorf("frame = %+v", cfg.Frame)
	}
	if cfg.Frame.Color != (color.RGBA{0x20, 0x20, 0x20, 255}) {
		t.Errorf("frame color = %+v", cfg.Frame.Color)
	}
	if !cfg.Beautify.Enabled || cfg.Beautify.Padding != 32 {
		t.Errorf("beautify = %+v", cfg.Beautify)
	}
	if cfg.Beautify.Background != "solid" {
		t.Errorf("background = %q", cfg.Beautify.Background)
	}
	if cfg.Beautify.ShadowOpacity != 0.3 {
		t.Errorf("shadow opacity = %v", cfg.Beautify.ShadowOpacity)
	}
	if cfg.Watermark.Path != "/tmp/logo.png" || cfg.Watermark.Width != 96 {
		t.Errorf("watermark = %+v", cfg.Watermark)
	}
	if cfg.Defaults.StepStyle != "roman" || cfg.Defaults.StepSize != 18 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if !cfg.Defaults.ArrowChevron || cfg.Defaults.BlurStrength != 16 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Export.Format != "jpeg" || cfg.Export.Quality != 80 {
		t.Errorf("export = %+v", cfg.Export)
	}
	if len(cfg.Palette) != 2 || cfg.Palette[0] != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("palette = %+v", cfg.Palette)
	}
}

func TestParseDefaultsWhenEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	def := New()
	if cfg.Defaults != def.Defaults {
		t.Errorf("defaults changed: %+v vs %+v", cfg.Defaults, def.Defaults)
	}
	if cfg.Export != def.Export {
		t.Errorf("export changed: %+v vs %+v", cfg.Export, def.Export)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []string{
		"[frame]\nwidth = wide\n",
		"[beautify]\nbackground = plaid\n",
		"[beautify]\ngradient_from = 123456\n",
		"[export]\nformat = bmp\n",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	orig := New()
	orig.Frame.Enabled = true
	orig.Beautify.Enabled = true
	orig.Beautify.Background = "solid"
	orig.Watermark.Path = "/opt/brand.png"
	orig.Defaults.ArrowChevron = true
	orig.Palette = []color.RGBA{{1, 2, 3, 255}, {4, 5, 6, 128}}

	parsed, err := Parse(strings.NewReader(orig.String()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.String() != orig.String() {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", parsed.String(), orig.String())
	}
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	input := "mystery = 42\n[frame]\nunknown_key = yes\nwidth = 640\n[future]\nthing = 1\n"
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Frame.Width != 640 {
		t.Errorf("width = %d, want 640", cfg.Frame.Width)
	}
}
