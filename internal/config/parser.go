package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// Parse reads configuration from an io.Reader. Unknown keys and
// sections are ignored so older files keep loading.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "frame":
			err = setFrameField(&cfg.Frame, key, value)
		case "beautify":
			err = setBeautifyField(&cfg.Beautify, key, value)
		case "watermark":
			err = setWatermarkField(&cfg.Watermark, key, value)
		case "defaults":
			err = setDefaultsField(&cfg.Defaults, key, value)
		case "export":
			err = setExportField(&cfg.Export, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}
	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	if key != "palette" {
		return nil
	}
	var pal []color.RGBA
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		col, err := parseColor(part)
		if err != nil {
			return fmt.Errorf("invalid palette color %q: %w", part, err)
		}
		pal = append(pal, col)
	}
	if len(pal) > 0 {
		cfg.Palette = pal
	}
	return nil
}

func setFrameField(f *Frame, key, value string) error {
	switch key {
	case "enabled":
		return parseBoolInto(&f.Enabled, key, value)
	case "width":
		return parseIntInto(&f.Width, key, value)
	case "height":
		return parseIntInto(&f.Height, key, value)
	case "color":
		return parseColorInto(&f.Color, key, value)
	}
	return nil
}

func setBeautifyField(b *Beautify, key, value string) error {
	switch key {
	case "enabled":
		return parseBoolInto(&b.Enabled, key, value)
	case "padding":
		return parseIntInto(&b.Padding, key, value)
	case "corner_radius":
		return parseIntInto(&b.CornerRadius, key, value)
	case "outer_radius":
		return parseIntInto(&b.OuterRadius, key, value)
	case "shadow_radius":
		return parseIntInto(&b.ShadowRadius, key, value)
	case "shadow_offset_x":
		return parseIntInto(&b.ShadowOffsetX, key, value)
	case "shadow_offset_y":
		return parseIntInto(&b.ShadowOffsetY, key, value)
	case "shadow_opacity":
		return parseFloatInto(&b.ShadowOpacity, key, value)
	case "background":
		if value != "solid" && value != "gradient" {
			return fmt.Errorf("invalid background type %q", value)
		}
		b.Background = value
	case "color":
		return parseColorInto(&b.Color, key, value)
	case "gradient_from":
		return parseColorInto(&b.GradientFrom, key, value)
	case "gradient_to":
		return parseColorInto(&b.GradientTo, key, value)
	case "gradient_angle":
		return parseFloatInto(&b.GradientAngle, key, value)
	}
	return nil
}

func setWatermarkField(w *Watermark, key, value string) error {
	switch key {
	case "enabled":
		return parseBoolInto(&w.Enabled, key, value)
	case "path":
		w.Path = value
	case "width":
		return parseIntInto(&w.Width, key, value)
	case "opacity":
		return parseFloatInto(&w.Opacity, key, value)
	}
	return nil
}

func setDefaultsField(d *Defaults, key, value string) error {
	switch key {
	case "step_size":
		return parseIntInto(&d.StepSize, key, value)
	case "step_style":
		d.StepStyle = value
	case "shape_color":
		return parseColorInto(&d.ShapeColor, key, value)
	case "stroke_width":
		return parseIntInto(&d.StrokeWidth, key, value)
	case "shape_filled":
		return parseBoolInto(&d.ShapeFilled, key, value)
	case "arrow_chevron":
		return parseBoolInto(&d.ArrowChevron, key, value)
	case "blur_strength":
		return parseIntInto(&d.BlurStrength, key, value)
	case "text_font_size":
		return parseIntInto(&d.TextFontSize, key, value)
	}
	return nil
}

func setExportField(e *Export, key, value string) error {
	switch key {
	case "format":
		format := strings.ToLower(value)
		if format != "png" && format != "jpeg" && format != "jpg" {
			return fmt.Errorf("invalid export format %q", value)
		}
		if format == "jpg" {
			format = "jpeg"
		}
		e.Format = format
	case "quality":
		return parseIntInto(&e.Quality, key, value)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch key {
	case "export":
		return parseBoolInto(&n.Export, key, value)
	case "save":
		return parseBoolInto(&n.Save, key, value)
	case "copy":
		return parseBoolInto(&n.Copy, key, value)
	}
	return nil
}

func parseBoolInto(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func parseIntInto(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	*dst = n
	return nil
}

func parseFloatInto(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	*dst = f
	return nil
}

func parseColorInto(dst *color.RGBA, key, value string) error {
	col, err := parseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	*dst = col
	return nil
}

// parseColor parses a #RRGGBB or #RRGGBBAA hex color string.
func parseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
