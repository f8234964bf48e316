package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/example/snapmark/internal/config"
)

// EncodeOptions selects the on-disk encoding for exports.
type EncodeOptions struct {
	// Format is "png" or "jpeg".
	Format  string
	Quality int
}

// CompositorOptions maps the settings store onto compositor options,
// loading the watermark image when one is configured. A watermark that
// fails to load is logged and skipped rather than failing the export.
func CompositorOptions(cfg *config.Config) Options {
	opts := Options{
		FrameEnabled: cfg.Frame.Enabled,
		FrameWidth:   cfg.Frame.Width,
		FrameHeight:  cfg.Frame.Height,
		FrameColor:   cfg.Frame.Color,

		Beautify:        cfg.Beautify.Enabled,
		Padding:         cfg.Beautify.Padding,
		CornerRadius:    cfg.Beautify.CornerRadius,
		OuterRadius:     cfg.Beautify.OuterRadius,
		ShadowRadius:    cfg.Beautify.ShadowRadius,
		ShadowOffset:    image.Pt(cfg.Beautify.ShadowOffsetX, cfg.Beautify.ShadowOffsetY),
		ShadowOpacity:   cfg.Beautify.ShadowOpacity,
		BackgroundColor: cfg.Beautify.Color,
		GradientFrom:    cfg.Beautify.GradientFrom,
		GradientTo:      cfg.Beautify.GradientTo,
		GradientAngle:   cfg.Beautify.GradientAngle,
	}
	if cfg.Beautify.Background == "gradient" {
		opts.Background = BackgroundGradient
	}
	if cfg.Watermark.Enabled && cfg.Watermark.Path != "" {
		img, err := loadImageFile(cfg.Watermark.Path)
		if err != nil {
			log.Printf("watermark %s: %v", cfg.Watermark.Path, err)
		} else {
			opts.Watermark = img
			opts.WatermarkWidth = cfg.Watermark.Width
			opts.WatermarkOpacity = cfg.Watermark.Opacity
		}
	}
	return opts
}

// Encode writes img to w in the selected format.
func Encode(w *os.File, img image.Image, opts EncodeOptions) error {
	switch strings.ToLower(opts.Format) {
	case "", "png":
		return png.Encode(w, img)
	case "jpeg", "jpg":
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = 92
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("unsupported export format %q", opts.Format)
	}
}

// WriteFile encodes img to path, creating or truncating the file.
func WriteFile(path string, img image.Image, opts EncodeOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
