package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/view"
)

type captureCmd struct {
	r      *root
	fs     *flag.FlagSet
	output string
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	sub := r.subcommand("capture")
	c := &captureCmd{r: sub, fs: flag.NewFlagSet("capture", flag.ExitOnError)}
	c.fs.StringVar(&c.output, "output", "", "write the capture straight to a file instead of opening the editor")
	c.fs.Usage = func() {
		fmt.Fprint(os.Stderr, subUsage(sub.program, c.fs, ""))
	}
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *captureCmd) Run() error {
	img, err := capture.Screen()
	if err != nil {
		return fmt.Errorf("capture screen: %w", err)
	}

	if c.output != "" {
		enc := render.EncodeOptions{Format: c.r.config.Export.Format, Quality: c.r.config.Export.Quality}
		if err := render.WriteFile(c.output, img, enc); err != nil {
			return fmt.Errorf("write %s: %w", c.output, err)
		}
		if c.r.notifier != nil {
			c.r.notifier.Export(c.output, render.Thumbnail(img, 256))
		}
		return nil
	}

	ctrl := editor.New(editor.WithDefaults(c.r.config.Defaults))
	ctrl.NewTab(img, "capture")
	view.Run(ctrl, view.Options{
		Config:   c.r.config,
		Notifier: c.r.notifier,
	})
	return nil
}
