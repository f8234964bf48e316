package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/example/snapmark/internal/project"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/scene"
)

type renderCmd struct {
	r      *root
	fs     *flag.FlagSet
	input  string
	output string
	tab    int
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	sub := r.subcommand("render")
	c := &renderCmd{r: sub, fs: flag.NewFlagSet("render", flag.ExitOnError)}
	c.fs.StringVar(&c.output, "output", "", "output file (required)")
	c.fs.IntVar(&c.tab, "tab", 0, "tab index to render when the input is a project")
	c.fs.Usage = func() {
		fmt.Fprint(os.Stderr, subUsage(sub.program, c.fs, "<image-or-project>"))
	}
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 || c.output == "" {
		return nil, &UsageError{usage: subUsage(sub.program, c.fs, "<image-or-project>")}
	}
	c.input = c.fs.Arg(0)
	return c, nil
}

// Run composites one tab through the same pipeline the interactive
// export uses, so offline renders are pixel identical to ctrl+e.
func (c *renderCmd) Run() error {
	cfg := c.r.config
	opts := render.CompositorOptions(cfg)

	if strings.HasSuffix(c.input, project.Extension) {
		tabs, _, err := project.LoadFile(c.input)
		if err != nil {
			return fmt.Errorf("open project: %w", err)
		}
		if c.tab < 0 || c.tab >= len(tabs) {
			return fmt.Errorf("tab %d out of range (project has %d)", c.tab, len(tabs))
		}
		t := tabs[c.tab]
		out := render.Composite(t.Image, t.Scene, opts)
		return c.write(out)
	}

	img, err := loadRGBA(c.input)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.input, err)
	}
	out := render.Composite(img, scene.New(), opts)
	return c.write(out)
}

func (c *renderCmd) write(out *image.RGBA) error {
	enc := render.EncodeOptions{Format: c.r.config.Export.Format, Quality: c.r.config.Export.Quality}
	if err := render.WriteFile(c.output, out, enc); err != nil {
		return fmt.Errorf("write %s: %w", c.output, err)
	}
	if c.r.notifier != nil {
		c.r.notifier.Export(c.output, render.Thumbnail(out, 256))
	}
	return nil
}
