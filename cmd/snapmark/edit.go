package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/project"
	"github.com/example/snapmark/internal/view"
)

type editCmd struct {
	r       *root
	fs      *flag.FlagSet
	project string
	output  string
	inputs  []string
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	sub := r.subcommand("edit")
	c := &editCmd{r: sub, fs: flag.NewFlagSet("edit", flag.ExitOnError)}
	c.fs.StringVar(&c.project, "project", "", "project file to open and save with ctrl+s")
	c.fs.StringVar(&c.output, "output", "", "export path used by ctrl+e")
	c.fs.Usage = func() {
		fmt.Fprint(os.Stderr, subUsage(sub.program, c.fs, "[image...]"))
	}
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	c.inputs = c.fs.Args()
	if len(c.inputs) == 0 && c.project == "" {
		return nil, &UsageError{usage: subUsage(sub.program, c.fs, "[image...]")}
	}
	return c, nil
}

// runView is swapped out by tests that exercise Run without a display.
var runView = view.Run

func (c *editCmd) Run() error {
	ctrl := editor.New(editor.WithDefaults(c.r.config.Defaults))

	restored := -1
	if c.project != "" {
		if _, err := os.Stat(c.project); err == nil {
			tabs, current, err := project.LoadFile(c.project)
			if err != nil {
				return fmt.Errorf("open project: %w", err)
			}
			for _, t := range tabs {
				opened := ctrl.NewTab(t.Image, t.Name)
				opened.ID = t.ID
				opened.Scene = t.Scene
				if t.Thumb != nil {
					opened.Thumb = t.Thumb
				}
			}
			restored = current
		}
	}
	for _, path := range c.inputs {
		img, err := loadRGBA(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		ctrl.NewTab(img, tabName(path))
	}
	if len(ctrl.Tabs()) == 0 {
		return fmt.Errorf("nothing to edit: project %s does not exist", c.project)
	}
	if restored >= 0 {
		// The project remembers which tab was current.
		ctrl.SelectTab(restored)
	} else {
		ctrl.SelectTab(0)
	}

	runView(ctrl, view.Options{
		ProjectPath: c.project,
		ExportPath:  c.output,
		Config:      c.r.config,
		Notifier:    c.r.notifier,
	})
	return nil
}

func loadRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}

func tabName(path string) string {
	name := path
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}
