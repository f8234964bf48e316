package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/snapmark/internal/detect"
)

type detectCmd struct {
	r     *root
	fs    *flag.FlagSet
	input string
	lang  string
}

func parseDetectCmd(args []string, r *root) (*detectCmd, error) {
	sub := r.subcommand("detect")
	c := &detectCmd{r: sub, fs: flag.NewFlagSet("detect", flag.ExitOnError)}
	c.fs.StringVar(&c.lang, "lang", "eng", "recognition languages, + separated")
	c.fs.Usage = func() {
		fmt.Fprint(os.Stderr, subUsage(sub.program, c.fs, "<image>"))
	}
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{usage: subUsage(sub.program, c.fs, "<image>")}
	}
	c.input = c.fs.Arg(0)
	return c, nil
}

func (c *detectCmd) Run() error {
	if !detect.Enabled() {
		return fmt.Errorf("text detection is not compiled in; rebuild with -tags ocr")
	}
	img, err := loadRGBA(c.input)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.input, err)
	}
	d, err := detect.NewDetector()
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.SetLanguage(c.lang); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	regions, err := d.Detect(img)
	if err != nil {
		return err
	}
	for _, reg := range regions {
		tone := "dark"
		if reg.Light {
			tone = "light"
		}
		fmt.Printf("%d,%d %dx%d %s\n", reg.Rect.Min.X, reg.Rect.Min.Y, reg.Rect.Dx(), reg.Rect.Dy(), tone)
	}
	return nil
}
