package main

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/project"
	"github.com/example/snapmark/internal/view"
)

func testRoot() *root {
	return &root{program: "snapmark", config: config.New()}
}

func TestParseEditRequiresInput(t *testing.T) {
	_, err := parseEditCmd(nil, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "snapmark edit") {
		t.Fatalf("usage text = %q", uerr.Error())
	}
}

func TestParseRenderRequiresOutput(t *testing.T) {
	if _, err := parseRenderCmd([]string{"in.png"}, testRoot()); err == nil {
		t.Fatal("missing -output accepted")
	}
	if _, err := parseRenderCmd([]string{"-output", "out.png"}, testRoot()); err == nil {
		t.Fatal("missing input accepted")
	}
}

func TestRenderImageToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cmd, err := parseRenderCmd([]string{"-output", out, in}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	g, err := os.Open(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer g.Close()
	img, err := png.Decode(g)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Fatalf("output bounds %v", img.Bounds())
	}
}

func TestRenderRejectsBadTabIndex(t *testing.T) {
	r := testRoot()
	cmd := &renderCmd{r: r, input: "missing.snapmark", output: "out.png", tab: 2}
	if err := cmd.Run(); err == nil {
		t.Fatal("missing project accepted")
	}
}

func TestEditRestoresProjectCurrentTab(t *testing.T) {
	saved := editor.New()
	saved.NewTab(image.NewRGBA(image.Rect(0, 0, 30, 30)), "first")
	saved.NewTab(image.NewRGBA(image.Rect(0, 0, 30, 30)), "second")
	path := filepath.Join(t.TempDir(), "session"+project.Extension)
	if err := project.SaveFile(path, saved.Tabs(), 1); err != nil {
		t.Fatal(err)
	}

	var opened *editor.Controller
	prev := runView
	runView = func(ctrl *editor.Controller, _ view.Options) { opened = ctrl }
	defer func() { runView = prev }()

	cmd, err := parseEditCmd([]string{"-project", path}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if opened == nil {
		t.Fatal("view was never started")
	}
	if got := opened.Tab(); got == nil || got.Name != "second" {
		t.Fatalf("current tab = %+v, want the project's saved second tab", got)
	}
}

func TestTabName(t *testing.T) {
	cases := map[string]string{
		"shot.png":          "shot",
		"/tmp/a/grab.jpeg":  "grab",
		"noext":             "noext",
		".hidden":           ".hidden",
		"dir.d/archive.tar": "archive",
	}
	for in, want := range cases {
		if got := tabName(in); got != want {
			t.Errorf("tabName(%q) = %q, want %q", in, got, want)
		}
	}
}
