package history

import (
	"fmt"
	"image"
	"testing"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/scene"
)

func sceneWithText(msg string) *scene.Scene {
	s := scene.New()
	s.AddText(annotation.Text{ID: annotation.NewID(), Pos: image.Pt(1, 1), Lines: []string{msg}})
	return s
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := NewManager()
	before := sceneWithText("before")
	after := sceneWithText("after")

	m.Push("tab1", Entry{Scene: before.Clone()})

	popped, ok := m.Undo("tab1", Entry{Scene: after.Clone()})
	if !ok {
		t.Fatal("undo reported empty stack")
	}
	if popped.Scene.Texts[0].Lines[0] != "before" {
		t.Fatalf("undo restored %q", popped.Scene.Texts[0].Lines[0])
	}

	redone, ok := m.Redo("tab1", popped)
	if !ok {
		t.Fatal("redo reported empty stack")
	}
	if redone.Scene.Texts[0].Lines[0] != "after" {
		t.Fatalf("redo restored %q", redone.Scene.Texts[0].Lines[0])
	}
	if m.UndoDepth("tab1") != 1 {
		t.Fatalf("undo depth %d after round trip", m.UndoDepth("tab1"))
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	m := NewManager()
	if _, ok := m.Undo("tab", Entry{}); ok {
		t.Fatal("undo on empty stack succeeded")
	}
	if _, ok := m.Redo("tab", Entry{}); ok {
		t.Fatal("redo on empty stack succeeded")
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager()
	m.Push("tab", Entry{Scene: sceneWithText("a")})
	if _, ok := m.Undo("tab", Entry{Scene: sceneWithText("b")}); !ok {
		t.Fatal("undo failed")
	}
	if m.RedoDepth("tab") != 1 {
		t.Fatalf("redo depth %d, want 1", m.RedoDepth("tab"))
	}
	m.Push("tab", Entry{Scene: sceneWithText("c")})
	if m.RedoDepth("tab") != 0 {
		t.Fatalf("redo depth %d after push, want 0", m.RedoDepth("tab"))
	}
}

func TestStackCapDiscardsOldest(t *testing.T) {
	m := NewManager()
	for i := 0; i < Depth+10; i++ {
		m.Push("tab", Entry{Scene: sceneWithText(fmt.Sprintf("state %d", i))})
	}
	if m.UndoDepth("tab") != Depth {
		t.Fatalf("undo depth %d, want %d", m.UndoDepth("tab"), Depth)
	}
	// The newest entry is still on top.
	e, ok := m.Undo("tab", Entry{})
	if !ok {
		t.Fatal("undo failed")
	}
	want := fmt.Sprintf("state %d", Depth+9)
	if got := e.Scene.Texts[0].Lines[0]; got != want {
		t.Fatalf("top entry %q, want %q", got, want)
	}
}

func TestStacksArePerTab(t *testing.T) {
	m := NewManager()
	m.Push("a", Entry{Scene: sceneWithText("a1")})
	m.Push("b", Entry{Scene: sceneWithText("b1")})
	if _, ok := m.Undo("a", Entry{}); !ok {
		t.Fatal("undo tab a failed")
	}
	if m.UndoDepth("b") != 1 {
		t.Fatal("tab b stack affected by tab a undo")
	}
	m.Drop("b")
	if m.UndoDepth("b") != 0 || m.RedoDepth("b") != 0 {
		t.Fatal("drop did not clear tab b")
	}
}
