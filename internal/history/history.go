// Package history keeps per-tab undo/redo stacks of scene snapshots.
// Discrete user actions push exactly one entry; continuous gestures
// push once at gesture start and mutate silently afterwards, which is
// the caller's responsibility via the explicit record flag on every
// mutation entry point.
package history

import (
	"image"

	"github.com/example/snapmark/internal/scene"
)

// Depth is the maximum number of undo entries kept per tab. The oldest
// entry is discarded when the stack grows beyond it.
const Depth = 50

// Entry is an immutable snapshot of a tab's scene. Image and Thumb are
// nil except for destructive operations (crop, overlay commit), where
// they carry the prior raster so undo restores pixels as well.
type Entry struct {
	Scene *scene.Scene
	Image *image.RGBA
	Thumb *image.RGBA
}

// Manager owns the undo and redo stacks for every tab.
type Manager struct {
	undo map[string][]Entry
	redo map[string][]Entry
}

// NewManager returns an empty history manager.
func NewManager() *Manager {
	return &Manager{
		undo: map[string][]Entry{},
		redo: map[string][]Entry{},
	}
}

// Push snapshots e onto the tab's undo stack and clears its redo stack.
func (m *Manager) Push(tab string, e Entry) {
	stack := append(m.undo[tab], e)
	if len(stack) > Depth {
		stack = stack[len(stack)-Depth:]
	}
	m.undo[tab] = stack
	delete(m.redo, tab)
}

// Undo pops the most recent undo entry, pushing current onto the redo
// stack. It reports false when there is nothing to undo; the caller
// must treat that as a silent no-op.
func (m *Manager) Undo(tab string, current Entry) (Entry, bool) {
	stack := m.undo[tab]
	if len(stack) == 0 {
		return Entry{}, false
	}
	e := stack[len(stack)-1]
	m.undo[tab] = stack[:len(stack)-1]
	m.redo[tab] = append(m.redo[tab], current)
	return e, true
}

// Redo pops the most recent redo entry, pushing current onto the undo
// stack without clearing redo.
func (m *Manager) Redo(tab string, current Entry) (Entry, bool) {
	stack := m.redo[tab]
	if len(stack) == 0 {
		return Entry{}, false
	}
	e := stack[len(stack)-1]
	m.redo[tab] = stack[:len(stack)-1]
	m.undo[tab] = append(m.undo[tab], current)
	return e, true
}

// PeekUndo returns the top undo entry without popping it. Callers use
// it to decide whether the counterpart snapshot must carry the raster.
func (m *Manager) PeekUndo(tab string) (Entry, bool) {
	stack := m.undo[tab]
	if len(stack) == 0 {
		return Entry{}, false
	}
	return stack[len(stack)-1], true
}

// PeekRedo returns the top redo entry without popping it.
func (m *Manager) PeekRedo(tab string) (Entry, bool) {
	stack := m.redo[tab]
	if len(stack) == 0 {
		return Entry{}, false
	}
	return stack[len(stack)-1], true
}

// UndoDepth reports the number of undo entries for a tab.
func (m *Manager) UndoDepth(tab string) int { return len(m.undo[tab]) }

// RedoDepth reports the number of redo entries for a tab.
func (m *Manager) RedoDepth(tab string) int { return len(m.redo[tab]) }

// Drop forgets both stacks for a tab, used when the tab closes.
func (m *Manager) Drop(tab string) {
	delete(m.undo, tab)
	delete(m.redo, tab)
}
