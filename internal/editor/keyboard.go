package editor

import (
	"image"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/render"
)

// KeyPress routes one key press. While a text annotation is being
// edited every printable key feeds the text buffer, so tool hotkeys
// cannot fire mid-typing.
func (c *Controller) KeyPress(e key.Event) {
	if e.Direction != key.DirPress && e.Direction != key.DirNone {
		return
	}
	if c.text.Active {
		c.textKey(e)
		return
	}

	switch e.Code {
	case key.CodeReturnEnter:
		if c.overlay != nil {
			c.CommitOverlay()
		} else if c.cropReady {
			c.ConfirmCrop()
		}
		return
	case key.CodeEscape:
		switch {
		case c.overlay != nil:
			c.CancelOverlay()
		case c.cropReady:
			c.CancelCrop()
		default:
			c.clearSelection()
		}
		return
	case key.CodeDeleteBackspace, key.CodeDeleteForward:
		c.DeleteSelection()
		return
	case key.CodeLeftArrow:
		c.arrowKey(-1, 0, e.Modifiers)
		return
	case key.CodeRightArrow:
		c.arrowKey(1, 0, e.Modifiers)
		return
	case key.CodeUpArrow:
		c.arrowKey(0, -1, e.Modifiers)
		return
	case key.CodeDownArrow:
		c.arrowKey(0, 1, e.Modifiers)
		return
	}

	if e.Modifiers&key.ModControl != 0 {
		switch unicode.ToLower(e.Rune) {
		case 'z':
			if e.Modifiers&key.ModShift != 0 {
				c.Redo()
			} else {
				c.Undo()
			}
		case 'y':
			c.Redo()
		case 'c':
			c.CopySelection()
		case 'v':
			c.PasteClipboard()
		case 'd':
			c.DuplicateSelection()
		case ']':
			c.BringSelectionToFront()
		case '[':
			c.SendSelectionToBack()
		}
		return
	}

	// While an overlay floats, c enters its crop sub-state; every
	// other plain key is swallowed so tools cannot change underneath
	// it.
	if c.overlay != nil {
		if unicode.ToLower(e.Rune) == 'c' {
			c.BeginOverlayCrop()
		}
		return
	}

	// Tool hotkeys.
	switch unicode.ToLower(e.Rune) {
	case 's':
		c.SetTool(ToolSelect)
	case 'n':
		c.SetTool(ToolStep)
	case 't':
		c.SetTool(ToolText)
	case 'r':
		c.SetTool(ToolRect)
	case 'a':
		c.SetTool(ToolArrow)
	case 'b':
		c.SetTool(ToolBlur)
	case 'c':
		c.SetTool(ToolCrop)
	}
}

func (c *Controller) textKey(e key.Event) {
	switch e.Code {
	case key.CodeReturnEnter:
		if e.Modifiers&key.ModShift != 0 {
			c.text.Lines = append(c.text.Lines, "")
			return
		}
		c.commitText()
		return
	case key.CodeEscape:
		c.text = textState{}
		return
	case key.CodeDeleteBackspace:
		last := len(c.text.Lines) - 1
		if len(c.text.Lines[last]) > 0 {
			r := []rune(c.text.Lines[last])
			c.text.Lines[last] = string(r[:len(r)-1])
		} else if last > 0 {
			c.text.Lines = c.text.Lines[:last]
		}
		return
	}
	if e.Rune >= ' ' && e.Rune != unicode.ReplacementChar {
		c.text.Lines[len(c.text.Lines)-1] += string(e.Rune)
	}
}

// commitText finishes the text editor. Empty input, or re-editing an
// existing annotation without changes, leaves history untouched.
func (c *Controller) commitText() {
	tab := c.Tab()
	st := c.text
	c.text = textState{}
	if tab == nil || !st.Active {
		return
	}
	content := strings.TrimRight(strings.Join(st.Lines, "\n"), "\n")
	if strings.TrimSpace(content) == "" {
		// Discard empty text; re-editing to empty deletes the
		// original instead.
		if st.EditID != "" {
			c.pushUndo(false)
			tab.Scene.Remove(st.EditID)
			delete(c.selection, st.EditID)
		}
		return
	}
	lines := strings.Split(content, "\n")
	size := c.defaults.TextFontSize

	if st.EditID != "" {
		if content == st.original {
			return
		}
		t := tab.Scene.Text(st.EditID)
		if t == nil {
			return
		}
		c.pushUndo(false)
		t.Lines = lines
		t.W, t.H = render.MeasureLines(lines, t.FontSize)
		return
	}

	c.pushUndo(false)
	w, h := render.MeasureLines(lines, size)
	t := annotation.Text{
		ID:       annotation.NewID(),
		Pos:      st.Pos,
		Lines:    lines,
		FontSize: size,
		Color:    c.defaults.ShapeColor,
		W:        w,
		H:        h,
	}
	tab.Scene.AddText(t)
	c.clearSelection()
	c.selection[t.ID] = struct{}{}
}

// arrowKey routes one arrow press: plain nudges the selection a pixel
// (ten with shift), ctrl aligns it to that edge, ctrl+shift distributes
// along the axis.
func (c *Controller) arrowKey(dx, dy int, mods key.Modifiers) {
	ctrl := mods&key.ModControl != 0
	shift := mods&key.ModShift != 0
	switch {
	case ctrl && shift:
		c.DistributeSelection(dx != 0)
	case ctrl:
		switch {
		case dx < 0:
			c.AlignSelection(AlignLeft)
		case dx > 0:
			c.AlignSelection(AlignRight)
		case dy < 0:
			c.AlignSelection(AlignTop)
		default:
			c.AlignSelection(AlignBottom)
		}
	default:
		step := 1
		if shift {
			step = 10
		}
		c.Nudge(dx*step, dy*step)
	}
}

// Nudge moves the selection by one pixel per arrow key press, ten with
// shift. Each press is one history entry.
func (c *Controller) Nudge(dx, dy int) {
	tab := c.Tab()
	ids := c.Selection()
	if tab == nil || len(ids) == 0 {
		return
	}
	c.pushUndo(false)
	tab.Scene.TranslateAll(ids, image.Pt(dx, dy))
}
