package editor

import (
	"strings"

	"estate-listing-be/pkg/richtext"
)

// KeyEvent is a key press as reported by the host page.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrlKey"`
	Meta  bool   `json:"metaKey"`
	Shift bool   `json:"shiftKey"`
	Alt   bool   `json:"altKey"`
}

// mod is Ctrl on most platforms and Cmd on macOS.
func (k KeyEvent) mod() bool {
	return k.Ctrl || k.Meta
}

var markHotkeys = map[string]richtext.Mark{
	"b": richtext.MarkBold,
	"i": richtext.MarkItalic,
	"u": richtext.MarkUnderline,
}

// HandleKeyDown runs the shortcut bound to ev. It returns true when the key
// was consumed and the host must suppress its default handling, so that
// formatting is never applied twice.
//
//	mod+b / mod+i / mod+u   toggle bold / italic / underline
//	mod+z                   undo
//	mod+shift+z, mod+y      redo
func (e *Editor) HandleKeyDown(ev KeyEvent) bool {
	if !ev.mod() || ev.Alt {
		return false
	}
	key := strings.ToLower(ev.Key)

	if m, ok := markHotkeys[key]; ok && !ev.Shift {
		e.ToggleMark(m)
		return true
	}
	switch {
	case key == "z" && ev.Shift, key == "y" && !ev.Shift:
		e.Redo()
		return true
	case key == "z":
		e.Undo()
		return true
	}
	return false
}
