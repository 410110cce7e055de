package editor

import "estate-listing-be/pkg/richtext"

// BlockFormats are the block buttons of the toolbar in display order.
var BlockFormats = []string{
	string(richtext.KindHeading),
	string(richtext.KindNumberedList),
	string(richtext.KindBulletedList),
	string(richtext.AlignLeft),
	string(richtext.AlignCenter),
	string(richtext.AlignRight),
	string(richtext.AlignJustify),
}

// ToolbarState is what the toolbar shows for the current selection.
type ToolbarState struct {
	Bold      bool            `json:"bold"`
	Italic    bool            `json:"italic"`
	Underline bool            `json:"underline"`
	Blocks    map[string]bool `json:"blocks"`
	FontSize  string          `json:"fontSize"`
	Color     string          `json:"color,omitempty"`
	Link      string          `json:"link,omitempty"`
	CanUndo   bool            `json:"canUndo"`
	CanRedo   bool            `json:"canRedo"`
}

func (e *Editor) Toolbar() ToolbarState {
	marks := e.currentMarks()
	state := ToolbarState{
		Bold:      e.IsMarkActive(richtext.MarkBold),
		Italic:    e.IsMarkActive(richtext.MarkItalic),
		Underline: e.IsMarkActive(richtext.MarkUnderline),
		Blocks:    make(map[string]bool, len(BlockFormats)),
		FontSize:  marks.FontSize,
		Color:     marks.Color,
		CanUndo:   e.CanUndo(),
		CanRedo:   e.CanRedo(),
	}
	if state.FontSize == "" {
		state.FontSize = richtext.DefaultFontSize
	}
	for _, format := range BlockFormats {
		state.Blocks[format] = e.IsBlockActive(format)
	}
	if u, ok := richtext.LinkAt(e.doc, e.sel); ok {
		state.Link = u
	}
	return state
}
