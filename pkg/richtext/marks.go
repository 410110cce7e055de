package richtext

// Mark names a formatting attribute of a leaf.
type Mark string

const (
	MarkBold      Mark = "bold"
	MarkItalic    Mark = "italic"
	MarkUnderline Mark = "underline"
	MarkColor     Mark = "color"
	MarkFontSize  Mark = "fontSize"
)

// BooleanMarks are the marks toggled by hotkeys and toolbar buttons.
var BooleanMarks = []Mark{MarkBold, MarkItalic, MarkUnderline}

// IsValued reports whether m carries a string value instead of a flag.
func (m Mark) IsValued() bool {
	return m == MarkColor || m == MarkFontSize
}

func (m Mark) Valid() bool {
	switch m {
	case MarkBold, MarkItalic, MarkUnderline, MarkColor, MarkFontSize:
		return true
	}
	return false
}

// HasMark reports whether the leaf carries m. A valued mark counts as set
// when its value is non-empty.
func (l *Leaf) HasMark(m Mark) bool {
	switch m {
	case MarkBold:
		return l.Bold
	case MarkItalic:
		return l.Italic
	case MarkUnderline:
		return l.Underline
	case MarkColor:
		return l.Color != ""
	case MarkFontSize:
		return l.FontSize != ""
	}
	return false
}

// MarkValue returns the stored value of a valued mark.
func (l *Leaf) MarkValue(m Mark) string {
	switch m {
	case MarkColor:
		return l.Color
	case MarkFontSize:
		return l.FontSize
	}
	if l.HasMark(m) {
		return "true"
	}
	return ""
}

// HasAnyMark reports whether the leaf carries any formatting at all.
func (l *Leaf) HasAnyMark() bool {
	return l.Bold || l.Italic || l.Underline || l.Color != "" || l.FontSize != ""
}

// setMark sets or clears m. Boolean marks are set by any non-empty value.
func (l *Leaf) setMark(m Mark, value string) {
	switch m {
	case MarkBold:
		l.Bold = value != ""
	case MarkItalic:
		l.Italic = value != ""
	case MarkUnderline:
		l.Underline = value != ""
	case MarkColor:
		l.Color = value
	case MarkFontSize:
		l.FontSize = value
	}
}

func (l *Leaf) clearMarks() {
	*l = Leaf{Text: l.Text}
}

func (l *Leaf) sameMarks(o *Leaf) bool {
	return l.Bold == o.Bold &&
		l.Italic == o.Italic &&
		l.Underline == o.Underline &&
		l.Color == o.Color &&
		l.FontSize == o.FontSize
}

// Marks is the formatting state shown by the toolbar.
type Marks struct {
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Underline bool   `json:"underline"`
	Color     string `json:"color,omitempty"`
	FontSize  string `json:"fontSize,omitempty"`
}

// Apply copies the marks onto a leaf, keeping its text.
func (m Marks) Apply(l *Leaf) {
	l.Bold, l.Italic, l.Underline = m.Bold, m.Italic, m.Underline
	l.Color, l.FontSize = m.Color, m.FontSize
}

func marksOf(l *Leaf) Marks {
	return Marks{Bold: l.Bold, Italic: l.Italic, Underline: l.Underline, Color: l.Color, FontSize: l.FontSize}
}

// ActiveMarks returns the mark state of the selection. Flags follow
// IsMarkActive; colour and size come from the leaf at the selection start.
func ActiveMarks(doc Document, sel Range) Marks {
	entries := collectLeaves(doc)
	sp, ok := resolveRange(entries, sel)
	if !ok {
		return Marks{}
	}
	start := entries[sp.startIdx]
	if start.void {
		return Marks{}
	}
	return Marks{
		Bold:      IsMarkActive(doc, sel, MarkBold),
		Italic:    IsMarkActive(doc, sel, MarkItalic),
		Underline: IsMarkActive(doc, sel, MarkUnderline),
		Color:     start.leaf.Color,
		FontSize:  start.leaf.FontSize,
	}
}

// IsMarkActive reports whether every leaf touching the selection carries m.
// For a cursor the leaf holding the cursor decides.
func IsMarkActive(doc Document, sel Range, m Mark) bool {
	entries := collectLeaves(doc)
	sp, ok := resolveRange(entries, sel)
	if !ok {
		return false
	}

	idxs := sp.touched(entries)
	if sel.IsCollapsed() || len(idxs) == 0 {
		e := entries[sp.startIdx]
		return !e.void && e.leaf.HasMark(m)
	}
	for _, i := range idxs {
		if !entries[i].leaf.HasMark(m) {
			return false
		}
	}
	return true
}

// ToggleMark removes m from the selected text when it is active and sets it
// everywhere otherwise. A cursor leaves the document untouched.
func ToggleMark(doc Document, sel Range, m Mark) (Document, Range) {
	if m.IsValued() {
		return doc, sel
	}
	value := "true"
	if IsMarkActive(doc, sel, m) {
		value = ""
	}
	return applyToRange(doc, sel, func(l *Leaf) { l.setMark(m, value) })
}

// SetMarkValue sets m to value on the selected text. An empty value removes
// the mark.
func SetMarkValue(doc Document, sel Range, m Mark, value string) (Document, Range) {
	if !m.Valid() {
		return doc, sel
	}
	return applyToRange(doc, sel, func(l *Leaf) { l.setMark(m, value) })
}

// ClearMarks strips every mark from the selected text without touching the
// block structure.
func ClearMarks(doc Document, sel Range) (Document, Range) {
	return applyToRange(doc, sel, func(l *Leaf) { l.clearMarks() })
}

// applyToRange splits the leaves at the range edges, runs fn on every
// selected piece and renormalizes. Text and blocks are unchanged, so the
// selection survives as document offsets.
func applyToRange(doc Document, sel Range, fn func(*Leaf)) (Document, Range) {
	if sel.IsCollapsed() {
		return doc, sel
	}
	out := doc.Clone()
	entries := collectLeaves(out)
	sp, ok := resolveRange(entries, sel)
	if !ok {
		return doc, sel
	}
	anchor, focus := offsetOf(entries, sel.Anchor), offsetOf(entries, sel.Focus)

	idxs := sp.touched(entries)
	if len(idxs) == 0 {
		return doc, sel
	}
	// Back to front so that splitting a leaf never shifts the path of a
	// leaf still waiting to be processed.
	for k := len(idxs) - 1; k >= 0; k-- {
		i := idxs[k]
		e := entries[i]
		from, to := 0, len(e.leaf.Text)
		if i == sp.startIdx {
			from = sp.startOff
		}
		if i == sp.endIdx {
			to = sp.endOff
		}

		node, ok := NodeAt(out, e.path[:len(e.path)-1])
		if !ok {
			continue
		}
		parent := node.(*Element)
		pos := e.path[len(e.path)-1]

		pieces := make([]Node, 0, 3)
		if from > 0 {
			before := *e.leaf
			before.Text = e.leaf.Text[:from]
			pieces = append(pieces, &before)
		}
		mid := *e.leaf
		mid.Text = e.leaf.Text[from:to]
		fn(&mid)
		pieces = append(pieces, &mid)
		if to < len(e.leaf.Text) {
			after := *e.leaf
			after.Text = e.leaf.Text[to:]
			pieces = append(pieces, &after)
		}

		children := make([]Node, 0, len(parent.Children)+len(pieces)-1)
		children = append(children, parent.Children[:pos]...)
		children = append(children, pieces...)
		children = append(children, parent.Children[pos+1:]...)
		parent.Children = children
	}

	out = Normalize(out)
	return out, remap(out, anchor, focus, false)
}
