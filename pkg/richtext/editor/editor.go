// Package editor is the editing surface of a listing description. An Editor
// owns one document, its selection and its undo history, and reports every
// accepted change through the onChange callback. It is meant to be driven
// from a single goroutine.
package editor

import (
	"net/url"
	"strings"

	"estate-listing-be/pkg/richtext"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

var (
	linkSchemes  = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true}
	imageSchemes = map[string]bool{"http": true, "https": true}
)

type Option func(*Editor)

// WithMaxHistory bounds the number of undo steps kept.
func WithMaxHistory(n int) Option {
	return func(e *Editor) {
		e.history = newHistory(n)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

type Editor struct {
	doc      richtext.Document
	sel      richtext.Range
	pending  *richtext.Marks
	onChange func(richtext.Document)
	history  *history
	logger   *zap.Logger
}

// New mounts an editor on initial, which is normalized first. onChange may
// be nil.
func New(initial richtext.Document, onChange func(richtext.Document), opts ...Option) *Editor {
	e := &Editor{
		onChange: onChange,
		history:  newHistory(DefaultMaxHistory),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.mount(initial)
	return e
}

// NewFromString mounts an editor on a serialized document. A corrupt value
// is refused with the parse error; the caller decides what to show instead.
func NewFromString(serialized string, onChange func(richtext.Document), opts ...Option) (*Editor, error) {
	doc, err := richtext.Deserialize(serialized)
	if err != nil {
		return nil, err
	}
	return New(doc, onChange, opts...), nil
}

func (e *Editor) mount(doc richtext.Document) {
	e.doc = richtext.Normalize(doc)
	e.sel = richtext.Collapsed(richtext.Start(e.doc))
	e.pending = nil
	e.history.clear()
}

// Reset remounts the editor on a new document, typically another listing.
// Undo history does not carry over.
func (e *Editor) Reset(doc richtext.Document) {
	e.mount(doc)
	e.logger.Debug("editor reset")
}

// Document returns a copy of the current document.
func (e *Editor) Document() richtext.Document {
	return e.doc.Clone()
}

func (e *Editor) Serialize() (string, error) {
	return richtext.Serialize(e.doc)
}

func (e *Editor) Selection() richtext.Range {
	return e.sel
}

// Select moves the selection. Points inside images are moved out.
func (e *Editor) Select(r richtext.Range) {
	e.sel = richtext.ClampRange(e.doc, r)
	e.pending = nil
}

func (e *Editor) SelectAll() {
	e.Select(richtext.All(e.doc))
}

func (e *Editor) CanUndo() bool { return e.history.canUndo() }
func (e *Editor) CanRedo() bool { return e.history.canRedo() }

// commit installs the result of a transform. A result equal to the current
// document only moves the selection and is not recorded.
func (e *Editor) commit(op string, doc richtext.Document, sel richtext.Range) bool {
	e.pending = nil
	if richtext.Equal(doc, e.doc) {
		e.sel = sel
		return false
	}
	e.history.record(snapshot{doc: e.doc, sel: e.sel})
	e.doc, e.sel = doc, sel
	e.logger.Debug("document changed", zap.String("op", op))
	e.emit()
	return true
}

func (e *Editor) emit() {
	if e.onChange != nil {
		e.onChange(e.doc.Clone())
	}
}

// InsertText types s at the cursor, replacing the selection. Pending marks
// apply to the typed text.
func (e *Editor) InsertText(s string) bool {
	doc, sel := richtext.InsertText(e.doc, e.sel, s, e.pending)
	return e.commit("insert_text", doc, sel)
}

func (e *Editor) InsertBreak() bool {
	doc, sel := richtext.InsertBreak(e.doc, e.sel)
	return e.commit("insert_break", doc, sel)
}

func (e *Editor) DeleteBackward() bool {
	doc, sel := richtext.DeleteBackward(e.doc, e.sel)
	return e.commit("delete_backward", doc, sel)
}

func (e *Editor) DeleteForward() bool {
	doc, sel := richtext.DeleteForward(e.doc, e.sel)
	return e.commit("delete_forward", doc, sel)
}

func (e *Editor) DeleteSelection() bool {
	doc, sel := richtext.DeleteRange(e.doc, e.sel)
	return e.commit("delete_selection", doc, sel)
}

// currentMarks is what the next typed character would look like.
func (e *Editor) currentMarks() richtext.Marks {
	if e.pending != nil {
		return *e.pending
	}
	return richtext.ActiveMarks(e.doc, e.sel)
}

// IsMarkActive reports the toolbar state of a boolean mark, including marks
// pending at the cursor.
func (e *Editor) IsMarkActive(m richtext.Mark) bool {
	if e.pending != nil {
		switch m {
		case richtext.MarkBold:
			return e.pending.Bold
		case richtext.MarkItalic:
			return e.pending.Italic
		case richtext.MarkUnderline:
			return e.pending.Underline
		}
	}
	return richtext.IsMarkActive(e.doc, e.sel, m)
}

// ToggleMark toggles a boolean mark on the selection. At a cursor the mark
// is held pending and applied to the next typed text; listeners still hear
// about it, with the document unchanged.
func (e *Editor) ToggleMark(m richtext.Mark) {
	if m.IsValued() || !m.Valid() {
		return
	}
	if e.sel.IsCollapsed() {
		marks := e.currentMarks()
		switch m {
		case richtext.MarkBold:
			marks.Bold = !marks.Bold
		case richtext.MarkItalic:
			marks.Italic = !marks.Italic
		case richtext.MarkUnderline:
			marks.Underline = !marks.Underline
		}
		e.pending = &marks
		e.emit()
		return
	}
	doc, sel := richtext.ToggleMark(e.doc, e.sel, m)
	e.commit("toggle_mark", doc, sel)
}

func (e *Editor) IsBlockActive(format string) bool {
	return richtext.IsBlockActive(e.doc, e.sel, format, richtext.DimensionOf(format))
}

// ToggleBlock applies a block kind, list or alignment from the toolbar.
func (e *Editor) ToggleBlock(format string) bool {
	doc, sel := richtext.ToggleBlock(e.doc, e.sel, format)
	return e.commit("toggle_block", doc, sel)
}

// SetFontSize applies a size from the ladder. The default size removes the
// mark. Other values are rejected.
func (e *Editor) SetFontSize(size string) bool {
	if !richtext.IsFontSize(size) {
		e.logger.Debug("font size rejected", zap.String("size", size))
		return false
	}
	if size == richtext.DefaultFontSize {
		size = ""
	}
	return e.setValued(richtext.MarkFontSize, size)
}

// SetColor applies a palette colour. Other values are rejected.
func (e *Editor) SetColor(color string) bool {
	if !richtext.IsPaletteColor(color) {
		e.logger.Debug("color rejected", zap.String("color", color))
		return false
	}
	return e.setValued(richtext.MarkColor, strings.ToLower(color))
}

func (e *Editor) setValued(m richtext.Mark, value string) bool {
	if e.sel.IsCollapsed() {
		marks := e.currentMarks()
		if m == richtext.MarkColor {
			marks.Color = value
		} else {
			marks.FontSize = value
		}
		e.pending = &marks
		e.emit()
		return true
	}
	doc, sel := richtext.SetMarkValue(e.doc, e.sel, m, value)
	e.commit("set_"+string(m), doc, sel)
	return true
}

// ClearFormatting removes every mark from the selection, leaving blocks as
// they are.
func (e *Editor) ClearFormatting() bool {
	if e.sel.IsCollapsed() {
		e.pending = &richtext.Marks{}
		return false
	}
	doc, sel := richtext.ClearMarks(e.doc, e.sel)
	return e.commit("clear_formatting", doc, sel)
}

// InsertLink links the selection to rawURL, or inserts the URL as linked
// text at a cursor. Empty or malformed URLs are ignored and false is
// returned.
func (e *Editor) InsertLink(rawURL string) bool {
	u, ok := checkURL(rawURL, linkSchemes)
	if !ok {
		e.logger.Debug("link url rejected", zap.String("url", rawURL))
		return false
	}
	doc, sel := richtext.InsertLink(e.doc, e.sel, u)
	return e.commit("insert_link", doc, sel)
}

func (e *Editor) RemoveLink() bool {
	doc, sel := richtext.UnwrapLinks(e.doc, e.sel)
	return e.commit("remove_link", doc, sel)
}

// InsertImage inserts an image at the cursor followed by an empty paragraph
// holding the cursor. Empty or malformed URLs are ignored.
func (e *Editor) InsertImage(rawURL string) bool {
	u, ok := checkURL(rawURL, imageSchemes)
	if !ok {
		e.logger.Debug("image url rejected", zap.String("url", rawURL))
		return false
	}
	doc, sel := richtext.InsertImage(e.doc, e.sel, u)
	return e.commit("insert_image", doc, sel)
}

func (e *Editor) Undo() bool {
	prev, ok := e.history.stepBack(snapshot{doc: e.doc, sel: e.sel})
	if !ok {
		return false
	}
	e.doc, e.sel, e.pending = prev.doc, prev.sel, nil
	e.emit()
	return true
}

func (e *Editor) Redo() bool {
	next, ok := e.history.stepForward(snapshot{doc: e.doc, sel: e.sel})
	if !ok {
		return false
	}
	e.doc, e.sel, e.pending = next.doc, next.sel, nil
	e.emit()
	return true
}

func checkURL(raw string, schemes map[string]bool) (string, bool) {
	raw = strings.TrimSpace(raw)
	if err := validate.Var(raw, "required,url"); err != nil {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || !schemes[strings.ToLower(u.Scheme)] {
		return "", false
	}
	return raw, true
}
