package editor

import (
	"testing"

	"estate-listing-be/pkg/richtext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	docs []richtext.Document
}

func (r *changeRecorder) onChange(doc richtext.Document) {
	r.docs = append(r.docs, doc)
}

func (r *changeRecorder) last() richtext.Document {
	if len(r.docs) == 0 {
		return nil
	}
	return r.docs[len(r.docs)-1]
}

func pt(offset int, path ...int) richtext.Point {
	return richtext.Point{Path: path, Offset: offset}
}

func span(anchor, focus richtext.Point) richtext.Range {
	return richtext.Range{Anchor: anchor, Focus: focus}
}

func paragraph(text string) richtext.Document {
	return richtext.Document{richtext.NewParagraph(richtext.NewText(text))}
}

func assertDoc(t *testing.T, want, got richtext.Document) {
	t.Helper()
	assert.True(t, richtext.Equal(want, got), "want %s\ngot  %s", richtext.MustSerialize(want), richtext.MustSerialize(got))
}

func TestNewNormalizesInitialValue(t *testing.T) {
	e := New(nil, nil)
	assert.True(t, e.Document().IsEmpty())
	assert.Equal(t, richtext.Collapsed(pt(0, 0, 0)), e.Selection())
}

func TestNewFromStringRefusesCorruptInput(t *testing.T) {
	e, err := NewFromString("{not valid json", nil)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, richtext.ErrMalformedDocument)

	e, err = NewFromString(`[{"type":"paragraph","children":[{"text":"Hello","bold":true},{"text":" world"}]}]`, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", richtext.PlainText(e.Document()))
}

func TestTypingEmitsEveryChange(t *testing.T) {
	rec := &changeRecorder{}
	e := New(richtext.NewDocument(), rec.onChange)

	assert.True(t, e.InsertText("Hello"))
	assert.True(t, e.InsertText(" world"))

	require.Len(t, rec.docs, 2)
	assertDoc(t, paragraph("Hello world"), rec.last())
	assert.Equal(t, richtext.Collapsed(pt(11, 0, 0)), e.Selection())
}

func TestOnChangeReceivesACopy(t *testing.T) {
	rec := &changeRecorder{}
	e := New(richtext.NewDocument(), rec.onChange)
	e.InsertText("Hi")

	rec.last()[0].Children[0].(*richtext.Leaf).Text = "tampered"
	assert.Equal(t, "Hi", richtext.PlainText(e.Document()))
}

func TestHotkeysToggleMarks(t *testing.T) {
	rec := &changeRecorder{}
	e := New(paragraph("Hello world"), rec.onChange)
	e.Select(span(pt(0, 0, 0), pt(5, 0, 0)))

	assert.True(t, e.HandleKeyDown(KeyEvent{Key: "b", Ctrl: true}))
	assert.True(t, e.HandleKeyDown(KeyEvent{Key: "I", Meta: true}))

	want := richtext.Document{richtext.NewParagraph(
		&richtext.Leaf{Text: "Hello", Bold: true, Italic: true},
		richtext.NewText(" world"),
	)}
	assertDoc(t, want, e.Document())
	assert.Len(t, rec.docs, 2)
	assert.True(t, e.Toolbar().Bold)

	assert.False(t, e.HandleKeyDown(KeyEvent{Key: "b"}), "plain key is not a shortcut")
	assert.False(t, e.HandleKeyDown(KeyEvent{Key: "k", Ctrl: true}))
	assert.False(t, e.HandleKeyDown(KeyEvent{Key: "b", Ctrl: true, Alt: true}))
}

func TestPendingMarksApplyToNextText(t *testing.T) {
	rec := &changeRecorder{}
	e := New(richtext.NewDocument(), rec.onChange)
	e.InsertText("Hello ")

	e.HandleKeyDown(KeyEvent{Key: "b", Ctrl: true})
	require.Len(t, rec.docs, 2, "a pending mark is still announced")
	assertDoc(t, paragraph("Hello "), rec.last())
	assertDoc(t, rec.docs[0], rec.docs[1])
	assert.True(t, e.IsMarkActive(richtext.MarkBold))

	e.InsertText("bold")
	e.InsertText("er")

	want := richtext.Document{richtext.NewParagraph(
		richtext.NewText("Hello "),
		&richtext.Leaf{Text: "bolder", Bold: true},
	)}
	assertDoc(t, want, e.Document())
}

func TestPendingMarkIsNotAnUndoStep(t *testing.T) {
	rec := &changeRecorder{}
	e := New(paragraph("abc"), rec.onChange)
	e.Select(richtext.Collapsed(pt(3, 0, 0)))

	e.ToggleMark(richtext.MarkItalic)
	require.True(t, e.SetColor(richtext.ColorPalette[1]))

	assert.Len(t, rec.docs, 2)
	assert.False(t, e.CanUndo())
	assertDoc(t, paragraph("abc"), rec.last())
}

func TestPendingMarksClearedBySelection(t *testing.T) {
	e := New(paragraph("abc"), nil)
	e.ToggleMark(richtext.MarkUnderline)
	require.True(t, e.IsMarkActive(richtext.MarkUnderline))

	e.Select(richtext.Collapsed(pt(1, 0, 0)))
	assert.False(t, e.IsMarkActive(richtext.MarkUnderline))
}

func TestUndoRedo(t *testing.T) {
	rec := &changeRecorder{}
	e := New(paragraph("Hello world"), rec.onChange)
	e.Select(span(pt(0, 0, 0), pt(5, 0, 0)))
	e.ToggleMark(richtext.MarkBold)
	bold := e.Document()

	assert.True(t, e.HandleKeyDown(KeyEvent{Key: "z", Ctrl: true}))
	assertDoc(t, paragraph("Hello world"), e.Document())
	assert.True(t, e.CanRedo())

	assert.True(t, e.HandleKeyDown(KeyEvent{Key: "z", Ctrl: true, Shift: true}))
	assertDoc(t, bold, e.Document())

	e.Undo()
	assert.True(t, e.HandleKeyDown(KeyEvent{Key: "y", Meta: true}))
	assertDoc(t, bold, e.Document())

	assert.Len(t, rec.docs, 5)
}

func TestUndoOnEmptyHistoryIsRejected(t *testing.T) {
	rec := &changeRecorder{}
	e := New(paragraph("x"), rec.onChange)

	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
	assert.True(t, e.HandleKeyDown(KeyEvent{Key: "z", Ctrl: true}), "shortcut is still consumed")
	assert.Empty(t, rec.docs)
}

func TestNewMutationDropsRedo(t *testing.T) {
	e := New(richtext.NewDocument(), nil)
	e.InsertText("a")
	e.InsertText("b")
	e.Undo()
	require.True(t, e.CanRedo())

	e.InsertText("c")
	assert.False(t, e.CanRedo())
	assert.Equal(t, "ac", richtext.PlainText(e.Document()))
}

func TestHistoryIsBounded(t *testing.T) {
	e := New(richtext.NewDocument(), nil, WithMaxHistory(2))
	e.InsertText("a")
	e.InsertText("b")
	e.InsertText("c")

	assert.True(t, e.Undo())
	assert.True(t, e.Undo())
	assert.False(t, e.Undo())
	assert.Equal(t, "a", richtext.PlainText(e.Document()))
}

func TestResetClearsHistory(t *testing.T) {
	rec := &changeRecorder{}
	e := New(richtext.NewDocument(), rec.onChange)
	e.InsertText("first listing")

	e.Reset(paragraph("second listing"))

	assert.False(t, e.CanUndo())
	assert.False(t, e.Undo())
	assert.Len(t, rec.docs, 1, "reset does not emit")
	assert.Equal(t, "second listing", richtext.PlainText(e.Document()))
}

func TestHistoriesAreOwnedPerInstance(t *testing.T) {
	a := New(richtext.NewDocument(), nil)
	b := New(richtext.NewDocument(), nil)
	a.InsertText("a")

	assert.True(t, a.CanUndo())
	assert.False(t, b.CanUndo())
}

func TestDeletingEverythingLeavesCanonicalEmpty(t *testing.T) {
	doc := richtext.Document{
		richtext.NewElement(richtext.KindHeading, richtext.NewText("Villa")),
		richtext.NewParagraph(&richtext.Leaf{Text: "Nice", Bold: true}),
	}

	t.Run("select all and delete", func(t *testing.T) {
		e := New(doc, nil)
		e.SelectAll()
		assert.True(t, e.DeleteBackward())
		assert.True(t, e.Document().IsEmpty())
	})

	t.Run("select all and delete with a leading image", func(t *testing.T) {
		e := New(richtext.NewDocument(), nil)
		require.True(t, e.InsertImage("https://cdn.test/a.jpg"))
		require.True(t, e.InsertText("x"))
		e.SelectAll()
		require.True(t, e.DeleteSelection())
		assert.True(t, e.Document().IsEmpty())
		assert.Equal(t, richtext.Collapsed(pt(0, 0, 0)), e.Selection())
	})

	t.Run("backspace one by one", func(t *testing.T) {
		e := New(paragraph("ab"), nil)
		e.Select(richtext.Collapsed(pt(2, 0, 0)))
		e.DeleteBackward()
		e.DeleteBackward()
		assert.True(t, e.Document().IsEmpty())
		assert.False(t, e.DeleteBackward(), "nothing left to delete")
	})
}

func TestDeleteBackwardJoinsBlocks(t *testing.T) {
	e := New(richtext.Document{
		richtext.NewParagraph(richtext.NewText("ab")),
		richtext.NewParagraph(richtext.NewText("cd")),
	}, nil)
	e.Select(richtext.Collapsed(pt(0, 1, 0)))

	e.DeleteBackward()

	assertDoc(t, paragraph("abcd"), e.Document())
	assert.Equal(t, richtext.Collapsed(pt(2, 0, 0)), e.Selection())
}

func TestDeleteBackwardLiftsListItem(t *testing.T) {
	e := New(richtext.Document{{Kind: richtext.KindBulletedList, Children: []richtext.Node{
		richtext.NewElement(richtext.KindListItem, richtext.NewText("a")),
		richtext.NewElement(richtext.KindListItem, richtext.NewText("b")),
	}}}, nil)
	e.Select(richtext.Collapsed(pt(0, 0, 1, 0)))

	e.DeleteBackward()

	want := richtext.Document{
		{Kind: richtext.KindBulletedList, Children: []richtext.Node{
			richtext.NewElement(richtext.KindListItem, richtext.NewText("a")),
		}},
		richtext.NewParagraph(richtext.NewText("b")),
	}
	assertDoc(t, want, e.Document())
}

func TestDeleteForward(t *testing.T) {
	e := New(richtext.Document{
		richtext.NewParagraph(richtext.NewText("aé")),
		richtext.NewParagraph(richtext.NewText("b")),
	}, nil)
	e.Select(richtext.Collapsed(pt(1, 0, 0)))

	e.DeleteForward()
	assertDoc(t, richtext.Document{
		richtext.NewParagraph(richtext.NewText("a")),
		richtext.NewParagraph(richtext.NewText("b")),
	}, e.Document())

	e.DeleteForward()
	assertDoc(t, paragraph("ab"), e.Document())

	e.Select(richtext.Collapsed(pt(2, 0, 0)))
	assert.False(t, e.DeleteForward(), "end of the last block")
}

func TestInsertBreak(t *testing.T) {
	tests := []struct {
		name   string
		doc    richtext.Document
		cursor richtext.Point
		want   richtext.Document
	}{
		{
			name:   "splits a paragraph",
			doc:    paragraph("Hello"),
			cursor: pt(2, 0, 0),
			want: richtext.Document{
				richtext.NewParagraph(richtext.NewText("He")),
				richtext.NewParagraph(richtext.NewText("llo")),
			},
		},
		{
			name:   "heading end continues as paragraph",
			doc:    richtext.Document{richtext.NewElement(richtext.KindHeading, richtext.NewText("Title"))},
			cursor: pt(5, 0, 0),
			want: richtext.Document{
				richtext.NewElement(richtext.KindHeading, richtext.NewText("Title")),
				richtext.NewParagraph(),
			},
		},
		{
			name: "list item adds an item",
			doc: richtext.Document{{Kind: richtext.KindNumberedList, Children: []richtext.Node{
				richtext.NewElement(richtext.KindListItem, richtext.NewText("a")),
			}}},
			cursor: pt(1, 0, 0, 0),
			want: richtext.Document{{Kind: richtext.KindNumberedList, Children: []richtext.Node{
				richtext.NewElement(richtext.KindListItem, richtext.NewText("a")),
				richtext.NewElement(richtext.KindListItem),
			}}},
		},
		{
			name: "empty list item ends the list",
			doc: richtext.Document{{Kind: richtext.KindNumberedList, Children: []richtext.Node{
				richtext.NewElement(richtext.KindListItem, richtext.NewText("a")),
				richtext.NewElement(richtext.KindListItem),
			}}},
			cursor: pt(0, 0, 1, 0),
			want: richtext.Document{
				{Kind: richtext.KindNumberedList, Children: []richtext.Node{
					richtext.NewElement(richtext.KindListItem, richtext.NewText("a")),
				}},
				richtext.NewParagraph(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.doc, nil)
			e.Select(richtext.Collapsed(tt.cursor))
			assert.True(t, e.InsertBreak())
			assertDoc(t, tt.want, e.Document())
		})
	}
}

func TestInsertTextWithNewlines(t *testing.T) {
	e := New(richtext.NewDocument(), nil)
	e.InsertText("line one\r\nline two")
	assertDoc(t, richtext.Document{
		richtext.NewParagraph(richtext.NewText("line one")),
		richtext.NewParagraph(richtext.NewText("line two")),
	}, e.Document())
}

func TestTypingReplacesSelection(t *testing.T) {
	e := New(paragraph("Hello world"), nil)
	e.Select(span(pt(6, 0, 0), pt(11, 0, 0)))
	e.InsertText("there")
	assertDoc(t, paragraph("Hello there"), e.Document())
}

func TestSelectMovesOutOfImages(t *testing.T) {
	e := New(richtext.Document{
		richtext.NewParagraph(richtext.NewText("a")),
		richtext.NewImage("https://a.test/x.png"),
		richtext.NewParagraph(richtext.NewText("b")),
	}, nil)

	e.Select(richtext.Collapsed(pt(0, 1, 0)))
	assert.Equal(t, richtext.Collapsed(pt(0, 2, 0)), e.Selection())
}
