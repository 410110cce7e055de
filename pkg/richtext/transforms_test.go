package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cursor(offset int, path ...int) Range {
	return Collapsed(Point{Path: path, Offset: offset})
}

func TestInsertTextCountsBytes(t *testing.T) {
	doc := Document{NewParagraph(NewText("Hello"))}

	out, sel := InsertText(doc, cursor(5, 0, 0), " wörld", nil)
	assert.Equal(t, Document{NewParagraph(NewText("Hello wörld"))}, out)
	assert.Equal(t, cursor(12, 0, 0), sel)
	assert.Equal(t, Document{NewParagraph(NewText("Hello"))}, doc, "input is not mutated")
}

func TestInsertTextWithMarks(t *testing.T) {
	doc := Document{NewParagraph(NewText("ab"))}

	out, _ := InsertText(doc, cursor(1, 0, 0), "X", &Marks{Bold: true})
	want := Document{NewParagraph(NewText("a"), &Leaf{Text: "X", Bold: true}, NewText("b"))}
	assert.Equal(t, want, out)
}

func TestInsertTextSplitsLines(t *testing.T) {
	doc := Document{NewParagraph(NewText("Hello"))}

	out, sel := InsertText(doc, cursor(2, 0, 0), "x\r\ny", nil)
	want := Document{
		NewParagraph(NewText("Hex")),
		NewParagraph(NewText("yllo")),
	}
	assert.Equal(t, want, out)
	assert.Equal(t, cursor(1, 1, 0), sel)
}

func TestInsertBreakAfterHeading(t *testing.T) {
	doc := Document{NewElement(KindHeading, NewText("Villa"))}

	out, sel := InsertBreak(doc, cursor(5, 0, 0))
	require.Len(t, out, 2)
	assert.Equal(t, KindHeading, out[0].Kind)
	assert.Equal(t, KindParagraph, out[1].Kind)
	assert.Equal(t, cursor(0, 1, 0), sel)
}

func TestDeleteBackwardRemovesWholeRune(t *testing.T) {
	doc := Document{NewParagraph(NewText("wö"))}

	out, sel := DeleteBackward(doc, cursor(3, 0, 0))
	assert.Equal(t, Document{NewParagraph(NewText("w"))}, out)
	assert.Equal(t, cursor(1, 0, 0), sel)
}

func TestDeleteBackwardAtDocumentStart(t *testing.T) {
	doc := Document{NewParagraph(NewText("Hi"))}

	out, sel := DeleteBackward(doc, cursor(0, 0, 0))
	assert.Equal(t, doc, out)
	assert.Equal(t, cursor(0, 0, 0), sel)
}

func TestInsertEmptyTextIsNoop(t *testing.T) {
	doc := Document{NewParagraph(NewText("Hi"))}
	out, sel := InsertText(doc, cursor(1, 0, 0), "", nil)
	assert.Equal(t, doc, out)
	assert.Equal(t, cursor(1, 0, 0), sel)
}

func TestDeleteRangeAcrossImages(t *testing.T) {
	img := func() *Element { return NewImage("https://cdn.test/a.jpg") }
	whole := Range{Anchor: Point{Path: Path{1, 0}, Offset: 0}, Focus: Point{Path: Path{1, 0}, Offset: 1}}

	t.Run("all text after a leading image", func(t *testing.T) {
		out, sel := DeleteRange(Document{img(), NewParagraph(NewText("x"))}, whole)
		assert.Equal(t, NewDocument(), out)
		assert.Equal(t, cursor(0, 0, 0), sel)
	})

	t.Run("all text between images", func(t *testing.T) {
		out, _ := DeleteRange(Document{img(), NewParagraph(NewText("x")), img()}, whole)
		assert.True(t, out.IsEmpty())
	})

	t.Run("partial text keeps the image", func(t *testing.T) {
		doc := Document{img(), NewParagraph(NewText("xy"))}
		out, sel := DeleteRange(doc, Range{Anchor: Point{Path: Path{1, 0}, Offset: 1}, Focus: Point{Path: Path{1, 0}, Offset: 2}})
		assert.Equal(t, Document{img(), NewParagraph(NewText("x"))}, out)
		assert.Equal(t, cursor(1, 1, 0), sel)
	})
}
