package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoParagraphs() Document {
	return Document{
		NewParagraph(NewText("One")),
		NewParagraph(NewText("Two")),
	}
}

func TestToggleAlignOnTwoParagraphs(t *testing.T) {
	doc := twoParagraphs()
	r := sel(pt(0, 0, 0), pt(3, 1, 0))

	got, r := ToggleBlock(doc, r, string(AlignCenter))

	require.Len(t, got, 2)
	for _, el := range got {
		assert.Equal(t, AlignCenter, el.Align)
		assert.Equal(t, KindParagraph, el.Kind)
	}
	assert.True(t, IsBlockActive(got, r, "center", DimensionAlign))
	assert.False(t, IsBlockActive(got, r, "left", DimensionAlign))

	cleared, _ := ToggleBlock(got, r, "center")
	assert.True(t, Equal(doc, cleared))
}

func TestAlignIsExclusive(t *testing.T) {
	doc := twoParagraphs()
	r := Collapsed(pt(1, 0, 0))

	doc, r = ToggleBlock(doc, r, "center")
	doc, r = ToggleBlock(doc, r, "right")

	assert.Equal(t, AlignRight, doc[0].Align)
	assert.Equal(t, AlignNone, doc[1].Align)
	assert.False(t, IsBlockActive(doc, r, "center", DimensionAlign))
}

func TestToggleListWrapsAndUnwraps(t *testing.T) {
	doc := twoParagraphs()
	r := sel(pt(0, 0, 0), pt(3, 1, 0))

	listed, r := ToggleBlock(doc, r, string(KindBulletedList))

	want := Document{{Kind: KindBulletedList, Children: []Node{
		NewElement(KindListItem, NewText("One")),
		NewElement(KindListItem, NewText("Two")),
	}}}
	require.True(t, Equal(want, listed), "got %s", MustSerialize(listed))
	assert.Equal(t, sel(pt(0, 0, 0, 0), pt(3, 0, 1, 0)), r)
	assert.True(t, IsBlockActive(listed, r, "bulleted-list", DimensionType))
	assert.False(t, IsBlockActive(listed, r, "numbered-list", DimensionType))

	unlisted, _ := ToggleBlock(listed, r, string(KindBulletedList))
	assert.True(t, Equal(doc, unlisted), "got %s", MustSerialize(unlisted))
}

func TestSwitchingListTypeNeverNests(t *testing.T) {
	doc := Document{{Kind: KindBulletedList, Children: []Node{
		NewElement(KindListItem, NewText("garden")),
		NewElement(KindListItem, NewText("garage")),
	}}}
	r := sel(pt(0, 0, 0, 0), pt(6, 0, 1, 0))

	got, r := ToggleBlock(doc, r, string(KindNumberedList))

	want := Document{{Kind: KindNumberedList, Children: []Node{
		NewElement(KindListItem, NewText("garden")),
		NewElement(KindListItem, NewText("garage")),
	}}}
	assert.True(t, Equal(want, got), "got %s", MustSerialize(got))
	assert.True(t, IsBlockActive(got, r, "numbered-list", DimensionType))
	assertNoMixedLists(t, got)
}

func TestSwitchingListTypeOnOneItemSplitsTheList(t *testing.T) {
	doc := Document{{Kind: KindBulletedList, Children: []Node{
		NewElement(KindListItem, NewText("a")),
		NewElement(KindListItem, NewText("b")),
		NewElement(KindListItem, NewText("c")),
	}}}

	got, r := ToggleBlock(doc, Collapsed(pt(0, 0, 1, 0)), string(KindNumberedList))

	want := Document{
		{Kind: KindBulletedList, Children: []Node{NewElement(KindListItem, NewText("a"))}},
		{Kind: KindNumberedList, Children: []Node{NewElement(KindListItem, NewText("b"))}},
		{Kind: KindBulletedList, Children: []Node{NewElement(KindListItem, NewText("c"))}},
	}
	assert.True(t, Equal(want, got), "got %s", MustSerialize(got))
	assert.Equal(t, Collapsed(pt(0, 1, 0, 0)), r)
	assertNoMixedLists(t, got)
}

func TestUnwrapMiddleItem(t *testing.T) {
	doc := Document{{Kind: KindBulletedList, Children: []Node{
		NewElement(KindListItem, NewText("a")),
		NewElement(KindListItem, NewText("b")),
		NewElement(KindListItem, NewText("c")),
	}}}

	got, _ := ToggleBlock(doc, Collapsed(pt(1, 0, 1, 0)), string(KindBulletedList))

	want := Document{
		{Kind: KindBulletedList, Children: []Node{NewElement(KindListItem, NewText("a"))}},
		NewParagraph(NewText("b")),
		{Kind: KindBulletedList, Children: []Node{NewElement(KindListItem, NewText("c"))}},
	}
	assert.True(t, Equal(want, got), "got %s", MustSerialize(got))
}

func TestToggleHeadingTwiceReturnsToParagraph(t *testing.T) {
	doc := twoParagraphs()
	r := Collapsed(pt(2, 1, 0))

	once, r := ToggleBlock(doc, r, string(KindHeading))
	assert.Equal(t, KindHeading, once[1].Kind)
	assert.Equal(t, KindParagraph, once[0].Kind)
	assert.True(t, IsBlockActive(once, r, "heading", DimensionType))

	twice, _ := ToggleBlock(once, r, string(KindHeading))
	assert.True(t, Equal(doc, twice))
}

func TestHeadingOnListItemLeavesTheList(t *testing.T) {
	doc := Document{{Kind: KindNumberedList, Children: []Node{
		NewElement(KindListItem, NewText("a")),
	}}}

	got, _ := ToggleBlock(doc, Collapsed(pt(0, 0, 0, 0)), string(KindHeading))

	assert.True(t, Equal(Document{NewElement(KindHeading, NewText("a"))}, got), "got %s", MustSerialize(got))
}

func TestToggleBlockLeavesImagesAlone(t *testing.T) {
	doc := Document{
		NewParagraph(NewText("a")),
		NewImage("https://a.test/x.png"),
		NewParagraph(NewText("b")),
	}

	got, _ := ToggleBlock(doc, All(doc), string(KindNumberedList))

	require.Len(t, got, 3)
	assert.Equal(t, KindNumberedList, got[0].Kind)
	assert.Equal(t, KindImage, got[1].Kind)
	assert.Equal(t, KindNumberedList, got[2].Kind)
}

func TestToggleBlockIgnoresUnknownFormat(t *testing.T) {
	doc := twoParagraphs()
	got, _ := ToggleBlock(doc, All(doc), "marquee")
	assert.True(t, Equal(doc, got))
}

func TestIsBlockActiveTreatsUnknownKindAsParagraph(t *testing.T) {
	doc := Document{{Kind: "quote", Children: []Node{NewText("x")}}}
	assert.True(t, IsBlockActive(doc, Collapsed(pt(0, 0, 0)), "paragraph", DimensionType))
}

func assertNoMixedLists(t *testing.T, doc Document) {
	t.Helper()
	var walk func(n Node, seen map[Kind]bool)
	walk = func(n Node, seen map[Kind]bool) {
		el, ok := n.(*Element)
		if !ok {
			return
		}
		if IsListKind(el.Kind) {
			next := map[Kind]bool{el.Kind: true}
			for k := range seen {
				next[k] = true
			}
			seen = next
		}
		assert.False(t, seen[KindBulletedList] && seen[KindNumberedList], "mixed list ancestry")
		for _, c := range el.Children {
			walk(c, seen)
		}
	}
	for _, el := range doc {
		walk(el, map[Kind]bool{})
	}
}
