package richtext

import (
	"strings"
	"unicode/utf8"
)

// The functions in this file are the text editing transforms. Each takes a
// document and a selection and returns a new normalized document and the
// selection after the edit; the input is never modified. A transform that
// has nothing to do returns its input unchanged.

// slot is one block in document order. Items of a list container carry the
// container they came from so that adjacent items can be regrouped.
type slot struct {
	list *Element
	el   *Element
}

// layout is a flat, editable view of a normalized document.
type layout struct {
	slots []slot
}

func newLayout(doc Document) *layout {
	l := &layout{}
	for _, top := range doc {
		if !IsListKind(top.Kind) {
			l.slots = append(l.slots, slot{el: top})
			continue
		}
		for _, child := range top.Children {
			if el, ok := child.(*Element); ok {
				l.slots = append(l.slots, slot{list: top, el: el})
			}
		}
	}
	return l
}

// starts returns the document offset of every block, consistent with
// offsetOf: each block boundary takes one position.
func (l *layout) starts() []int {
	starts := make([]int, len(l.slots))
	pos := 0
	for k, s := range l.slots {
		starts[k] = pos
		pos += textLen(s.el.Children) + 1
	}
	return starts
}

func (l *layout) total() int {
	if len(l.slots) == 0 {
		return 0
	}
	last := len(l.slots) - 1
	return l.starts()[last] + textLen(l.slots[last].el.Children)
}

// locate maps a document offset to a block and an offset inside its text.
func (l *layout) locate(pos int) (int, int) {
	starts := l.starts()
	for k, s := range l.slots {
		end := starts[k] + textLen(s.el.Children)
		if pos <= end {
			if pos < starts[k] {
				return k, 0
			}
			return k, pos - starts[k]
		}
	}
	last := len(l.slots) - 1
	return last, textLen(l.slots[last].el.Children)
}

func (l *layout) replace(from, to int, slots ...slot) {
	out := make([]slot, 0, len(l.slots)-(to-from)+len(slots))
	out = append(out, l.slots[:from]...)
	out = append(out, slots...)
	out = append(out, l.slots[to:]...)
	l.slots = out
}

// build regroups list items under copies of their containers.
func (l *layout) build() Document {
	out := make(Document, 0, len(l.slots))
	var src, cur *Element
	for _, s := range l.slots {
		if s.list == nil {
			src, cur = nil, nil
			out = append(out, s.el)
			continue
		}
		if s.list != src {
			src = s.list
			cur = &Element{Kind: s.list.Kind, Align: s.list.Align, URL: s.list.URL}
			out = append(out, cur)
		}
		cur.Children = append(cur.Children, s.el)
	}
	return Normalize(out)
}

// caretAt returns a cursor at offset b of block k of doc.
func caretAt(doc Document, k, b int) Range {
	l := newLayout(doc)
	if len(l.slots) == 0 {
		return Collapsed(Start(doc))
	}
	if k >= len(l.slots) {
		k = len(l.slots) - 1
	}
	if n := textLen(l.slots[k].el.Children); b > n {
		b = n
	}
	return Collapsed(pointAt(collectLeaves(doc), l.starts()[k]+b, false))
}

// splitAt splits inline content at byte offset off of its text. Inline
// elements crossing the offset are split into two copies.
func splitAt(children []Node, off int) ([]Node, []Node) {
	var left, right []Node
	pos := 0
	for i, child := range children {
		n := textLen([]Node{child})
		if off >= pos+n && i < len(children)-1 {
			left = append(left, cloneNode(child))
			pos += n
			continue
		}

		at := off - pos
		if at < 0 {
			at = 0
		}
		if at > n {
			at = n
		}
		switch c := child.(type) {
		case *Leaf:
			l, r := *c, *c
			l.Text, r.Text = c.Text[:at], c.Text[at:]
			left, right = append(left, &l), append(right, &r)
		case *Element:
			ll, rr := splitAt(c.Children, at)
			left = append(left, &Element{Kind: c.Kind, Align: c.Align, URL: c.URL, Children: ll})
			right = append(right, &Element{Kind: c.Kind, Align: c.Align, URL: c.URL, Children: rr})
		}
		for _, rest := range children[i+1:] {
			right = append(right, cloneNode(rest))
		}
		break
	}
	return left, right
}

func concatNodes(parts ...[]Node) []Node {
	var out []Node
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// editPoint normalizes doc and locates the document offset pos in it.
func editPoint(doc Document, pos int) (*layout, int, int) {
	l := newLayout(Normalize(doc))
	k, b := l.locate(pos)
	return l, k, b
}

// InsertText inserts s at the cursor, replacing the selection first. Line
// breaks in s split the block. A non-nil marks formats the inserted text;
// otherwise it takes the marks of the leaf at the cursor.
func InsertText(doc Document, sel Range, s string, marks *Marks) (Document, Range) {
	if s == "" {
		return doc, sel
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if !sel.IsCollapsed() {
		doc, sel = DeleteRange(doc, sel)
	}
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			doc, sel = InsertBreak(doc, sel)
		}
		if line != "" {
			doc, sel = insertLine(doc, sel, line, marks)
		}
	}
	return doc, sel
}

func insertLine(doc Document, sel Range, s string, marks *Marks) (Document, Range) {
	out := doc.Clone()
	point := ClampPoint(out, sel.Anchor)
	entries := collectLeaves(out)
	idx, off, ok := resolvePoint(entries, point)
	if !ok || entries[idx].void {
		return doc, sel
	}
	pos := offsetOf(entries, point)
	e := entries[idx]
	leaf := e.leaf

	if marks == nil || marksOf(leaf) == *marks {
		leaf.Text = leaf.Text[:off] + s + leaf.Text[off:]
	} else {
		node, _ := NodeAt(out, e.path[:len(e.path)-1])
		parent := node.(*Element)
		i := e.path[len(e.path)-1]

		before, after := *leaf, *leaf
		before.Text, after.Text = leaf.Text[:off], leaf.Text[off:]
		inserted := &Leaf{Text: s}
		marks.Apply(inserted)
		parent.Children = concatNodes(parent.Children[:i], []Node{&before, inserted, &after}, parent.Children[i+1:])
	}

	out = Normalize(out)
	return out, Collapsed(pointAt(collectLeaves(out), pos+len(s), false))
}

// InsertBreak splits the block at the cursor. The new block keeps the kind
// of the old one, except that a heading is followed by a paragraph when the
// break is at its end. A break in an empty list item ends the list.
func InsertBreak(doc Document, sel Range) (Document, Range) {
	if !sel.IsCollapsed() {
		doc, sel = DeleteRange(doc, sel)
	}
	l, k, b := editPoint(doc, offsetOf(collectLeaves(doc), ClampPoint(doc, sel.Anchor)))
	cur := l.slots[k]
	if IsVoidKind(cur.el.Kind) {
		return doc, sel
	}

	if cur.list != nil && !hasText(cur.el.Children) {
		cur.el.Kind = KindParagraph
		l.slots[k] = slot{el: cur.el}
		out := l.build()
		return out, caretAt(out, k, 0)
	}

	left, right := splitAt(cur.el.Children, b)
	next := &Element{Kind: cur.el.Kind, Align: cur.el.Align, Children: right}
	if cur.el.Kind.Effective() == KindHeading && !hasText(right) {
		next.Kind = KindParagraph
	}
	cur.el.Children = left
	l.replace(k+1, k+1, slot{list: cur.list, el: next})

	out := l.build()
	return out, caretAt(out, k+1, 0)
}

// DeleteRange removes the selected content, joining the blocks at its edges.
// Deleting everything leaves the canonical empty document.
func DeleteRange(doc Document, sel Range) (Document, Range) {
	if sel.IsCollapsed() {
		return doc, sel
	}
	entries := collectLeaves(doc)
	start, end := sel.Edges()
	from := offsetOf(entries, ClampPoint(doc, start))
	to := offsetOf(entries, ClampPoint(doc, end))
	if from >= to {
		return doc, Collapsed(pointAt(entries, from, false))
	}
	// Images at the document edges can never hold a selection endpoint, so a
	// range spanning all text is a deletion of everything.
	if from <= offsetOf(entries, Start(doc)) && to >= offsetOf(entries, End(doc)) {
		out := NewDocument()
		return out, Collapsed(Start(out))
	}
	return deleteOffsets(doc, from, to)
}

func deleteOffsets(doc Document, from, to int) (Document, Range) {
	l := newLayout(Normalize(doc))
	if from == 0 && to >= l.total() {
		out := NewDocument()
		return out, Collapsed(Start(out))
	}

	ks, bs := l.locate(from)
	ke, be := l.locate(to)
	first, last := l.slots[ks], l.slots[ke]

	var left, right []Node
	if IsVoidKind(first.el.Kind) {
		first = slot{el: NewParagraph()}
	} else {
		left, _ = splitAt(first.el.Children, bs)
	}
	if !IsVoidKind(last.el.Kind) {
		_, right = splitAt(last.el.Children, be)
	}
	first.el.Children = concatNodes(left, right)
	l.replace(ks, ke+1, first)

	out := l.build()
	return out, caretAt(out, ks, bs)
}

// DeleteBackward deletes the character before the cursor. At the start of a
// block it lifts a list item out of its list, turns a leading heading into a
// paragraph, removes a preceding image or joins the block to the previous
// one.
func DeleteBackward(doc Document, sel Range) (Document, Range) {
	if !sel.IsCollapsed() {
		return DeleteRange(doc, sel)
	}
	pos := offsetOf(collectLeaves(doc), ClampPoint(doc, sel.Anchor))
	l, k, b := editPoint(doc, pos)
	cur := l.slots[k]

	if b > 0 {
		_, size := utf8.DecodeLastRuneInString(blockText(cur.el)[:b])
		return deleteOffsets(doc, pos-size, pos)
	}

	switch {
	case cur.list != nil:
		cur.el.Kind = KindParagraph
		l.slots[k] = slot{el: cur.el}
		out := l.build()
		return out, caretAt(out, k, 0)
	case k == 0:
		if cur.el.Kind == KindParagraph {
			return doc, sel
		}
		cur.el.Kind = KindParagraph
		out := l.build()
		return out, caretAt(out, 0, 0)
	}

	prev := l.slots[k-1]
	if IsVoidKind(prev.el.Kind) {
		l.replace(k-1, k)
		out := l.build()
		return out, caretAt(out, k-1, 0)
	}

	joinAt := textLen(prev.el.Children)
	prev.el.Children = concatNodes(prev.el.Children, cur.el.Children)
	l.replace(k, k+1)
	out := l.build()
	return out, caretAt(out, k-1, joinAt)
}

// DeleteForward deletes the character after the cursor. At the end of a
// block it removes a following image or pulls the next block's content in.
func DeleteForward(doc Document, sel Range) (Document, Range) {
	if !sel.IsCollapsed() {
		return DeleteRange(doc, sel)
	}
	pos := offsetOf(collectLeaves(doc), ClampPoint(doc, sel.Anchor))
	l, k, b := editPoint(doc, pos)
	cur := l.slots[k]

	if text := blockText(cur.el); b < len(text) {
		_, size := utf8.DecodeRuneInString(text[b:])
		return deleteOffsets(doc, pos, pos+size)
	}
	if k == len(l.slots)-1 {
		return doc, sel
	}

	next := l.slots[k+1]
	if !IsVoidKind(next.el.Kind) {
		cur.el.Children = concatNodes(cur.el.Children, next.el.Children)
	}
	l.replace(k+1, k+2)
	out := l.build()
	return out, caretAt(out, k, b)
}

// InsertImage places an image block at the cursor followed by an empty
// paragraph that receives the cursor. The block holding the cursor is split
// around the image; inside a list the image goes after the list.
func InsertImage(doc Document, sel Range, url string) (Document, Range) {
	if !sel.IsCollapsed() {
		doc, sel = DeleteRange(doc, sel)
	}
	l, k, b := editPoint(doc, offsetOf(collectLeaves(doc), ClampPoint(doc, sel.Anchor)))
	cur := l.slots[k]
	image, para := slot{el: NewImage(url)}, slot{el: NewParagraph()}

	if cur.list != nil {
		m := k
		for m+1 < len(l.slots) && l.slots[m+1].list == cur.list {
			m++
		}
		l.replace(m+1, m+1, image, para)
		out := l.build()
		return out, caretAt(out, m+2, 0)
	}

	left, right := splitAt(cur.el.Children, b)
	var slots []slot
	if hasText(left) {
		slots = append(slots, slot{el: &Element{Kind: cur.el.Kind, Align: cur.el.Align, Children: left}})
	}
	slots = append(slots, image, para)
	caret := k + len(slots) - 1
	if hasText(right) {
		slots = append(slots, slot{el: &Element{Kind: cur.el.Kind, Align: cur.el.Align, Children: right}})
	}
	l.replace(k, k+1, slots...)

	out := l.build()
	return out, caretAt(out, caret, 0)
}

// InsertLink links the selected text to url, replacing any link it overlaps.
// At a cursor the url itself is inserted as the link text.
func InsertLink(doc Document, sel Range, url string) (Document, Range) {
	if sel.IsCollapsed() {
		l, k, b := editPoint(doc, offsetOf(collectLeaves(doc), ClampPoint(doc, sel.Anchor)))
		cur := l.slots[k]
		if IsVoidKind(cur.el.Kind) {
			return doc, sel
		}
		left, right := splitAt(cur.el.Children, b)
		cur.el.Children = concatNodes(left, []Node{NewLink(url)}, right)
		out := l.build()
		return out, caretAt(out, k, b+len(url))
	}

	doc, sel = UnwrapLinks(doc, sel)
	entries := collectLeaves(doc)
	anchor, focus := offsetOf(entries, sel.Anchor), offsetOf(entries, sel.Focus)
	from, to := anchor, focus
	if from > to {
		from, to = to, from
	}

	l := newLayout(Normalize(doc))
	ks, bs := l.locate(from)
	ke, be := l.locate(to)
	for k := ks; k <= ke; k++ {
		el := l.slots[k].el
		if IsVoidKind(el.Kind) {
			continue
		}
		f, t := 0, textLen(el.Children)
		if k == ks {
			f = bs
		}
		if k == ke {
			t = be
		}
		if t <= f {
			continue
		}
		left, rest := splitAt(el.Children, f)
		mid, right := splitAt(rest, t-f)
		link := &Element{Kind: KindLink, URL: url, Children: mid}
		el.Children = concatNodes(left, []Node{link}, right)
	}

	out := l.build()
	return out, remap(out, anchor, focus, false)
}

// UnwrapLinks replaces every link touching the selection by its content.
func UnwrapLinks(doc Document, sel Range) (Document, Range) {
	out := doc.Clone()
	entries := collectLeaves(out)
	sp, ok := resolveRange(entries, sel)
	if !ok {
		return doc, sel
	}
	idxs := sp.touched(entries)
	if sel.IsCollapsed() || len(idxs) == 0 {
		idxs = []int{sp.startIdx}
	}

	targets := make(map[*Element]bool)
	for _, i := range idxs {
		path := entries[i].path
		for n := len(path) - 1; n >= 2; n-- {
			node, _ := NodeAt(out, path[:n])
			if el, ok := node.(*Element); ok && el.Kind.Effective() == KindLink {
				targets[el] = true
			}
		}
	}
	if len(targets) == 0 {
		return doc, sel
	}

	anchor, focus := offsetOf(entries, sel.Anchor), offsetOf(entries, sel.Focus)
	for _, top := range out {
		unwrapIn(top, targets)
	}
	out = Normalize(out)
	return out, remap(out, anchor, focus, sel.IsCollapsed())
}

func unwrapIn(el *Element, targets map[*Element]bool) {
	children := make([]Node, 0, len(el.Children))
	for _, child := range el.Children {
		if c, ok := child.(*Element); ok {
			unwrapIn(c, targets)
			if targets[c] {
				children = append(children, c.Children...)
				continue
			}
		}
		children = append(children, child)
	}
	el.Children = children
}

// LinkAt returns the URL of the link holding the selection start.
func LinkAt(doc Document, sel Range) (string, bool) {
	start, _ := sel.Edges()
	for n := len(start.Path) - 1; n >= 2; n-- {
		node, ok := NodeAt(doc, start.Path[:n])
		if !ok {
			continue
		}
		if el, ok := node.(*Element); ok && el.Kind.Effective() == KindLink {
			return el.URL, true
		}
	}
	return "", false
}
