package richtext

import "strings"

// IsEmpty reports whether d is the canonical empty document.
func (d Document) IsEmpty() bool {
	if len(d) != 1 {
		return false
	}
	el := d[0]
	if el.Kind.Effective() != KindParagraph || el.Align != AlignNone || el.URL != "" || len(el.Children) != 1 {
		return false
	}
	leaf, ok := el.Children[0].(*Leaf)
	return ok && *leaf == Leaf{}
}

// Clone returns a deep copy sharing no nodes with d.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, el := range d {
		out[i] = el.clone()
	}
	return out
}

func (e *Element) clone() *Element {
	if e == nil {
		return nil
	}
	cp := &Element{Kind: e.Kind, Align: e.Align, URL: e.URL}
	if e.Children != nil {
		cp.Children = make([]Node, len(e.Children))
		for i, child := range e.Children {
			cp.Children[i] = cloneNode(child)
		}
	}
	return cp
}

func cloneNode(n Node) Node {
	switch n := n.(type) {
	case *Element:
		return n.clone()
	case *Leaf:
		cp := *n
		return &cp
	}
	return nil
}

// Equal reports whether two documents are structurally identical.
func Equal(a, b Document) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b Node) bool {
	switch a := a.(type) {
	case *Element:
		b, ok := b.(*Element)
		if !ok || a.Kind != b.Kind || a.Align != b.Align || a.URL != b.URL || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !nodeEqual(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	case *Leaf:
		b, ok := b.(*Leaf)
		return ok && *a == *b
	}
	return false
}

// PlainText returns the text of d with one line per block.
func PlainText(d Document) string {
	lines := make([]string, 0, len(d))
	for _, el := range d {
		collectBlockText(el, &lines)
	}
	return strings.Join(lines, "\n")
}

func collectBlockText(el *Element, lines *[]string) {
	if IsListKind(el.Kind) {
		for _, child := range el.Children {
			if ce, ok := child.(*Element); ok {
				collectBlockText(ce, lines)
			}
		}
		return
	}
	if IsVoidKind(el.Kind) {
		return
	}
	var sb strings.Builder
	writeInlineText(el.Children, &sb)
	*lines = append(*lines, sb.String())
}

func writeInlineText(children []Node, sb *strings.Builder) {
	for _, child := range children {
		switch c := child.(type) {
		case *Leaf:
			sb.WriteString(c.Text)
		case *Element:
			writeInlineText(c.Children, sb)
		}
	}
}

// hasText reports whether any leaf below children carries text.
func hasText(children []Node) bool {
	for _, child := range children {
		switch c := child.(type) {
		case *Leaf:
			if c.Text != "" {
				return true
			}
		case *Element:
			if hasText(c.Children) {
				return true
			}
		}
	}
	return false
}

func textLen(children []Node) int {
	n := 0
	for _, child := range children {
		switch c := child.(type) {
		case *Leaf:
			n += len(c.Text)
		case *Element:
			if !IsVoidKind(c.Kind) {
				n += textLen(c.Children)
			}
		}
	}
	return n
}

func blockText(el *Element) string {
	var sb strings.Builder
	writeInlineText(el.Children, &sb)
	return sb.String()
}

// Normalize returns a copy of d with the tree invariants restored:
//   - an empty document becomes the canonical empty document
//   - void elements hold exactly one empty leaf
//   - non-void elements hold at least one child
//   - list containers hold only list items, and top-level list items are
//     wrapped in a bulleted list
//   - links without text are dropped
//   - adjacent leaves with identical marks are merged
func Normalize(d Document) Document {
	out := make(Document, 0, len(d))
	var strays []Node
	flush := func() {
		if len(strays) > 0 {
			out = append(out, &Element{Kind: KindBulletedList, Children: strays})
			strays = nil
		}
	}

	for _, el := range d {
		if el == nil {
			continue
		}
		el = normalizeElement(el.clone())
		switch {
		case el.Kind.Effective() == KindListItem:
			strays = append(strays, el)
			continue
		case IsInlineKind(el.Kind):
			el = NewParagraph(el)
		}
		flush()
		out = append(out, el)
	}
	flush()

	if len(out) == 0 {
		return NewDocument()
	}
	return out
}

func normalizeElement(el *Element) *Element {
	if IsVoidKind(el.Kind) {
		el.Children = []Node{&Leaf{}}
		return el
	}

	children := make([]Node, 0, len(el.Children))
	for _, child := range el.Children {
		switch c := child.(type) {
		case *Element:
			c = normalizeElement(c)
			if IsInlineKind(c.Kind) && !hasText(c.Children) {
				continue
			}
			if IsListKind(el.Kind) && c.Kind.Effective() != KindListItem && !IsVoidKind(c.Kind) {
				if IsInlineKind(c.Kind) || IsListKind(c.Kind) {
					c = NewElement(KindListItem, c)
				} else {
					c.Kind = KindListItem
				}
			}
			children = append(children, c)
		case *Leaf:
			if IsListKind(el.Kind) {
				children = append(children, NewElement(KindListItem, c))
				continue
			}
			children = append(children, c)
		}
	}

	el.Children = mergeLeaves(children)
	if len(el.Children) == 0 {
		if IsListKind(el.Kind) {
			el.Children = []Node{NewElement(KindListItem)}
		} else {
			el.Children = []Node{&Leaf{}}
		}
	}
	return el
}

// mergeLeaves joins runs of leaves that carry the same marks and drops
// empty leaves that have a sibling to stand in for them.
func mergeLeaves(children []Node) []Node {
	merged := make([]Node, 0, len(children))
	for _, child := range children {
		leaf, ok := child.(*Leaf)
		if ok && len(merged) > 0 {
			if prev, ok := merged[len(merged)-1].(*Leaf); ok {
				if prev.Text == "" {
					merged[len(merged)-1] = leaf
					continue
				}
				if leaf.Text == "" {
					continue
				}
				if prev.sameMarks(leaf) {
					prev.Text += leaf.Text
					continue
				}
			}
		}
		merged = append(merged, child)
	}

	if len(merged) > 1 {
		kept := merged[:0]
		for _, child := range merged {
			if leaf, ok := child.(*Leaf); ok && leaf.Text == "" {
				continue
			}
			kept = append(kept, child)
		}
		if len(kept) > 0 {
			merged = kept
		}
	}
	return merged
}
