package richtext

// BlockDimension selects which attribute of a block a format is checked
// against. Kind and alignment are independent.
type BlockDimension string

const (
	DimensionType  BlockDimension = "type"
	DimensionAlign BlockDimension = "align"
)

// DimensionOf returns the dimension a toolbar format belongs to.
func DimensionOf(format string) BlockDimension {
	if IsAlignFormat(format) {
		return DimensionAlign
	}
	return DimensionType
}

// blockRef locates an enclosing block: a top-level element, or an item of
// the list container at top.
type blockRef struct {
	top  int
	item int
}

func (r blockRef) element(doc Document) *Element {
	el := doc[r.top]
	if r.item < 0 {
		return el
	}
	child, _ := el.Children[r.item].(*Element)
	return child
}

// enclosingBlocks returns the blocks the selection touches in document
// order. A cursor, or a range that selects no character, yields the block
// holding its start.
func enclosingBlocks(doc Document, sel Range) []blockRef {
	entries := collectLeaves(doc)
	sp, ok := resolveRange(entries, sel)
	if !ok {
		return nil
	}
	idxs := sp.touched(entries)
	if sel.IsCollapsed() || len(idxs) == 0 {
		idxs = []int{sp.startIdx}
	}

	var refs []blockRef
	seen := make(map[blockRef]bool)
	for _, i := range idxs {
		block := entries[i].block
		ref := blockRef{top: block[0], item: -1}
		if len(block) > 1 && IsListKind(doc[block[0]].Kind) {
			if _, ok := doc[block[0]].Children[block[1]].(*Element); ok {
				ref.item = block[1]
			}
		}
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

// IsBlockActive reports whether every block enclosing the selection matches
// format. For list formats the block must be an item of a list of that kind.
func IsBlockActive(doc Document, sel Range, format string, dim BlockDimension) bool {
	refs := enclosingBlocks(doc, sel)
	if len(refs) == 0 {
		return false
	}
	for _, ref := range refs {
		el := ref.element(doc)
		if el == nil {
			return false
		}
		switch {
		case dim == DimensionAlign:
			if el.Align != Align(format) {
				return false
			}
		case IsListKind(Kind(format)):
			if ref.item < 0 || doc[ref.top].Kind.Effective() != Kind(format) {
				return false
			}
		default:
			if el.Kind.Effective() != Kind(format) {
				return false
			}
		}
	}
	return true
}

// ToggleBlock applies a toolbar block format to the blocks enclosing the
// selection.
//
// Alignments are set, or cleared when already active. Any other format
// first lifts the selected list items out of their containers; an active
// format then turns the blocks back into paragraphs, a list format wraps
// each run of adjacent blocks in a new container, and a plain kind is set
// directly. Image blocks keep their kind.
func ToggleBlock(doc Document, sel Range, format string) (Document, Range) {
	if IsAlignFormat(format) {
		return toggleAlign(doc, sel, Align(format))
	}

	kind := Kind(format)
	if kind.Effective() != kind || kind == KindLink || kind == KindImage || kind == KindListItem {
		return doc, sel
	}

	entries := collectLeaves(doc)
	anchor, focus := offsetOf(entries, sel.Anchor), offsetOf(entries, sel.Focus)
	collapsed := sel.IsCollapsed()

	out := Normalize(doc)
	sel = remap(out, anchor, focus, collapsed)
	refs := enclosingBlocks(out, sel)
	if len(refs) == 0 {
		return doc, sel
	}
	active := IsBlockActive(out, sel, format, DimensionType)

	affected := make(map[*Element]bool, len(refs))
	for _, ref := range refs {
		if el := ref.element(out); el != nil {
			affected[el] = true
		}
	}

	target := kind
	wrap := false
	switch {
	case active:
		target = KindParagraph
	case IsListKind(kind):
		target, wrap = KindListItem, true
	}

	var rebuilt Document
	var run []Node
	flushRun := func() {
		if len(run) > 0 {
			rebuilt = append(rebuilt, &Element{Kind: kind, Children: run})
			run = nil
		}
	}
	emit := func(el *Element) {
		if IsVoidKind(el.Kind) {
			flushRun()
			rebuilt = append(rebuilt, el)
			return
		}
		el.Kind = target
		if wrap {
			run = append(run, el)
			return
		}
		flushRun()
		rebuilt = append(rebuilt, el)
	}

	for _, top := range out {
		if affected[top] {
			emit(top)
			continue
		}
		if !IsListKind(top.Kind) || !containsAffected(top, affected) {
			flushRun()
			rebuilt = append(rebuilt, top)
			continue
		}

		var keep []Node
		flushKeep := func() {
			if len(keep) > 0 {
				rebuilt = append(rebuilt, &Element{Kind: top.Kind, Align: top.Align, Children: keep})
				keep = nil
			}
		}
		for _, child := range top.Children {
			if el, ok := child.(*Element); ok && affected[el] {
				flushKeep()
				emit(el)
				continue
			}
			flushRun()
			keep = append(keep, child)
		}
		flushKeep()
	}
	flushRun()

	rebuilt = Normalize(rebuilt)
	return rebuilt, remap(rebuilt, anchor, focus, collapsed)
}

func toggleAlign(doc Document, sel Range, align Align) (Document, Range) {
	refs := enclosingBlocks(doc, sel)
	if len(refs) == 0 {
		return doc, sel
	}
	if IsBlockActive(doc, sel, string(align), DimensionAlign) {
		align = AlignNone
	}
	out := doc.Clone()
	for _, ref := range refs {
		if el := ref.element(out); el != nil {
			el.Align = align
		}
	}
	return out, sel
}

func containsAffected(list *Element, affected map[*Element]bool) bool {
	for _, child := range list.Children {
		if el, ok := child.(*Element); ok && affected[el] {
			return true
		}
	}
	return false
}
