package richtext

import "unicode/utf8"

// Path addresses a node by child indexes from the document root.
type Path []int

func (p Path) Copy() Path {
	return append(Path(nil), p...)
}

func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Compare orders paths in document order; an ancestor sorts before its
// descendants.
func (p Path) Compare(q Path) int {
	for i := 0; i < len(p) && i < len(q); i++ {
		if p[i] < q[i] {
			return -1
		}
		if p[i] > q[i] {
			return 1
		}
	}
	switch {
	case len(p) < len(q):
		return -1
	case len(p) > len(q):
		return 1
	}
	return 0
}

// IsAncestorOf reports whether p is a strict prefix of q.
func (p Path) IsAncestorOf(q Path) bool {
	return len(p) < len(q) && p.Equal(q[:len(p)])
}

// Point is a position inside a leaf. Offset counts bytes of the leaf text.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

func (p Point) Compare(q Point) int {
	if c := p.Path.Compare(q.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < q.Offset:
		return -1
	case p.Offset > q.Offset:
		return 1
	}
	return 0
}

// Range is a selection. Anchor is where it started, Focus where it ends up;
// Focus may precede Anchor.
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Collapsed returns a cursor at p.
func Collapsed(p Point) Range {
	return Range{Anchor: p, Focus: p}
}

func (r Range) IsCollapsed() bool {
	return r.Anchor.Compare(r.Focus) == 0
}

func (r Range) IsBackward() bool {
	return r.Anchor.Compare(r.Focus) > 0
}

// Edges returns the range endpoints in document order.
func (r Range) Edges() (Point, Point) {
	if r.IsBackward() {
		return r.Focus, r.Anchor
	}
	return r.Anchor, r.Focus
}

// NodeAt returns the node addressed by path.
func NodeAt(d Document, path Path) (Node, bool) {
	if len(path) == 0 || path[0] < 0 || path[0] >= len(d) {
		return nil, false
	}
	var node Node = d[path[0]]
	for _, idx := range path[1:] {
		el, ok := node.(*Element)
		if !ok || idx < 0 || idx >= len(el.Children) {
			return nil, false
		}
		node = el.Children[idx]
	}
	return node, true
}

// Start returns the first cursor position of d. Image placeholders are
// skipped.
func Start(d Document) Point {
	entries := collectLeaves(d)
	for _, e := range entries {
		if !e.void {
			return Point{Path: e.path.Copy()}
		}
	}
	if len(entries) == 0 {
		return Point{Path: Path{0, 0}}
	}
	return Point{Path: entries[0].path.Copy()}
}

// End returns the last cursor position of d.
func End(d Document) Point {
	entries := collectLeaves(d)
	for i := len(entries) - 1; i >= 0; i-- {
		if e := entries[i]; !e.void {
			return Point{Path: e.path.Copy(), Offset: len(e.leaf.Text)}
		}
	}
	if len(entries) == 0 {
		return Point{Path: Path{0, 0}}
	}
	last := entries[len(entries)-1]
	return Point{Path: last.path.Copy(), Offset: len(last.leaf.Text)}
}

// All returns a range covering the whole document.
func All(d Document) Range {
	return Range{Anchor: Start(d), Focus: End(d)}
}

// ClampPoint returns the cursor position closest to p: inside a text leaf,
// on a rune boundary, never inside an image.
func ClampPoint(d Document, p Point) Point {
	entries := collectLeaves(d)
	idx, off, ok := resolvePoint(entries, p)
	if !ok {
		if len(d) > 0 && len(p.Path) > 0 && p.Path[0] >= len(d) {
			return End(d)
		}
		return Start(d)
	}
	if !entries[idx].void {
		return Point{Path: entries[idx].path.Copy(), Offset: off}
	}
	for j := idx + 1; j < len(entries); j++ {
		if !entries[j].void {
			return Point{Path: entries[j].path.Copy()}
		}
	}
	for j := idx - 1; j >= 0; j-- {
		if !entries[j].void {
			return Point{Path: entries[j].path.Copy(), Offset: len(entries[j].leaf.Text)}
		}
	}
	return Start(d)
}

func ClampRange(d Document, r Range) Range {
	return Range{Anchor: ClampPoint(d, r.Anchor), Focus: ClampPoint(d, r.Focus)}
}

// leafEntry is one leaf in document order together with its address and
// the block it belongs to.
type leafEntry struct {
	path  Path
	leaf  *Leaf
	block Path
	void  bool
}

func collectLeaves(d Document) []leafEntry {
	var entries []leafEntry
	for i, el := range d {
		walkLeaves(el, Path{i}, Path{i}, false, &entries)
	}
	return entries
}

func walkLeaves(el *Element, path, block Path, inVoid bool, entries *[]leafEntry) {
	if !IsInlineKind(el.Kind) {
		block = path
	}
	inVoid = inVoid || IsVoidKind(el.Kind)
	for i, child := range el.Children {
		childPath := append(path.Copy(), i)
		switch c := child.(type) {
		case *Element:
			walkLeaves(c, childPath, block, inVoid, entries)
		case *Leaf:
			*entries = append(*entries, leafEntry{path: childPath, leaf: c, block: block, void: inVoid})
		}
	}
}

// resolvePoint maps p to an index into entries and a clamped offset. A path
// that names an element resolves to the start of its first leaf.
func resolvePoint(entries []leafEntry, p Point) (int, int, bool) {
	for i, e := range entries {
		if e.path.Equal(p.Path) {
			return i, clampOffset(e.leaf.Text, p.Offset), true
		}
	}
	for i, e := range entries {
		if p.Path.IsAncestorOf(e.path) {
			return i, 0, true
		}
	}
	return 0, 0, false
}

func clampOffset(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}

// span is a resolved range: entry indexes and offsets of both edges.
type span struct {
	startIdx, startOff int
	endIdx, endOff     int
}

func resolveRange(entries []leafEntry, r Range) (span, bool) {
	start, end := r.Edges()
	si, so, ok := resolvePoint(entries, start)
	if !ok {
		return span{}, false
	}
	ei, eo, ok := resolvePoint(entries, end)
	if !ok {
		return span{}, false
	}
	return span{startIdx: si, startOff: so, endIdx: ei, endOff: eo}, true
}

// touched returns the entry indexes sharing at least one character with
// the span, skipping void placeholders.
func (s span) touched(entries []leafEntry) []int {
	var out []int
	for i := s.startIdx; i <= s.endIdx && i < len(entries); i++ {
		e := entries[i]
		if e.void {
			continue
		}
		from, to := 0, len(e.leaf.Text)
		if i == s.startIdx {
			from = s.startOff
		}
		if i == s.endIdx {
			to = s.endOff
		}
		if to > from {
			out = append(out, i)
		}
	}
	return out
}

// entryStarts assigns every leaf its document-wide starting offset. Each
// block boundary counts as one position so that offsets in different blocks
// never collide.
func entryStarts(entries []leafEntry) []int {
	starts := make([]int, len(entries))
	pos := 0
	for i, e := range entries {
		if i > 0 && !entries[i-1].block.Equal(e.block) {
			pos++
		}
		starts[i] = pos
		pos += len(e.leaf.Text)
	}
	return starts
}

// offsetOf converts a point to a document-wide offset.
func offsetOf(entries []leafEntry, p Point) int {
	idx, off, ok := resolvePoint(entries, p)
	if !ok {
		return 0
	}
	return entryStarts(entries)[idx] + off
}

// pointAt is the inverse of offsetOf. At a boundary between two leaves of
// the same block, forward picks the start of the later leaf and backward the
// end of the earlier one. Void placeholders never receive a point.
func pointAt(entries []leafEntry, pos int, forward bool) Point {
	if len(entries) == 0 {
		return Point{Path: Path{0, 0}}
	}
	starts := entryStarts(entries)
	best := -1
	for i, e := range entries {
		start, end := starts[i], starts[i]+len(e.leaf.Text)
		if start > pos {
			break
		}
		if e.void || pos > end {
			continue
		}
		best = i
		if !forward || pos < end {
			break
		}
	}
	if best >= 0 {
		return Point{Path: entries[best].path.Copy(), Offset: pos - starts[best]}
	}

	for i, e := range entries {
		if !e.void && starts[i] >= pos {
			return Point{Path: e.path.Copy()}
		}
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if !entries[i].void {
			return Point{Path: entries[i].path.Copy(), Offset: len(entries[i].leaf.Text)}
		}
	}
	return Point{Path: entries[0].path.Copy()}
}

// remap moves a range expressed as document offsets onto a new tree.
func remap(d Document, anchor, focus int, collapsed bool) Range {
	entries := collectLeaves(d)
	if collapsed {
		return Collapsed(pointAt(entries, anchor, false))
	}
	if anchor <= focus {
		return Range{Anchor: pointAt(entries, anchor, true), Focus: pointAt(entries, focus, false)}
	}
	return Range{Anchor: pointAt(entries, anchor, false), Focus: pointAt(entries, focus, true)}
}
