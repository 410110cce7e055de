package richtext

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrInvalidMarkdown is returned for markdown sources that are not UTF-8.
var ErrInvalidMarkdown = errors.New("markdown source is not valid UTF-8")

// ToMarkdown converts doc to markdown for plain-text channels. Marks without
// a markdown form are written as inline HTML, which FromMarkdown reads back.
func ToMarkdown(doc Document) string {
	blocks := make([]string, 0, len(doc))
	for _, el := range doc {
		if md := blockMarkdown(el); md != "" {
			blocks = append(blocks, md)
		}
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func blockMarkdown(el *Element) string {
	var body string
	switch el.Kind.Effective() {
	case KindHeading:
		body = "## " + inlineMarkdown(el.Children)
	case KindNumberedList, KindBulletedList:
		body = listMarkdown(el)
	case KindImage:
		body = fmt.Sprintf("![](%s)", markdownURL(el.URL))
	default:
		body = inlineMarkdown(el.Children)
	}
	if strings.TrimSpace(body) == "" {
		return ""
	}

	if el.Align != AlignNone && el.Align != AlignLeft && el.Align.Valid() {
		return fmt.Sprintf("<div align=\"%s\">\n\n%s\n\n</div>", el.Align, body)
	}
	return body
}

func listMarkdown(el *Element) string {
	lines := make([]string, 0, len(el.Children))
	index := 1
	for _, child := range el.Children {
		item, ok := child.(*Element)
		if !ok {
			continue
		}
		marker := "- "
		if el.Kind.Effective() == KindNumberedList {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}
		lines = append(lines, marker+inlineMarkdown(item.Children))
	}
	return strings.Join(lines, "\n")
}

func inlineMarkdown(children []Node) string {
	var sb strings.Builder
	for _, child := range children {
		switch c := child.(type) {
		case *Leaf:
			writeLeafMarkdown(c, &sb)
		case *Element:
			switch c.Kind.Effective() {
			case KindLink:
				sb.WriteString("[")
				sb.WriteString(inlineMarkdown(c.Children))
				sb.WriteString("](")
				sb.WriteString(markdownURL(c.URL))
				sb.WriteString(")")
			case KindImage:
				sb.WriteString(fmt.Sprintf("![](%s)", markdownURL(c.URL)))
			default:
				sb.WriteString(inlineMarkdown(c.Children))
			}
		}
	}
	return sb.String()
}

func writeLeafMarkdown(l *Leaf, sb *strings.Builder) {
	if l.Text == "" {
		return
	}
	// Emphasis markers must hug the text, so surrounding spaces go outside.
	core := strings.TrimFunc(l.Text, unicode.IsSpace)
	if core == "" {
		sb.WriteString(l.Text)
		return
	}
	lead := l.Text[:strings.Index(l.Text, core)]
	trail := l.Text[len(lead)+len(core):]

	style := make(StyleMap)
	if l.Color != "" && SafeCSSValue(l.Color) {
		style["color"] = l.Color
	}
	if l.FontSize != "" && SafeCSSValue(l.FontSize) {
		style["font-size"] = l.FontSize
	}

	sb.WriteString(lead)
	if len(style) > 0 {
		sb.WriteString(`<span style="` + style.String() + `">`)
	}
	if l.Bold {
		sb.WriteString("**")
	}
	if l.Italic {
		sb.WriteString("*")
	}
	if l.Underline {
		sb.WriteString("<u>")
	}

	sb.WriteString(escapeMarkdown(core))

	if l.Underline {
		sb.WriteString("</u>")
	}
	if l.Italic {
		sb.WriteString("*")
	}
	if l.Bold {
		sb.WriteString("**")
	}
	if len(style) > 0 {
		sb.WriteString("</span>")
	}
	sb.WriteString(trail)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`, "&", `\&`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// unescapeText resolves backslash escapes and character references in
// source text. An escaped character never starts a reference.
func unescapeText(src []byte) string {
	var sb strings.Builder
	n := 0
	for i := 0; i+1 < len(src); i++ {
		if src[i] == '\\' && util.IsPunct(src[i+1]) {
			sb.Write(resolveReferences(src[n:i]))
			sb.WriteByte(src[i+1])
			i++
			n = i + 1
		}
	}
	sb.Write(resolveReferences(src[n:]))
	return sb.String()
}

func resolveReferences(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(b))
}

func markdownURL(u string) string {
	if strings.ContainsAny(u, " ()") {
		return "<" + u + ">"
	}
	return u
}

var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func markdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New()
	})
	return markdownParserInstance
}

// FromMarkdown converts a markdown description into a document. Paragraphs,
// headings, lists, emphasis, links and images map to their document
// counterparts. Other constructs degrade to paragraph text. Images inside
// running text become blocks of their own.
func FromMarkdown(src string) (Document, error) {
	if !utf8.ValidString(src) {
		return nil, ErrInvalidMarkdown
	}
	source := []byte(src)
	root := markdownParser().Parser().Parse(text.NewReader(source))

	b := &markdownBuilder{source: source}
	var doc Document
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		doc = append(doc, b.blocks(n)...)
	}
	return Normalize(doc), nil
}

var (
	alignOpenTag  = regexp.MustCompile(`^<div\s+align="(left|center|right|justify)"\s*>$`)
	alignCloseTag = regexp.MustCompile(`^</div>$`)
	styleAttr     = regexp.MustCompile(`style="([^"]*)"`)
)

type markdownBuilder struct {
	source []byte
	align  Align

	// current marks, and the marks to restore when an inline HTML tag closes
	marks   Leaf
	tagMark []Leaf
}

func (b *markdownBuilder) blocks(n ast.Node) []*Element {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return b.inlineBlocks(KindParagraph, b.inlines(n))
	case *ast.Heading:
		return b.inlineBlocks(KindHeading, b.inlines(n))
	case *ast.List:
		return []*Element{b.list(n)}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var out []*Element
		for _, line := range b.lines(n) {
			out = append(out, b.withAlign(NewParagraph(NewText(line))))
		}
		return out
	case *ast.HTMLBlock:
		return b.htmlBlock(n)
	case *ast.ThematicBreak:
		return nil
	}

	var out []*Element
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, b.blocks(c)...)
	}
	return out
}

func (b *markdownBuilder) htmlBlock(n ast.Node) []*Element {
	lines := b.lines(n)
	raw := strings.TrimSpace(strings.Join(lines, "\n"))
	if m := alignOpenTag.FindStringSubmatch(raw); m != nil {
		b.align = Align(m[1])
		return nil
	}
	if alignCloseTag.MatchString(raw) {
		b.align = AlignNone
		return nil
	}

	var out []*Element
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, b.withAlign(NewParagraph(NewText(line))))
		}
	}
	return out
}

func (b *markdownBuilder) lines(n ast.Node) []string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(b.source)), "\r\n"))
	}
	return out
}

// list flattens nested lists into the outer container; the document model
// has a single list level.
func (b *markdownBuilder) list(n *ast.List) *Element {
	kind := KindBulletedList
	if n.IsOrdered() {
		kind = KindNumberedList
	}
	container := b.withAlign(&Element{Kind: kind})
	b.listItems(n, container)
	return container
}

func (b *markdownBuilder) listItems(n *ast.List, container *Element) {
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		var inline []Node
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if l, ok := c.(*ast.List); ok {
				nested = append(nested, l)
				continue
			}
			if len(inline) > 0 {
				inline = append(inline, NewText(" "))
			}
			inline = append(inline, b.inlines(c)...)
		}
		for i, node := range inline {
			if el, ok := node.(*Element); ok && IsVoidKind(el.Kind) {
				inline[i] = NewLink(el.URL)
			}
		}
		container.Children = append(container.Children, NewElement(KindListItem, inline...))
		for _, l := range nested {
			b.listItems(l, container)
		}
	}
}

// inlineBlocks builds blocks of kind from inline content, lifting images out
// into blocks of their own.
func (b *markdownBuilder) inlineBlocks(kind Kind, nodes []Node) []*Element {
	var out []*Element
	var cur []Node
	flush := func() {
		if len(cur) > 0 {
			out = append(out, b.withAlign(NewElement(kind, cur...)))
			cur = nil
		}
	}
	for _, node := range nodes {
		if el, ok := node.(*Element); ok && IsVoidKind(el.Kind) {
			flush()
			out = append(out, el)
			continue
		}
		cur = append(cur, node)
	}
	flush()
	if len(out) == 0 {
		out = append(out, b.withAlign(NewElement(kind)))
	}
	return out
}

func (b *markdownBuilder) withAlign(el *Element) *Element {
	el.Align = b.align
	return el
}

func (b *markdownBuilder) inlines(n ast.Node) []Node {
	var out []Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, b.inline(c)...)
	}
	return out
}

func (b *markdownBuilder) inline(n ast.Node) []Node {
	switch n := n.(type) {
	case *ast.Text:
		value := n.Segment.Value(b.source)
		content := string(value)
		if !n.IsRaw() {
			content = unescapeText(value)
		}
		if n.SoftLineBreak() || n.HardLineBreak() {
			content += " "
		}
		return []Node{b.leaf(content)}
	case *ast.String:
		return []Node{b.leaf(string(n.Value))}
	case *ast.Emphasis:
		saved := b.marks
		if n.Level >= 2 {
			b.marks.Bold = true
		} else {
			b.marks.Italic = true
		}
		out := b.inlines(n)
		b.marks = saved
		return out
	case *ast.Link:
		return []Node{NewLink(string(n.Destination), b.inlines(n)...)}
	case *ast.AutoLink:
		return []Node{NewLink(string(n.URL(b.source)), b.leaf(string(n.Label(b.source))))}
	case *ast.Image:
		return []Node{NewImage(string(n.Destination))}
	case *ast.RawHTML:
		return b.rawHTML(n)
	}
	return b.inlines(n)
}

func (b *markdownBuilder) leaf(s string) *Leaf {
	l := b.marks
	l.Text = s
	return &l
}

func (b *markdownBuilder) rawHTML(n *ast.RawHTML) []Node {
	var sb strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		sb.Write(seg.Value(b.source))
	}
	tag := strings.ToLower(strings.TrimSpace(sb.String()))

	switch {
	case tag == "<u>":
		b.tagMark = append(b.tagMark, b.marks)
		b.marks.Underline = true
	case strings.HasPrefix(tag, "<span"):
		b.tagMark = append(b.tagMark, b.marks)
		if m := styleAttr.FindStringSubmatch(sb.String()); m != nil {
			ParseStyle(m[1]).ApplyStyle(&b.marks)
		}
	case tag == "</u>" || tag == "</span>":
		if len(b.tagMark) > 0 {
			b.marks = b.tagMark[len(b.tagMark)-1]
			b.tagMark = b.tagMark[:len(b.tagMark)-1]
		}
	case strings.HasPrefix(tag, "<br"):
		return []Node{b.leaf(" ")}
	}
	return nil
}
