// Package render turns a description document into read-only HTML for the
// public listing pages.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"estate-listing-be/pkg/richtext"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnsupportedInput is returned for inputs that are neither a document nor
// its serialized form.
var ErrUnsupportedInput = errors.New("unsupported render input")

// ErrorClass is the default class of the element shown for unreadable input.
const ErrorClass = "richtext-error"

var messages = map[string]string{
	"id": "Deskripsi properti tidak dapat ditampilkan.",
	"en": "The property description could not be displayed.",
}

const defaultLocale = "id"

// nbsp keeps an empty paragraph one line tall.
const nbsp = "\u00a0"

var (
	linkSchemes  = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true}
	imageSchemes = map[string]bool{"http": true, "https": true}
)

type Option func(*Renderer)

// WithLocale selects the language of the error notice. Unknown locales fall
// back to Indonesian.
func WithLocale(locale string) Option {
	return func(r *Renderer) {
		if _, ok := messages[locale]; ok {
			r.locale = locale
		}
	}
}

func WithErrorClass(class string) Option {
	return func(r *Renderer) {
		if class != "" {
			r.errorClass = class
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer is stateless after construction and safe for concurrent use.
type Renderer struct {
	locale     string
	errorClass string
	logger     *zap.Logger
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		locale:     defaultLocale,
		errorClass: ErrorClass,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = New()

// Render renders input with the default renderer.
func Render(input interface{}) template.HTML {
	return defaultRenderer.Render(input)
}

// Render accepts a richtext.Document, a []*richtext.Element, or the
// serialized form as string, []byte or json.RawMessage. Input that cannot be
// read renders as an error notice; Render never panics.
func (r *Renderer) Render(input interface{}) (out template.HTML) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("render panicked", zap.Any("panic", rec))
			out = r.errorNotice()
		}
	}()

	doc, err := toDocument(input)
	if err != nil {
		r.logger.Warn("description not renderable", zap.Error(err))
		return r.errorNotice()
	}

	rendered, err := r.RenderDocument(doc)
	if err != nil {
		r.logger.Warn("description not renderable", zap.Error(err))
		return r.errorNotice()
	}
	return rendered
}

// RenderDocument renders an already parsed document.
func (r *Renderer) RenderDocument(doc richtext.Document) (template.HTML, error) {
	var sb strings.Builder
	for _, el := range doc {
		if el == nil {
			continue
		}
		for _, n := range r.element(el) {
			if err := html.Render(&sb, n); err != nil {
				return "", fmt.Errorf("render element: %w", err)
			}
		}
	}
	return template.HTML(sb.String()), nil
}

func toDocument(input interface{}) (richtext.Document, error) {
	switch v := input.(type) {
	case nil:
		return richtext.NewDocument(), nil
	case richtext.Document:
		return v, nil
	case []*richtext.Element:
		return richtext.Document(v), nil
	case string:
		return richtext.Deserialize(v)
	case []byte:
		return richtext.DeserializeBytes(v)
	case json.RawMessage:
		return richtext.DeserializeBytes(v)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
}

func (r *Renderer) errorNotice() template.HTML {
	msg := messages[r.locale]
	n := newElement(atom.Div,
		html.Attribute{Key: "class", Val: r.errorClass},
		html.Attribute{Key: "role", Val: "alert"},
	)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: msg})

	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return template.HTML(template.HTMLEscapeString(msg))
	}
	return template.HTML(sb.String())
}

// element returns the nodes for el. Most kinds map to one node; a link with
// an unsafe URL contributes its children only.
func (r *Renderer) element(el *richtext.Element) []*html.Node {
	var n *html.Node
	switch el.Kind.Effective() {
	case richtext.KindHeading:
		n = newElement(atom.H2)
	case richtext.KindNumberedList:
		n = newElement(atom.Ol)
	case richtext.KindBulletedList:
		n = newElement(atom.Ul)
	case richtext.KindListItem:
		n = newElement(atom.Li)
	case richtext.KindLink:
		if !safeURL(el.URL, linkSchemes) {
			return r.children(el.Children)
		}
		n = newElement(atom.A,
			html.Attribute{Key: "href", Val: el.URL},
			html.Attribute{Key: "target", Val: "_blank"},
			html.Attribute{Key: "rel", Val: "noopener noreferrer"},
		)
	case richtext.KindImage:
		return r.image(el)
	default:
		n = newElement(atom.P)
		if !hasContent(el.Children) {
			setAlign(n, el.Align)
			n.AppendChild(&html.Node{Type: html.TextNode, Data: nbsp})
			return []*html.Node{n}
		}
	}

	setAlign(n, el.Align)
	for _, c := range r.children(el.Children) {
		n.AppendChild(c)
	}
	return []*html.Node{n}
}

func (r *Renderer) children(children []richtext.Node) []*html.Node {
	var out []*html.Node
	for _, child := range children {
		switch c := child.(type) {
		case *richtext.Element:
			if c != nil {
				out = append(out, r.element(c)...)
			}
		case *richtext.Leaf:
			if c != nil && c.Text != "" {
				out = append(out, leaf(c))
			}
		}
	}
	return out
}

func (r *Renderer) image(el *richtext.Element) []*html.Node {
	if !safeURL(el.URL, imageSchemes) {
		return nil
	}
	wrapper := newElement(atom.Div, html.Attribute{Key: "style", Val: "text-align:center"})
	if el.Align.Valid() && el.Align != richtext.AlignNone {
		wrapper.Attr[0].Val = "text-align:" + string(el.Align)
	}
	wrapper.AppendChild(newElement(atom.Img,
		html.Attribute{Key: "src", Val: el.URL},
		html.Attribute{Key: "alt", Val: ""},
		html.Attribute{Key: "style", Val: "max-width:100%"},
	))
	return []*html.Node{wrapper}
}

// leaf renders the marks stored on l and nothing else.
func leaf(l *richtext.Leaf) *html.Node {
	text := &html.Node{Type: html.TextNode, Data: l.Text}
	style := richtext.LeafStyle(l)
	if len(style) == 0 {
		return text
	}
	span := newElement(atom.Span, html.Attribute{Key: "style", Val: style.String()})
	span.AppendChild(text)
	return span
}

func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func setAlign(n *html.Node, align richtext.Align) {
	if align == richtext.AlignNone || !align.Valid() {
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: "text-align:" + string(align)})
}

func hasContent(children []richtext.Node) bool {
	for _, child := range children {
		switch c := child.(type) {
		case *richtext.Leaf:
			if c != nil && c.Text != "" {
				return true
			}
		case *richtext.Element:
			if c != nil && (richtext.IsVoidKind(c.Kind) || hasContent(c.Children)) {
				return true
			}
		}
	}
	return false
}

// safeURL accepts relative URLs and absolute ones whose scheme is allowed.
func safeURL(raw string, schemes map[string]bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return true
	}
	return schemes[strings.ToLower(u.Scheme)]
}
