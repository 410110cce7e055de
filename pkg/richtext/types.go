// Package richtext holds the listing description document: a tree of typed
// elements bottoming out in formatted text leaves, plus the pure functions
// that toggle formatting on it and convert it to and from its wire form.
package richtext

import (
	"encoding/json"
	"fmt"
)

// Kind is the element type tag stored in the "type" field on the wire.
type Kind string

const (
	KindParagraph    Kind = "paragraph"
	KindHeading      Kind = "heading"
	KindListItem     Kind = "list-item"
	KindNumberedList Kind = "numbered-list"
	KindBulletedList Kind = "bulleted-list"
	KindLink         Kind = "link"
	KindImage        Kind = "image"
)

// Effective returns the kind used for editing and rendering. Unknown tags
// (legacy or future data) behave as paragraphs.
func (k Kind) Effective() Kind {
	switch k {
	case KindParagraph, KindHeading, KindListItem, KindNumberedList, KindBulletedList, KindLink, KindImage:
		return k
	default:
		return KindParagraph
	}
}

// IsVoidKind reports whether elements of this kind are atomic: their only
// child is an empty placeholder leaf and no cursor may be placed inside them.
func IsVoidKind(k Kind) bool {
	return k.Effective() == KindImage
}

// IsListKind reports whether k is a list container.
func IsListKind(k Kind) bool {
	switch k.Effective() {
	case KindNumberedList, KindBulletedList:
		return true
	}
	return false
}

// IsInlineKind reports whether k flows inside a block's text.
func IsInlineKind(k Kind) bool {
	return k.Effective() == KindLink
}

// Align is the optional text alignment of an element.
type Align string

const (
	AlignNone    Align = ""
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// Alignments lists the toolbar alignment options in display order.
var Alignments = []Align{AlignLeft, AlignCenter, AlignRight, AlignJustify}

func (a Align) Valid() bool {
	switch a {
	case AlignNone, AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

// IsAlignFormat reports whether a toolbar format names an alignment rather
// than a block kind.
func IsAlignFormat(format string) bool {
	a := Align(format)
	return a != AlignNone && a.Valid()
}

// Node is either an *Element or a *Leaf.
type Node interface {
	isNode()
}

// Element is a structural node. URL is only meaningful for links and images.
type Element struct {
	Kind     Kind
	Align    Align
	URL      string
	Children []Node
}

// Leaf is a run of text sharing one set of marks. Zero values mean "not set".
type Leaf struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Color     string `json:"color,omitempty"`
	FontSize  string `json:"fontSize,omitempty"`
}

func (*Element) isNode() {}
func (*Leaf) isNode()    {}

// Document is the ordered list of top-level elements of one description.
type Document []*Element

// NewText returns a plain leaf.
func NewText(text string) *Leaf {
	return &Leaf{Text: text}
}

// NewElement returns an element of the given kind. An element created
// without children gets the single empty leaf every element needs.
func NewElement(kind Kind, children ...Node) *Element {
	if len(children) == 0 {
		children = []Node{&Leaf{}}
	}
	return &Element{Kind: kind, Children: children}
}

func NewParagraph(children ...Node) *Element {
	return NewElement(KindParagraph, children...)
}

func NewLink(url string, children ...Node) *Element {
	if len(children) == 0 {
		children = []Node{NewText(url)}
	}
	el := NewElement(KindLink, children...)
	el.URL = url
	return el
}

func NewImage(url string) *Element {
	return &Element{Kind: KindImage, URL: url, Children: []Node{&Leaf{}}}
}

// NewDocument returns the canonical empty document: one paragraph holding
// one empty leaf.
func NewDocument() Document {
	return Document{NewParagraph()}
}

type elementWire struct {
	Type     Kind   `json:"type"`
	Align    Align  `json:"align,omitempty"`
	URL      string `json:"url,omitempty"`
	Children []Node `json:"children"`
}

func (e *Element) MarshalJSON() ([]byte, error) {
	children := e.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(elementWire{
		Type:     e.Kind,
		Align:    e.Align,
		URL:      e.URL,
		Children: children,
	})
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     Kind               `json:"type"`
		Align    Align              `json:"align"`
		URL      string             `json:"url"`
		Children *[]json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Children == nil {
		return fmt.Errorf("element %q has no children", raw.Type)
	}

	children := make([]Node, 0, len(*raw.Children))
	for i, child := range *raw.Children {
		node, err := decodeNode(child)
		if err != nil {
			return fmt.Errorf("children[%d]: %w", i, err)
		}
		children = append(children, node)
	}

	*e = Element{
		Kind:     raw.Type,
		Align:    raw.Align,
		URL:      raw.URL,
		Children: children,
	}
	return nil
}

// decodeNode tells elements and leaves apart by shape: anything carrying a
// type or children is an element, anything carrying only text is a leaf.
func decodeNode(data json.RawMessage) (Node, error) {
	var probe struct {
		Type     *string          `json:"type"`
		Children *json.RawMessage `json:"children"`
		Text     *string          `json:"text"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch {
	case probe.Type != nil || probe.Children != nil:
		el := &Element{}
		if err := el.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return el, nil
	case probe.Text != nil:
		leaf := &Leaf{}
		if err := json.Unmarshal(data, leaf); err != nil {
			return nil, err
		}
		return leaf, nil
	default:
		return nil, fmt.Errorf("node is neither an element nor a text leaf")
	}
}
