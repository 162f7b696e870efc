// Package editor holds the funnel page document model: a tree of styled
// elements and the reducer that applies editor actions to it.
package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ElementType identifies what an element renders as
type ElementType string

const (
	TypeBody        ElementType = "__body"
	TypeContainer   ElementType = "container"
	TypeSection     ElementType = "section"
	TypeTwoColumn   ElementType = "2Col"
	TypeThreeColumn ElementType = "3Col"
	TypeText        ElementType = "text"
	TypeLink        ElementType = "link"
	TypeVideo       ElementType = "video"
	TypeContactForm ElementType = "contactForm"
	TypePaymentForm ElementType = "paymentForm"
)

// BodyID is the id of the root element of every page
const BodyID = "__body"

// Leaf content keys
const (
	ContentHref      = "href"
	ContentInnerText = "innerText"
	ContentSrc       = "src"
)

// IsKnown reports whether t is one of the element types the editor renders
func (t ElementType) IsKnown() bool {
	switch t {
	case TypeBody, TypeContainer, TypeSection, TypeTwoColumn, TypeThreeColumn,
		TypeText, TypeLink, TypeVideo, TypeContactForm, TypePaymentForm:
		return true
	}
	return false
}

// HasLeafContent reports whether elements of this type carry a leaf object
// rather than a list of children
func (t ElementType) HasLeafContent() bool {
	return t == TypeText || t == TypeLink || t == TypeVideo
}

// Styles maps CSS property names (camelCase) to values
type Styles map[string]any

// Leaf is the content object of text, link and video elements
type Leaf map[string]any

// Content is either a Leaf or a list of child elements, never both
type Content struct {
	leaf     Leaf
	children []Element
	isLeaf   bool
}

// LeafContent wraps a leaf object
func LeafContent(l Leaf) Content {
	if l == nil {
		l = Leaf{}
	}
	return Content{leaf: l, isLeaf: true}
}

// ListContent wraps a list of children
func ListContent(children ...Element) Content {
	if children == nil {
		children = []Element{}
	}
	return Content{children: children}
}

// IsLeaf reports whether the content is a leaf object
func (c Content) IsLeaf() bool {
	return c.isLeaf
}

// Leaf returns the leaf object, or nil for list content
func (c Content) Leaf() Leaf {
	if !c.isLeaf {
		return nil
	}
	return c.leaf
}

// Children returns the children, or nil for leaf content
func (c Content) Children() []Element {
	if c.isLeaf {
		return nil
	}
	return c.children
}

func (c Content) clone() Content {
	if c.isLeaf {
		l := make(Leaf, len(c.leaf))
		for k, v := range c.leaf {
			l[k] = v
		}
		return Content{leaf: l, isLeaf: true}
	}
	children := make([]Element, len(c.children))
	for i := range c.children {
		children[i] = c.children[i].Clone()
	}
	return Content{children: children}
}

// MarshalJSON encodes list content as an array and leaf content as an object
func (c Content) MarshalJSON() ([]byte, error) {
	if c.isLeaf {
		if c.leaf == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(map[string]any(c.leaf))
	}
	if c.children == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.children)
}

// UnmarshalJSON decodes an array as children and an object as a leaf
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = ListContent()
	case data[0] == '[':
		var children []Element
		if err := json.Unmarshal(data, &children); err != nil {
			return err
		}
		*c = ListContent(children...)
	case data[0] == '{':
		var l Leaf
		if err := json.Unmarshal(data, &l); err != nil {
			return err
		}
		*c = LeafContent(l)
	default:
		return fmt.Errorf("element content must be an object or an array")
	}
	return nil
}

// Element is one node of the page tree
type Element struct {
	ID      string
	Name    string
	Type    ElementType // empty for the "nothing selected" element
	Styles  Styles
	Content Content
}

// EmptyElement is the selection placeholder when nothing is selected
func EmptyElement() Element {
	return Element{Styles: Styles{}, Content: ListContent()}
}

// NewBody returns the root element of a blank page
func NewBody() Element {
	return Element{
		ID:      BodyID,
		Name:    "Body",
		Type:    TypeBody,
		Styles:  Styles{},
		Content: ListContent(),
	}
}

// IsEmpty reports whether e is the empty selection
func (e Element) IsEmpty() bool {
	return e.ID == ""
}

// Clone deep-copies the element and its subtree
func (e Element) Clone() Element {
	styles := make(Styles, len(e.Styles))
	for k, v := range e.Styles {
		styles[k] = v
	}
	return Element{
		ID:      e.ID,
		Name:    e.Name,
		Type:    e.Type,
		Styles:  styles,
		Content: e.Content.clone(),
	}
}

type elementJSON struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Type    *ElementType `json:"type"`
	Styles  Styles       `json:"styles"`
	Content Content      `json:"content"`
}

// MarshalJSON encodes the element; an empty type is written as null
func (e Element) MarshalJSON() ([]byte, error) {
	v := elementJSON{
		ID:      e.ID,
		Name:    e.Name,
		Styles:  e.Styles,
		Content: e.Content,
	}
	if v.Styles == nil {
		v.Styles = Styles{}
	}
	if e.Type != "" {
		t := e.Type
		v.Type = &t
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes an element. Missing content defaults to an empty
// leaf for leaf types and an empty list otherwise.
func (e *Element) UnmarshalJSON(data []byte) error {
	var v struct {
		ID      string          `json:"id"`
		Name    string          `json:"name"`
		Type    *ElementType    `json:"type"`
		Styles  Styles          `json:"styles"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	out := Element{ID: v.ID, Name: v.Name, Styles: v.Styles}
	if v.Type != nil {
		out.Type = *v.Type
	}
	if out.Styles == nil {
		out.Styles = Styles{}
	}
	raw := bytes.TrimSpace(v.Content)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if out.Type.HasLeafContent() {
			out.Content = LeafContent(nil)
		} else {
			out.Content = ListContent()
		}
	} else if err := json.Unmarshal(raw, &out.Content); err != nil {
		return fmt.Errorf("element %q: %w", v.ID, err)
	}

	*e = out
	return nil
}

// ParseElements decodes a persisted page document. Blank input yields a
// blank page.
func ParseElements(raw string) ([]Element, error) {
	if len(bytes.TrimSpace([]byte(raw))) == 0 {
		return []Element{NewBody()}, nil
	}
	var elements []Element
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, fmt.Errorf("decode page content: %w", err)
	}
	if len(elements) == 0 {
		return []Element{NewBody()}, nil
	}
	return elements, nil
}

// cloneElements deep-copies a list of elements
func cloneElements(in []Element) []Element {
	out := make([]Element, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
