package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element represents an element in the DOM tree.
type Element Node

// Attr is a single name/value attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeType returns ElementNode (1).
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// TagName returns the tag name of the element, uppercased for HTML elements.
func (e *Element) TagName() string {
	return e.elementData.tagName
}

// LocalName returns the local name of the element.
func (e *Element) LocalName() string {
	return e.elementData.localName
}

// Id returns the element's id attribute.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the element's id attribute.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// Attributes returns a copy of the element's attributes in insertion order.
func (e *Element) Attributes() []Attr {
	attrs := make([]Attr, len(e.elementData.attributes))
	copy(attrs, e.elementData.attributes)
	return attrs
}

// GetAttribute returns the value of the named attribute, or "" if absent.
// HTML attribute names are matched case-insensitively.
func (e *Element) GetAttribute(name string) string {
	if i := e.attributeIndex(name); i >= 0 {
		return e.elementData.attributes[i].Value
	}
	return ""
}

// HasAttribute returns true if the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	return e.attributeIndex(name) >= 0
}

// SetAttribute sets the value of the named attribute.
// For error handling, use SetAttributeWithError.
func (e *Element) SetAttribute(name, value string) {
	_ = e.SetAttributeWithError(name, value)
}

// SetAttributeWithError sets the value of the named attribute.
// Returns an InvalidCharacterError if name is not a valid attribute name.
func (e *Element) SetAttributeWithError(name, value string) error {
	if !IsValidAttributeName(name) {
		return ErrInvalidCharacter("The string contains invalid characters.")
	}
	name = strings.ToLower(name)
	if i := e.attributeIndex(name); i >= 0 {
		e.elementData.attributes[i].Value = value
		return nil
	}
	e.elementData.attributes = append(e.elementData.attributes, Attr{Name: name, Value: value})
	return nil
}

// RemoveAttribute removes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	if i := e.attributeIndex(name); i >= 0 {
		attrs := e.elementData.attributes
		e.elementData.attributes = append(attrs[:i], attrs[i+1:]...)
	}
}

func (e *Element) attributeIndex(name string) int {
	name = strings.ToLower(name)
	for i, attr := range e.elementData.attributes {
		if attr.Name == name {
			return i
		}
	}
	return -1
}

// IsValidAttributeName reports whether name can be used as an attribute name:
// non-empty and free of whitespace, quotes, '>', '/', '=' and control characters.
func IsValidAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r <= 0x20, r == 0x7f:
			return false
		case r == '"', r == '\'', r == '>', r == '/', r == '=':
			return false
		}
	}
	return true
}

// Children returns the element children of this element.
func (e *Element) Children() []*Element {
	var children []*Element
	for child := e.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			children = append(children, (*Element)(child))
		}
	}
	return children
}

// ChildElementCount returns the number of element children.
func (e *Element) ChildElementCount() int {
	return len(e.Children())
}

// AppendChild appends child to this element. See Node.AppendChild.
func (e *Element) AppendChild(child *Node) *Node {
	return e.AsNode().AppendChild(child)
}

// TextContent returns the text content of the element.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent sets the text content of the element.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// InnerHTML returns the HTML serialization of the element's children.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for child := e.AsNode().firstChild; child != nil; child = child.nextSibling {
		serializeNode(child, &sb)
	}
	return sb.String()
}

// SetInnerHTML replaces the element's children with the result of parsing
// htmlContent as a fragment in the context of this element.
func (e *Element) SetInnerHTML(htmlContent string) error {
	doc := e.AsNode().ownerDoc
	if doc == nil {
		return ErrInvalidCharacter("element has no owner document")
	}

	nodes, err := parseHTMLFragment(htmlContent, e)
	if err != nil {
		return err
	}

	for e.AsNode().firstChild != nil {
		e.AsNode().RemoveChild(e.AsNode().firstChild)
	}
	for _, node := range nodes {
		e.AsNode().AppendChild(node)
	}
	return nil
}

// OuterHTML returns the HTML of the element including the element itself.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	serializeNode(e.AsNode(), &sb)
	return sb.String()
}

// parseHTMLFragment parses an HTML fragment in the context of an element.
func parseHTMLFragment(htmlContent string, context *Element) ([]*Node, error) {
	tagName := strings.ToLower(context.LocalName())
	contextNode := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tagName)),
		Data:     tagName,
	}

	nodes, err := html.ParseFragment(strings.NewReader(htmlContent), contextNode)
	if err != nil {
		return nil, err
	}

	result := make([]*Node, 0, len(nodes))
	doc := context.AsNode().ownerDoc
	for _, n := range nodes {
		if node := convertHTMLNode(n, doc); node != nil {
			result = append(result, node)
		}
	}
	return result, nil
}
