package dom

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Document represents the entire HTML document.
type Document Node

// NewDocument creates a new empty HTML Document.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{
		contentType: "text/html",
	}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// NewHTMLDocument creates a document with the minimal
// <!DOCTYPE html><html><head><title/></head><body></body></html> skeleton.
// The title element is omitted when title is empty.
func NewHTMLDocument(title string) *Document {
	doc := NewDocument()
	doctype := newNode(DocumentTypeNode, "html", doc)
	doctype.data = "html"
	doc.AsNode().AppendChild(doctype)

	htmlEl := doc.CreateElement("html")
	head := doc.CreateElement("head")
	if title != "" {
		titleEl := doc.CreateElement("title")
		titleEl.SetTextContent(title)
		head.AppendChild(titleEl.AsNode())
	}
	htmlEl.AppendChild(head.AsNode())
	htmlEl.AppendChild(doc.CreateElement("body").AsNode())
	doc.AsNode().AppendChild(htmlEl.AsNode())
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// NodeType returns DocumentNode (9).
func (d *Document) NodeType() NodeType {
	return DocumentNode
}

// ContentType returns the MIME type of the document.
func (d *Document) ContentType() string {
	return d.AsNode().documentData.contentType
}

// IsHTML returns true if this is an HTML document.
func (d *Document) IsHTML() bool {
	return d.ContentType() == "text/html"
}

// DocumentElement returns the root element of the document.
func (d *Document) DocumentElement() *Element {
	for child := d.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Head returns the <head> element.
func (d *Document) Head() *Element {
	return d.documentElementChild("head")
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.documentElementChild("body")
}

func (d *Document) documentElementChild(localName string) *Element {
	docEl := d.DocumentElement()
	if docEl == nil {
		return nil
	}
	for _, el := range docEl.Children() {
		if el.LocalName() == localName {
			return el
		}
	}
	return nil
}

// Title returns the text of the first <title> element in <head>.
func (d *Document) Title() string {
	head := d.Head()
	if head == nil {
		return ""
	}
	for _, el := range head.Children() {
		if el.LocalName() == "title" {
			return strings.TrimSpace(el.TextContent())
		}
	}
	return ""
}

// CreateElement creates a new element with the given tag name.
// This method ignores errors for backwards compatibility. Use CreateElementWithError
// for proper error handling.
func (d *Document) CreateElement(tagName string) *Element {
	el, _ := d.CreateElementWithError(tagName)
	return el
}

// CreateElementWithError creates a new element with the given tag name.
// Returns an InvalidCharacterError if the tag name is not a valid name.
func (d *Document) CreateElementWithError(tagName string) (*Element, error) {
	if !isValidElementName(tagName) {
		return nil, ErrInvalidCharacter("The string contains invalid characters.")
	}
	localName := tagName
	displayName := tagName
	if d.IsHTML() {
		localName = strings.ToLower(tagName)
		displayName = strings.ToUpper(tagName)
	}
	node := newNode(ElementNode, displayName, d)
	node.elementData = &elementData{
		localName: localName,
		tagName:   displayName,
	}
	return (*Element)(node), nil
}

func isValidElementName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != ':' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-._:", r) {
			return false
		}
	}
	return true
}

// CreateTextNode creates a new Text node.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.data = data
	return node
}

// CreateComment creates a new Comment node.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.data = data
	return node
}

// GetElementById returns the first element in tree order with the given id.
// Returns nil if id is empty, since elements with an empty id attribute are not
// considered to have an ID.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	return findElementById(d.AsNode(), id)
}

func findElementById(node *Node, id string) *Element {
	for child := node.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType != ElementNode {
			continue
		}
		el := (*Element)(child)
		if el.Id() == id {
			return el
		}
		if found := findElementById(child, id); found != nil {
			return found
		}
	}
	return nil
}

// GetElementsByTagName returns all descendant elements with the given local name
// in tree order. "*" matches every element.
func (d *Document) GetElementsByTagName(localName string) []*Element {
	var result []*Element
	localName = strings.ToLower(localName)
	var walk func(*Node)
	walk = func(n *Node) {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			if child.nodeType != ElementNode {
				continue
			}
			el := (*Element)(child)
			if localName == "*" || el.LocalName() == localName {
				result = append(result, el)
			}
			walk(child)
		}
	}
	walk(d.AsNode())
	return result
}

// OuterHTML serializes the whole document, including the doctype.
func (d *Document) OuterHTML() string {
	var sb strings.Builder
	for child := d.AsNode().firstChild; child != nil; child = child.nextSibling {
		serializeNode(child, &sb)
	}
	return sb.String()
}

// ParseHTML parses an HTML string and returns a Document.
func ParseHTML(htmlContent string) (*Document, error) {
	doc := NewDocument()

	netDoc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	for c := netDoc.FirstChild; c != nil; c = c.NextSibling {
		if node := convertHTMLNode(c, doc); node != nil {
			doc.AsNode().AppendChild(node)
		}
	}
	return doc, nil
}

// convertHTMLNode converts an html.Node subtree into nodes owned by doc.
// Node types this package does not model are dropped.
func convertHTMLNode(n *html.Node, doc *Document) *Node {
	var node *Node

	switch n.Type {
	case html.TextNode:
		return doc.CreateTextNode(n.Data)
	case html.CommentNode:
		return doc.CreateComment(n.Data)
	case html.DoctypeNode:
		node = newNode(DocumentTypeNode, n.Data, doc)
		node.data = n.Data
		return node
	case html.ElementNode:
		el, err := doc.CreateElementWithError(n.Data)
		if err != nil {
			return nil
		}
		for _, attr := range n.Attr {
			el.SetAttribute(attr.Key, attr.Val)
		}
		node = el.AsNode()
	default:
		return nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convertHTMLNode(c, doc); child != nil {
			node.appendInternal(child)
		}
	}
	return node
}
