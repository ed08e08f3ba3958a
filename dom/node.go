package dom

import (
	"strings"
)

// Node represents a node in the DOM tree. Document and Element are views over
// the same struct; the type-specific data pointer that is set depends on nodeType.
type Node struct {
	nodeType NodeType
	nodeName string
	ownerDoc *Document

	parentNode  *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Character data for Text and Comment nodes, the name for DocumentType nodes.
	data string

	elementData  *elementData
	documentData *documentData
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName  string
	tagName    string
	attributes []Attr
}

// documentData holds data specific to Document nodes.
type documentData struct {
	contentType string
	observers   []*observerEntry
}

// newNode creates a new node with the given type and name.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	return &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
// For text nodes, this is "#text".
// For comments, this is "#comment".
// For documents, this is "#document".
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the character data of Text and Comment nodes and the empty
// string for everything else.
func (n *Node) NodeValue() string {
	switch n.nodeType {
	case TextNode, CommentNode:
		return n.data
	}
	return ""
}

// OwnerDocument returns the document this node belongs to.
// For a Document it returns nil, as in the DOM.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent element of this node, or nil if the parent
// is not an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// AsElement returns n as an Element, or nil if it is not one.
func (n *Node) AsElement() *Element {
	if n.nodeType == ElementNode {
		return (*Element)(n)
	}
	return nil
}

// FirstChild returns the first child of this node.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child of this node.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// NextSibling returns the next sibling of this node.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// ChildNodes returns a snapshot of the children of this node in tree order.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for child := n.firstChild; child != nil; child = child.nextSibling {
		children = append(children, child)
	}
	return children
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return ""
	case TextNode, CommentNode:
		return n.data
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.data)
		case ElementNode:
			child.collectTextContent(sb)
		}
	}
}

// SetTextContent sets the text content of the node.
// For elements this replaces all children with a single text node.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return
	case TextNode, CommentNode:
		n.data = value
	default:
		for n.firstChild != nil {
			n.RemoveChild(n.firstChild)
		}
		if value != "" && n.ownerDoc != nil {
			n.AppendChild(n.ownerDoc.CreateTextNode(value))
		}
	}
}

// Contains returns true if other is an inclusive descendant of this node.
func (n *Node) Contains(other *Node) bool {
	for node := other; node != nil; node = node.parentNode {
		if node == n {
			return true
		}
	}
	return false
}

// AppendChild adds a node to the end of the list of children of this node.
// For error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a node to the end of the list of children of this node.
// Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	if err := n.validatePreInsertion(child); err != nil {
		return nil, err
	}
	if child.parentNode != nil {
		child.parentNode.RemoveChild(child)
	}
	n.appendInternal(child)
	notifyChildListMutation(n, []*Node{child}, nil)
	return child, nil
}

// validatePreInsertion implements the pre-insertion checks from the DOM spec that
// apply to the node types this package supports.
// https://dom.spec.whatwg.org/#concept-node-pre-insert
func (n *Node) validatePreInsertion(node *Node) error {
	if node == nil {
		return ErrHierarchyRequest("The node to be inserted is null.")
	}
	if n.nodeType != DocumentNode && n.nodeType != ElementNode {
		return ErrHierarchyRequest("This node type does not support children.")
	}
	if node.Contains(n) {
		return ErrHierarchyRequest("The new child is an ancestor of the parent.")
	}
	switch node.nodeType {
	case DocumentNode:
		return ErrHierarchyRequest("A document cannot be inserted.")
	case TextNode:
		if n.nodeType == DocumentNode {
			return ErrHierarchyRequest("Text cannot be a child of a document.")
		}
	case DocumentTypeNode:
		if n.nodeType != DocumentNode {
			return ErrHierarchyRequest("A doctype can only be a child of a document.")
		}
	case ElementNode:
		if n.nodeType == DocumentNode && n.hasElementChild() {
			return ErrHierarchyRequest("A document can only have one document element.")
		}
	}
	return nil
}

func (n *Node) hasElementChild() bool {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return true
		}
	}
	return false
}

// appendInternal links child in as the last child of n without validation.
func (n *Node) appendInternal(child *Node) {
	child.parentNode = n
	if n.nodeType == DocumentNode {
		adoptNode(child, (*Document)(n))
	} else if n.ownerDoc != nil && child.ownerDoc != n.ownerDoc {
		adoptNode(child, n.ownerDoc)
	}

	child.prevSibling = n.lastChild
	child.nextSibling = nil
	if n.lastChild != nil {
		n.lastChild.nextSibling = child
	} else {
		n.firstChild = child
	}
	n.lastChild = child
}

// adoptNode recursively sets the ownerDocument for a node and its descendants.
func adoptNode(node *Node, doc *Document) {
	node.ownerDoc = doc
	for child := node.firstChild; child != nil; child = child.nextSibling {
		adoptNode(child, doc)
	}
}

// RemoveChild removes a child node from this node.
// For error-returning version, use RemoveChildWithError.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node from this node.
// Returns an error if the child is not a child of this node.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil {
		return nil, ErrNotFound("The node to be removed is null.")
	}
	if child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}

	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil

	notifyChildListMutation(n, nil, []*Node{child})
	return child, nil
}
