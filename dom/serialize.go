package dom

import "strings"

// Escaping follows the HTML fragment serialization algorithm, which is what
// browsers produce for innerHTML/outerHTML.
// https://html.spec.whatwg.org/#serialising-html-fragments
var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attributeEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		`"`, "&quot;",
	)
)

// serializeNode serializes a node to HTML.
func serializeNode(n *Node, sb *strings.Builder) {
	switch n.nodeType {
	case TextNode:
		if parent := n.ParentElement(); parent != nil && isRawTextElement(parent.LocalName()) {
			sb.WriteString(n.data)
			return
		}
		sb.WriteString(textEscaper.Replace(n.data))
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.data)
		sb.WriteString("-->")
	case DocumentTypeNode:
		sb.WriteString("<!DOCTYPE ")
		sb.WriteString(n.data)
		sb.WriteString(">")
	case ElementNode:
		el := (*Element)(n)
		tagName := el.LocalName()
		sb.WriteString("<")
		sb.WriteString(tagName)
		for _, attr := range el.elementData.attributes {
			sb.WriteString(" ")
			sb.WriteString(attr.Name)
			sb.WriteString(`="`)
			sb.WriteString(attributeEscaper.Replace(attr.Value))
			sb.WriteString(`"`)
		}
		sb.WriteString(">")
		if isVoidElement(tagName) {
			return
		}
		for child := n.firstChild; child != nil; child = child.nextSibling {
			serializeNode(child, sb)
		}
		sb.WriteString("</")
		sb.WriteString(tagName)
		sb.WriteString(">")
	case DocumentNode:
		for child := n.firstChild; child != nil; child = child.nextSibling {
			serializeNode(child, sb)
		}
	}
}

// isVoidElement returns true if the element is a void element.
func isVoidElement(tagName string) bool {
	switch tagName {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// isRawTextElement returns true for elements whose text children are serialized
// without escaping.
func isRawTextElement(tagName string) bool {
	switch tagName {
	case "style", "script", "xmp", "iframe", "noembed", "noframes", "plaintext":
		return true
	}
	return false
}
