package ui

import (
	"strings"

	"github.com/chrisuehlinger/beaterhtml/css"
	"github.com/chrisuehlinger/beaterhtml/dom"
)

// Run is a piece of entry text drawn in a single color.
type Run struct {
	Text string
	// Color is the run's CSS color. Colored is false for uncolored text, which
	// is drawn in the theme's foreground color.
	Color   css.Color
	Colored bool
}

// Line is one visual line of an entry.
type Line []Run

// EntryLines splits a report entry into lines of colored runs. <br> elements
// start a new line; the color of a run comes from the nearest style attribute
// with a parseable color on its ancestors inside the entry.
func EntryLines(li *dom.Element) []Line {
	lines := []Line{nil}
	var walk func(n *dom.Node, c css.Color, colored bool)
	walk = func(n *dom.Node, c css.Color, colored bool) {
		for _, child := range n.ChildNodes() {
			switch child.NodeType() {
			case dom.TextNode:
				text := strings.ReplaceAll(child.NodeValue(), "\n", " ")
				if text == "" {
					continue
				}
				last := len(lines) - 1
				lines[last] = appendRun(lines[last], Run{Text: text, Color: c, Colored: colored})
			case dom.ElementNode:
				el := child.AsElement()
				if el.LocalName() == "br" {
					lines = append(lines, nil)
					continue
				}
				cc, ok := c, colored
				if v := css.PropertyValue(el.GetAttribute("style"), "color"); v != "" {
					if parsed, valid := css.ParseColor(v); valid {
						cc, ok = parsed, true
					}
				}
				walk(child, cc, ok)
			}
		}
	}
	walk(li.AsNode(), css.Color{}, false)
	return lines
}

// appendRun merges adjacent runs of the same color.
func appendRun(line Line, run Run) Line {
	if n := len(line); n > 0 && line[n-1].Colored == run.Colored && line[n-1].Color == run.Color {
		line[n-1].Text += run.Text
		return line
	}
	return append(line, run)
}

// String returns the line's text.
func (l Line) String() string {
	var sb strings.Builder
	for _, r := range l {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
