package reporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"a < b", "a &lt; b"},
		{"a > b", "a &gt; b"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"&amp;", "&amp;amp;"},
		{`<a href="x">&</a>`, "&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;"},
		{"it's", "it's"},
		{"✗ ünïcödé", "✗ ünïcödé"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeHTML(tt.in), "EscapeHTML(%q)", tt.in)
	}
}

func TestEscapeHTML_RoundTrip(t *testing.T) {
	inputs := []string{
		`expected <b> & "c"`,
		"&lt; already escaped &gt;",
		"<<>>&&\"\"",
		"TypeError: Cannot read property 'x' of undefined",
		strings.Repeat("<&>", 100),
	}

	for _, in := range inputs {
		out := EscapeHTML(in)
		assert.NotContains(t, out, "<")
		assert.NotContains(t, out, ">")
		assert.NotContains(t, out, `"`)
		assert.Equal(t, in, html.UnescapeString(out))
	}
}
