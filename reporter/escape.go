package reporter

import "strings"

// Replacements run as if applied one after another in this order. Since only the
// first one introduces a character the others could match, a single-pass
// replacer gives the same result.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	">", "&gt;",
	"<", "&lt;",
	`"`, "&quot;",
)

// EscapeHTML escapes &, >, < and " so s can be embedded in markup as text.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
