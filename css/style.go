package css

import "strings"

// Declaration is a single property: value pair from a style attribute.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// ParseInlineStyle parses the contents of a style attribute into declarations
// in source order. Later declarations of the same property replace earlier ones
// in place, and malformed parts are skipped.
func ParseInlineStyle(style string) []Declaration {
	var decls []Declaration
	for _, part := range strings.Split(style, ";") {
		part = strings.TrimSpace(part)
		colonIdx := strings.Index(part, ":")
		if colonIdx <= 0 {
			continue
		}

		property := strings.ToLower(strings.TrimSpace(part[:colonIdx]))
		value := strings.TrimSpace(part[colonIdx+1:])
		if property == "" || value == "" {
			continue
		}

		important := false
		if idx := strings.LastIndex(value, "!"); idx >= 0 &&
			strings.EqualFold(strings.TrimSpace(value[idx+1:]), "important") {
			important = true
			value = strings.TrimSpace(value[:idx])
		}

		decl := Declaration{Property: property, Value: value, Important: important}
		replaced := false
		for i := range decls {
			if decls[i].Property == property {
				decls[i] = decl
				replaced = true
				break
			}
		}
		if !replaced {
			decls = append(decls, decl)
		}
	}
	return decls
}

// PropertyValue returns the value of property in style, or "" if it is not set.
func PropertyValue(style, property string) string {
	property = strings.ToLower(property)
	for _, d := range ParseInlineStyle(style) {
		if d.Property == property {
			return d.Value
		}
	}
	return ""
}
