package lexical

import (
	"sort"
	"strings"
)

// StyleMap represents parsed CSS styles, keyed by camelCase property name.
type StyleMap map[string]string

// ParseInlineStyle parses a CSS style string into a map.
// Example: "color: #F97316; background-color: #BFDBFE;"
//
// Segments without a colon or with an empty key or value are dropped.
func ParseInlineStyle(styleStr string) StyleMap {
	styles := make(StyleMap)
	if strings.TrimSpace(styleStr) == "" {
		return styles
	}

	for _, part := range strings.Split(styleStr, ";") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.TrimSpace(kv[0])
		v := strings.TrimSpace(kv[1])
		if k == "" || v == "" {
			continue
		}
		styles[camelCase(k)] = v
	}
	return styles
}

// Get looks a property up by either its CSS or camelCase name.
func (s StyleMap) Get(property string) (string, bool) {
	v, ok := s[camelCase(property)]
	return v, ok
}

// String renders the map back to a CSS declaration list with kebab-case
// property names, sorted for stable output.
func (s StyleMap) String() string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, kebabCase(k)+": "+s[k])
	}
	return strings.Join(parts, "; ")
}

// Merge returns a copy of s with other's entries applied on top.
func (s StyleMap) Merge(other StyleMap) StyleMap {
	out := make(StyleMap, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// camelCase converts "background-color" to "backgroundColor".
// Custom properties ("--brand") are kept verbatim and a leading vendor
// hyphen capitalises the prefix: "-webkit-line-clamp" -> "WebkitLineClamp".
func camelCase(prop string) string {
	prop = strings.TrimSpace(prop)
	if strings.HasPrefix(prop, "--") {
		return prop
	}
	prop = strings.ToLower(prop)
	if !strings.Contains(prop, "-") {
		return prop
	}

	parts := strings.Split(prop, "-")
	var sb strings.Builder
	sb.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}

// kebabCase reverses camelCase.
func kebabCase(prop string) string {
	if strings.HasPrefix(prop, "--") {
		return prop
	}
	var sb strings.Builder
	for _, r := range prop {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
