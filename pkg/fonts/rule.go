package fonts

import (
	"fmt"
	"strings"
)

// SourceFormat is the only font format the pipeline emits.
const SourceFormat = "woff2"

// Rule is one injected @font-face rule. Marker names the pipeline that owns it.
type Rule struct {
	Marker string `json:"marker"`
	Family string `json:"family"`
	Weight int    `json:"weight"`
	Style  string `json:"style"`
	Source string `json:"source"`
}

// CSS renders the rule, prefixed with a comment carrying its marker.
func (r Rule) CSS() string {
	return fmt.Sprintf(
		"/* %s */\n@font-face {\n  font-family: \"%s\";\n  src: url(\"%s\") format(\"%s\");\n  font-weight: %d;\n  font-style: %s;\n  font-display: swap;\n}",
		r.Marker, r.Family, cssURL(r.Source), SourceFormat, r.Weight, r.Style,
	)
}

// Stylesheet joins rules into one CSS document.
func Stylesheet(rules []Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = r.CSS()
	}
	return strings.Join(parts, "\n\n")
}

var cssURLEscaper = strings.NewReplacer(`"`, `%22`, `\`, `%5C`, "\n", "", "\r", "")

func cssURL(u string) string {
	return cssURLEscaper.Replace(u)
}
