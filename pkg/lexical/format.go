package lexical

import "strings"

// FormatFlags is the text format bitmask stored on text nodes.
type FormatFlags uint32

// Constants for Text Format Bitmask
const (
	FormatBold          FormatFlags = 1
	FormatItalic        FormatFlags = 1 << 1
	FormatStrikethrough FormatFlags = 1 << 2
	FormatUnderline     FormatFlags = 1 << 3
	FormatCode          FormatFlags = 1 << 4
	FormatSubscript     FormatFlags = 1 << 5
	FormatSuperscript   FormatFlags = 1 << 6
	FormatHighlight     FormatFlags = 1 << 7

	formatAll = FormatBold | FormatItalic | FormatStrikethrough | FormatUnderline |
		FormatCode | FormatSubscript | FormatSuperscript | FormatHighlight
)

var formatNames = map[string]FormatFlags{
	"bold":          FormatBold,
	"italic":        FormatItalic,
	"strikethrough": FormatStrikethrough,
	"underline":     FormatUnderline,
	"code":          FormatCode,
	"subscript":     FormatSubscript,
	"superscript":   FormatSuperscript,
	"highlight":     FormatHighlight,
}

// ParseFormat maps a format name ("bold", "italic", ...) to its flag.
func ParseFormat(name string) (FormatFlags, bool) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

func (f FormatFlags) Has(flag FormatFlags) bool {
	return f&flag == flag
}

// Toggle flips flag. Subscript and superscript exclude each other.
func (f FormatFlags) Toggle(flag FormatFlags) FormatFlags {
	if f.Has(flag) {
		return f &^ flag
	}
	return f.With(flag)
}

// With sets flag, clearing the opposite script flag if needed.
func (f FormatFlags) With(flag FormatFlags) FormatFlags {
	switch flag {
	case FormatSubscript:
		f &^= FormatSuperscript
	case FormatSuperscript:
		f &^= FormatSubscript
	}
	return f | flag
}

// Valid reports whether only known bits are set.
func (f FormatFlags) Valid() bool {
	return f&^formatAll == 0
}

// formatLayer pairs a flag with the element that presents it.
type formatLayer struct {
	flag FormatFlags
	tag  string
}

// formatOrder lists the wrappers from innermost to outermost.
// Code is always innermost and strikethrough always outermost.
var formatOrder = []formatLayer{
	{FormatCode, "code"},
	{FormatSubscript, "sub"},
	{FormatSuperscript, "sup"},
	{FormatHighlight, "mark"},
	{FormatBold, "strong"},
	{FormatItalic, "em"},
	{FormatUnderline, "u"},
	{FormatStrikethrough, "s"},
}

// ApplyFormat wraps text in one element per set flag, in formatOrder.
// With no flags the bare text node is returned.
func ApplyFormat(text string, flags FormatFlags) *OutputNode {
	out := TextOutput(text)
	for _, layer := range formatOrder {
		if flags&layer.flag != 0 {
			out = Element(layer.tag, out)
		}
	}
	return out
}
