package lexical

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
)

// MalformedDocumentError reports content that is not valid JSON or does not
// describe a valid node tree.
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document: %v", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// ParseDocument decodes a serialized document.
// Any failure is returned as *MalformedDocumentError.
func ParseDocument(content string) (Document, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Document{}, &MalformedDocumentError{Err: errors.New("empty content")}
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	var top map[string]any
	if err := dec.Decode(&top); err != nil {
		return Document{}, &MalformedDocumentError{Err: fmt.Errorf("failed to parse document json: %w", err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Document{}, &MalformedDocumentError{Err: errors.New("unexpected data after document")}
	}

	rawRoot, ok := asPortable(top["root"])
	if !ok {
		return Document{}, &MalformedDocumentError{Err: &MalformedNodeError{Kind: KindRoot, Field: "root", Path: "$"}}
	}

	root, err := FromPortable(rawRoot)
	if err != nil {
		return Document{}, &MalformedDocumentError{Err: err}
	}
	if root.Kind != KindRoot {
		return Document{}, &MalformedDocumentError{Err: &MalformedNodeError{
			Kind: root.Kind, Field: "kind", Path: "root", Reason: "must be \"root\"",
		}}
	}
	return Document{Root: root}, nil
}

// Serialize encodes d as {"root": {...}}. Object keys are emitted in sorted
// order, so equal documents always serialize to identical strings.
func (d Document) Serialize() (string, error) {
	root := d.Root
	if root.Kind == "" {
		root.Kind = KindRoot
	}
	b, err := json.Marshal(map[string]any{"root": ToPortable(root)})
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return string(b), nil
}

// Equal reports structural equality. A missing version equals
// CurrentVersion and nil child lists equal empty ones, except on unknown
// kinds where a present but empty list is kept.
func Equal(a, b Node) bool {
	if a.Kind != b.Kind || normVersion(a.Version) != normVersion(b.Version) {
		return false
	}
	if !a.Kind.Known() && (a.Children == nil) != (b.Children == nil) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}

	ac, bc := a, b
	ac.Children, bc.Children = nil, nil
	ac.Version, bc.Version = 0, 0
	if len(ac.Extra) == 0 {
		ac.Extra = nil
	}
	if len(bc.Extra) == 0 {
		bc.Extra = nil
	}
	return reflect.DeepEqual(ac, bc)
}

// DocumentsEqual reports structural equality of two documents.
func DocumentsEqual(a, b Document) bool {
	return Equal(a.Root, b.Root)
}

func normVersion(v int) int {
	if v <= 0 {
		return CurrentVersion
	}
	return v
}

// Walk visits n and its descendants depth-first. path holds child indexes
// from n. Returning false skips the children of the visited node.
func Walk(n Node, fn func(node Node, path []int) bool) {
	walk(n, nil, fn)
}

func walk(n Node, path []int, fn func(Node, []int) bool) {
	if !fn(n, path) {
		return
	}
	for i, child := range n.Children {
		childPath := make([]int, len(path)+1)
		copy(childPath, path)
		childPath[len(path)] = i
		walk(child, childPath, fn)
	}
}

// TextContent extracts the plain text of a document: blocks are separated
// by blank lines, list items and line breaks by newlines.
func TextContent(d Document) string {
	var blocks []string
	for _, block := range d.Root.Children {
		var sb strings.Builder
		writeText(block, &sb)
		if s := strings.TrimRight(sb.String(), "\n"); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func nodeText(n Node) string {
	var sb strings.Builder
	writeText(n, &sb)
	return sb.String()
}

func writeText(n Node, sb *strings.Builder) {
	switch n.Kind {
	case KindText:
		sb.WriteString(n.Text)
	case KindLineBreak:
		sb.WriteString("\n")
	case KindImage:
		sb.WriteString(n.AltText)
	case KindList:
		for _, item := range n.Children {
			writeText(item, sb)
			sb.WriteString("\n")
		}
	case KindQuote:
		for i, child := range n.Children {
			if i > 0 && child.Kind.Block() {
				sb.WriteString("\n")
			}
			writeText(child, sb)
		}
	default:
		for _, child := range n.Children {
			writeText(child, sb)
		}
	}
}

// ReferencedFonts returns the font families named in inline styles,
// de-duplicated and sorted.
func ReferencedFonts(d Document) []string {
	seen := make(map[string]bool)
	Walk(d.Root, func(n Node, _ []int) bool {
		if n.Kind != KindText || n.Style == "" {
			return true
		}
		family, ok := ParseInlineStyle(n.Style).Get("font-family")
		if !ok {
			return true
		}
		for _, f := range strings.Split(family, ",") {
			f = strings.Trim(strings.TrimSpace(f), `"'`)
			if f != "" {
				seen[f] = true
			}
		}
		return true
	})

	fonts := make([]string, 0, len(seen))
	for f := range seen {
		fonts = append(fonts, f)
	}
	sort.Strings(fonts)
	return fonts
}
