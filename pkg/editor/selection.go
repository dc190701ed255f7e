package editor

import (
	"fmt"
	"unicode/utf8"

	"site-content-be/pkg/lexical"
)

// Point addresses a position in a document. Path holds child indexes from
// the root. On a text node Offset counts runes; on any other node it counts
// children, so Offset k sits just before child k.
type Point struct {
	Path   []int `json:"path"`
	Offset int   `json:"offset"`
}

// Selection is the range between Anchor and Focus. Focus may come before
// Anchor when the user selects backwards. The zero Selection selects nothing.
type Selection struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Caret returns a collapsed selection at p.
func Caret(p Point) Selection {
	return Selection{Anchor: p, Focus: p.clone()}
}

// Range returns a selection from anchor to focus.
func Range(anchor, focus Point) Selection {
	return Selection{Anchor: anchor, Focus: focus}
}

func (p Point) clone() Point {
	if p.Path == nil {
		return p
	}
	path := make([]int, len(p.Path))
	copy(path, p.Path)
	return Point{Path: path, Offset: p.Offset}
}

func (p Point) isZero() bool {
	return len(p.Path) == 0
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool {
	return s.Anchor.isZero() && s.Focus.isZero()
}

// Collapsed reports whether anchor and focus are the same position.
func (s Selection) Collapsed() bool {
	return comparePoints(s.Anchor, s.Focus) == 0
}

// Clone deep-copies the selection.
func (s Selection) Clone() Selection {
	return Selection{Anchor: s.Anchor.clone(), Focus: s.Focus.clone()}
}

// ordered returns the selection ends in document order.
func (s Selection) ordered() (start, end Point) {
	if comparePoints(s.Anchor, s.Focus) <= 0 {
		return s.Anchor, s.Focus
	}
	return s.Focus, s.Anchor
}

// comparePaths orders paths in document order. A path sorts before its
// descendants.
func comparePaths(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func comparePoints(a, b Point) int {
	if c := comparePaths(a.Path, b.Path); c != 0 {
		return c
	}
	switch {
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

func samePath(a, b []int) bool {
	return len(a) == len(b) && comparePaths(a, b) == 0
}

// ValidateSelection checks that both ends of sel address existing nodes and
// in-range offsets. The zero selection is valid.
func ValidateSelection(doc lexical.Document, sel Selection) error {
	if sel.IsZero() {
		return nil
	}
	if sel.Anchor.isZero() || sel.Focus.isZero() {
		return &InvalidArgumentError{Argument: "selection", Reason: "needs both anchor and focus"}
	}
	if err := validatePoint(doc.Root, sel.Anchor); err != nil {
		return &InvalidArgumentError{Argument: "selection", Reason: fmt.Sprintf("anchor %v", err)}
	}
	if err := validatePoint(doc.Root, sel.Focus); err != nil {
		return &InvalidArgumentError{Argument: "selection", Reason: fmt.Sprintf("focus %v", err)}
	}
	return nil
}

func validatePoint(root lexical.Node, p Point) error {
	n, ok := nodeAt(&root, p.Path)
	if !ok {
		return fmt.Errorf("path %v does not exist", p.Path)
	}
	if limit := pointLimit(*n); p.Offset < 0 || p.Offset > limit {
		return fmt.Errorf("offset %d outside 0..%d", p.Offset, limit)
	}
	return nil
}

func pointLimit(n lexical.Node) int {
	if n.Kind == lexical.KindText {
		return utf8.RuneCountInString(n.Text)
	}
	return len(n.Children)
}

// clampPoint maps p onto a position that exists in root. Points whose path
// vanished move to the first text of their top-level block.
func clampPoint(root *lexical.Node, p Point) Point {
	if p.isZero() || len(root.Children) == 0 {
		return Point{}
	}
	if n, ok := nodeAt(root, p.Path); ok {
		out := p.clone()
		if limit := pointLimit(*n); out.Offset > limit {
			out.Offset = limit
		}
		if out.Offset < 0 {
			out.Offset = 0
		}
		return out
	}

	block := p.Path[0]
	if block >= len(root.Children) {
		block = len(root.Children) - 1
	}
	if block < 0 {
		block = 0
	}
	if path, ok := firstText(root.Children[block], []int{block}); ok {
		return Point{Path: path}
	}
	return Point{Path: []int{block}}
}

func clampSelection(root *lexical.Node, sel Selection) Selection {
	if sel.IsZero() {
		return Selection{}
	}
	return Selection{Anchor: clampPoint(root, sel.Anchor), Focus: clampPoint(root, sel.Focus)}
}
