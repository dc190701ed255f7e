package editor

import (
	"site-content-be/pkg/lexical"
)

func nodeAt(root *lexical.Node, path []int) (*lexical.Node, bool) {
	n := root
	for _, i := range path {
		if i < 0 || i >= len(n.Children) {
			return nil, false
		}
		n = &n.Children[i]
	}
	return n, true
}

func firstText(n lexical.Node, path []int) ([]int, bool) {
	if n.Kind == lexical.KindText {
		return path, true
	}
	for i, child := range n.Children {
		childPath := append(append([]int(nil), path...), i)
		if found, ok := firstText(child, childPath); ok {
			return found, true
		}
	}
	return nil, false
}

func textPaths(root lexical.Node) [][]int {
	var paths [][]int
	lexical.Walk(root, func(n lexical.Node, path []int) bool {
		if n.Kind == lexical.KindText {
			paths = append(paths, path)
		}
		return true
	})
	return paths
}

// splice replaces children[i] with the given nodes.
func splice(children []lexical.Node, i int, with ...lexical.Node) []lexical.Node {
	out := make([]lexical.Node, 0, len(children)-1+len(with))
	out = append(out, children[:i]...)
	out = append(out, with...)
	return append(out, children[i+1:]...)
}

// insertAt inserts n before children[i].
func insertAt(children []lexical.Node, i int, n lexical.Node) []lexical.Node {
	out := make([]lexical.Node, 0, len(children)+1)
	out = append(out, children[:i]...)
	out = append(out, n)
	return append(out, children[i:]...)
}

// sliceText returns a copy of text node t holding runes [from, to).
func sliceText(t lexical.Node, from, to int) lexical.Node {
	runes := []rune(t.Text)
	out := t.Clone()
	out.Text = string(runes[from:to])
	return out
}

func hasBlockChildren(n lexical.Node) bool {
	for _, c := range n.Children {
		if c.Kind.Block() {
			return true
		}
	}
	return false
}

// inlineContent flattens a block into inline nodes. Nested blocks are joined
// with line breaks.
func inlineContent(n lexical.Node) []lexical.Node {
	if !hasBlockChildren(n) {
		return n.Children
	}
	var out []lexical.Node
	for _, c := range n.Children {
		part := []lexical.Node{c}
		if c.Kind.Block() {
			part = inlineContent(c)
		}
		if len(out) > 0 && len(part) > 0 {
			out = append(out, lexical.NewLineBreak())
		}
		out = append(out, part...)
	}
	return out
}

var inlineContainers = map[lexical.Kind]bool{
	lexical.KindParagraph: true,
	lexical.KindHeading:   true,
	lexical.KindQuote:     true,
	lexical.KindListItem:  true,
}

// insertInline places n at p, splitting a text node when p falls inside
// one. Positions inside a link move to the link's edge. It returns the
// container point just after n.
func insertInline(root *lexical.Node, p Point, n lexical.Node) (Point, error) {
	target, ok := nodeAt(root, p.Path)
	if !ok {
		return Point{}, &InvalidArgumentError{Argument: "selection", Reason: "does not exist"}
	}

	if target.Kind != lexical.KindText {
		if !inlineContainers[target.Kind] {
			return Point{}, &InvalidArgumentError{Argument: "selection", Reason: "cannot hold inline content in a " + string(target.Kind)}
		}
		target.Children = insertAt(target.Children, p.Offset, n)
		return Point{Path: append([]int(nil), p.Path...), Offset: p.Offset + 1}, nil
	}

	parentPath := p.Path[:len(p.Path)-1]
	idx := p.Path[len(p.Path)-1]
	parent, _ := nodeAt(root, parentPath)
	length := pointLimit(*target)

	if parent.Kind == lexical.KindLink && len(parentPath) > 0 {
		linkIdx := parentPath[len(parentPath)-1]
		atStart := p.Offset == 0 && idx == 0
		return insertInline(root, Point{Path: parentPath[:len(parentPath)-1], Offset: linkIdx + boolInt(!atStart)}, n)
	}
	if !inlineContainers[parent.Kind] {
		return Point{}, &InvalidArgumentError{Argument: "selection", Reason: "cannot hold inline content in a " + string(parent.Kind)}
	}

	var at int
	switch {
	case p.Offset <= 0:
		at = idx
		parent.Children = insertAt(parent.Children, at, n)
	case p.Offset >= length:
		at = idx + 1
		parent.Children = insertAt(parent.Children, at, n)
	default:
		t := *target
		parent.Children = splice(parent.Children, idx, sliceText(t, 0, p.Offset), n, sliceText(t, p.Offset, length))
		at = idx + 1
	}
	return Point{Path: append([]int(nil), parentPath...), Offset: at + 1}, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
