package editor

import (
	"fmt"
	"strings"

	"site-content-be/pkg/lexical"
)

// Command is a document transform. Apply never mutates doc; it returns the
// next document and selection, and changed is false when there was nothing
// to do.
type Command interface {
	Name() string
	Apply(doc lexical.Document, sel Selection) (next lexical.Document, nextSel Selection, changed bool, err error)
}

const (
	CommandToggleFormat   = "toggle-format"
	CommandTransformBlock = "transform-block"
	CommandInsertLink     = "insert-link"
	CommandInsertImage    = "insert-image"
	CommandInsertEmbed    = "insert-embed"
	CommandInsertListItem = "insert-list-item"
)

// prepare validates sel against doc and returns a working copy.
func prepare(command string, doc lexical.Document, sel Selection) (lexical.Document, error) {
	if err := ValidateSelection(doc, sel); err != nil {
		return doc, withCommand(command, err)
	}
	return doc.Clone(), nil
}

// ToggleFormat flips one format flag over the selected text. When every
// selected run already carries the flag it is removed, otherwise added.
type ToggleFormat struct {
	Flag lexical.FormatFlags
}

func (ToggleFormat) Name() string { return CommandToggleFormat }

func (c ToggleFormat) Apply(doc lexical.Document, sel Selection) (lexical.Document, Selection, bool, error) {
	if c.Flag == 0 || !c.Flag.Valid() || c.Flag&(c.Flag-1) != 0 {
		return doc, sel, false, invalid(c.Name(), "format", "must name exactly one known format")
	}
	if sel.IsZero() || sel.Collapsed() {
		return doc, sel, false, nil
	}
	work, err := prepare(c.Name(), doc, sel)
	if err != nil {
		return doc, sel, false, err
	}

	start, end := sel.ordered()
	spans := selectedText(work.Root, start, end)
	if len(spans) == 0 {
		return doc, sel, false, nil
	}

	remove := true
	for _, s := range spans {
		if n, _ := nodeAt(&work.Root, s.path); !n.Format.Has(c.Flag) {
			remove = false
			break
		}
	}

	// Right to left, so splitting a node never moves a span not yet visited.
	for i := len(spans) - 1; i >= 0; i-- {
		s := &spans[i]
		parent, _ := nodeAt(&work.Root, s.path[:len(s.path)-1])
		idx := s.path[len(s.path)-1]
		t := parent.Children[idx]

		mid := sliceText(t, s.from, s.to)
		if remove {
			mid.Format &^= c.Flag
		} else {
			mid.Format = mid.Format.With(c.Flag)
		}

		pieces := make([]lexical.Node, 0, 3)
		if s.from > 0 {
			pieces = append(pieces, sliceText(t, 0, s.from))
		}
		pieces = append(pieces, mid)
		if s.to < s.length {
			pieces = append(pieces, sliceText(t, s.to, s.length))
		}
		parent.Children = splice(parent.Children, idx, pieces...)
		s.grew = len(pieces) - 1
	}

	first, last := spans[0], spans[len(spans)-1]
	from := Point{Path: finalPath(first, spans)}
	to := Point{Path: finalPath(last, spans), Offset: last.to - last.from}
	if comparePoints(sel.Anchor, sel.Focus) > 0 {
		from, to = to, from
	}
	return work, Range(from, to), true, nil
}

// textSpan is the selected rune range [from, to) of one text node.
type textSpan struct {
	path     []int
	from, to int
	length   int
	grew     int
}

// finalPath is the path of span's formatted piece after every span has
// been split.
func finalPath(span textSpan, spans []textSpan) []int {
	path := append([]int(nil), span.path...)
	for _, o := range spans {
		if o.grew == 0 || comparePaths(o.path, span.path) >= 0 {
			continue
		}
		depth := len(o.path) - 1
		if depth >= len(path) || comparePaths(o.path[:depth], path[:depth]) != 0 {
			continue
		}
		if path[depth] > o.path[depth] {
			path[depth] += o.grew
		}
	}
	if span.from > 0 {
		path[len(path)-1]++
	}
	return path
}

func selectedText(root lexical.Node, start, end Point) []textSpan {
	start, end = boundary(root, start), boundary(root, end)

	var spans []textSpan
	for _, path := range textPaths(root) {
		n, _ := nodeAt(&root, path)
		length := pointLimit(*n)

		from, to := 0, length
		if samePath(start.Path, path) {
			from = start.Offset
		} else if comparePaths(start.Path, path) > 0 {
			continue
		}
		if samePath(end.Path, path) {
			to = end.Offset
		} else if comparePaths(end.Path, path) < 0 {
			continue
		}
		if from >= to {
			continue
		}
		spans = append(spans, textSpan{path: path, from: from, to: to, length: length})
	}
	return spans
}

// boundary rewrites a point on a container as the position just before the
// addressed child, so it orders correctly against text positions.
func boundary(root lexical.Node, p Point) Point {
	n, ok := nodeAt(&root, p.Path)
	if !ok || n.Kind == lexical.KindText {
		return p
	}
	return Point{Path: append(append([]int(nil), p.Path...), p.Offset)}
}

var transformTargets = map[lexical.Kind]bool{
	lexical.KindParagraph: true,
	lexical.KindHeading:   true,
	lexical.KindQuote:     true,
	lexical.KindCode:      true,
}

// TransformBlock converts every top-level block touched by the selection.
// Lists and quotes are flattened, their parts joined by line breaks.
type TransformBlock struct {
	Kind     lexical.Kind
	Level    int
	Language string
}

func (TransformBlock) Name() string { return CommandTransformBlock }

func (c TransformBlock) Apply(doc lexical.Document, sel Selection) (lexical.Document, Selection, bool, error) {
	if !transformTargets[c.Kind] {
		return doc, sel, false, invalid(c.Name(), "kind", fmt.Sprintf("cannot transform blocks into %q", c.Kind))
	}
	if c.Kind == lexical.KindHeading && (c.Level < 1 || c.Level > 6) {
		return doc, sel, false, invalid(c.Name(), "level", "must be between 1 and 6")
	}
	if sel.IsZero() {
		return doc, sel, false, nil
	}
	work, err := prepare(c.Name(), doc, sel)
	if err != nil {
		return doc, sel, false, err
	}

	start, end := sel.ordered()
	changed := false
	for b := start.Path[0]; b <= end.Path[0]; b++ {
		block := work.Root.Children[b]
		if !block.Kind.Block() || block.Kind == lexical.KindListItem {
			continue
		}

		next := lexical.Node{
			Kind:      c.Kind,
			Version:   lexical.CurrentVersion,
			Direction: block.Direction,
			Align:     block.Align,
			Indent:    block.Indent,
			Children:  inlineContent(block),
		}
		switch c.Kind {
		case lexical.KindHeading:
			next.Level = c.Level
		case lexical.KindCode:
			next.Language = c.Language
		}
		if block.Kind == c.Kind {
			next.Extra = block.Extra
		}
		if lexical.Equal(block, next) {
			continue
		}
		work.Root.Children[b] = next
		changed = true
	}
	if !changed {
		return doc, sel, false, nil
	}
	return work, clampSelection(&work.Root, sel), true, nil
}

// InsertLink wraps the selected text in a link, or inserts a new link at a
// caret. Inside an existing link it changes that link's URL. Video URLs are
// stored as plain links.
type InsertLink struct {
	URL   string
	Label string
}

func (InsertLink) Name() string { return CommandInsertLink }

func (c InsertLink) Apply(doc lexical.Document, sel Selection) (lexical.Document, Selection, bool, error) {
	url := strings.TrimSpace(c.URL)
	if url == "" {
		return doc, sel, false, invalid(c.Name(), "url", "is required")
	}
	if !lexical.SafeURL(url) {
		return doc, sel, false, invalid(c.Name(), "url", fmt.Sprintf("%q is not an allowed link target", url))
	}
	if id, videoShaped := lexical.MatchVideoURL(url); videoShaped && id == "" {
		return doc, sel, false, invalid(c.Name(), "url", fmt.Sprintf("%q does not carry a valid video id", url))
	}
	if sel.IsZero() {
		return doc, sel, false, nil
	}
	work, err := prepare(c.Name(), doc, sel)
	if err != nil {
		return doc, sel, false, err
	}

	start, end := sel.ordered()
	startLink, inStart := enclosingLink(work.Root, start.Path)
	endLink, inEnd := enclosingLink(work.Root, end.Path)
	switch {
	case inStart && inEnd && samePath(startLink, endLink):
		link, _ := nodeAt(&work.Root, startLink)
		if link.URL == url {
			return doc, sel, false, nil
		}
		link.URL = url
		return work, sel, true, nil
	case inStart || inEnd:
		return doc, sel, false, invalid(c.Name(), "selection", "partially covers a link")
	}

	label := c.Label
	if strings.TrimSpace(label) == "" {
		label = url
	}

	if sel.Collapsed() {
		after, err := insertInline(&work.Root, start, lexical.NewLink(url, lexical.NewText(label, 0)))
		if err != nil {
			return doc, sel, false, withCommand(c.Name(), err)
		}
		return work, Caret(after), true, nil
	}

	startNode, _ := nodeAt(&work.Root, start.Path)
	endNode, _ := nodeAt(&work.Root, end.Path)
	if startNode.Kind != lexical.KindText || endNode.Kind != lexical.KindText {
		return doc, sel, false, invalid(c.Name(), "selection", "must start and end in text")
	}
	parentPath := start.Path[:len(start.Path)-1]
	if !samePath(parentPath, end.Path[:len(end.Path)-1]) {
		return doc, sel, false, invalid(c.Name(), "selection", "must stay within one block")
	}
	parent, _ := nodeAt(&work.Root, parentPath)
	if !inlineContainers[parent.Kind] {
		return doc, sel, false, invalid(c.Name(), "selection", "cannot hold a link in a "+string(parent.Kind))
	}

	i, j := start.Path[len(start.Path)-1], end.Path[len(end.Path)-1]
	first, last := parent.Children[i], parent.Children[j]
	firstLen, lastLen := pointLimit(first), pointLimit(last)

	var inside []lexical.Node
	if i == j {
		inside = append(inside, sliceText(first, start.Offset, end.Offset))
	} else {
		inside = append(inside, sliceText(first, start.Offset, firstLen))
		inside = append(inside, parent.Children[i+1:j]...)
		inside = append(inside, sliceText(last, 0, end.Offset))
	}
	inside = dropEmptyText(inside)
	if len(inside) == 0 {
		return doc, sel, false, nil
	}

	var pieces []lexical.Node
	if start.Offset > 0 {
		pieces = append(pieces, sliceText(first, 0, start.Offset))
	}
	linkIdx := i + len(pieces)
	link := lexical.NewLink(url, inside...)
	pieces = append(pieces, link)
	if end.Offset < lastLen {
		pieces = append(pieces, sliceText(last, end.Offset, lastLen))
	}

	children := make([]lexical.Node, 0, len(parent.Children)+2)
	children = append(children, parent.Children[:i]...)
	children = append(children, pieces...)
	children = append(children, parent.Children[j+1:]...)
	parent.Children = children

	linkPath := append(append([]int(nil), parentPath...), linkIdx)
	return work, Range(Point{Path: linkPath}, Point{Path: append([]int(nil), linkPath...), Offset: len(link.Children)}), true, nil
}

// enclosingLink returns the path of the innermost link on path.
func enclosingLink(root lexical.Node, path []int) ([]int, bool) {
	var found []int
	ok := false
	n := root
	for depth, i := range path {
		if i < 0 || i >= len(n.Children) {
			break
		}
		n = n.Children[i]
		if n.Kind == lexical.KindLink {
			found = append([]int(nil), path[:depth+1]...)
			ok = true
		}
	}
	return found, ok
}

func dropEmptyText(nodes []lexical.Node) []lexical.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Kind == lexical.KindText && n.Text == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// InsertImage inserts an inline image at the end of the selection.
type InsertImage struct {
	Src     string
	AltText string
}

func (InsertImage) Name() string { return CommandInsertImage }

func (c InsertImage) Apply(doc lexical.Document, sel Selection) (lexical.Document, Selection, bool, error) {
	src := strings.TrimSpace(c.Src)
	if src == "" {
		return doc, sel, false, invalid(c.Name(), "src", "is required")
	}
	if !lexical.SafeURL(src) {
		return doc, sel, false, invalid(c.Name(), "src", fmt.Sprintf("%q is not an allowed image source", src))
	}
	if sel.IsZero() {
		return doc, sel, false, nil
	}
	work, err := prepare(c.Name(), doc, sel)
	if err != nil {
		return doc, sel, false, err
	}

	_, end := sel.ordered()
	after, err := insertInline(&work.Root, end, lexical.NewImage(src, c.AltText))
	if err != nil {
		return doc, sel, false, withCommand(c.Name(), err)
	}
	return work, Caret(after), true, nil
}

// InsertEmbed inserts a video block after the block holding the selection.
// Only URLs the video recogniser accepts are allowed.
type InsertEmbed struct {
	URL string
}

func (InsertEmbed) Name() string { return CommandInsertEmbed }

func (c InsertEmbed) Apply(doc lexical.Document, sel Selection) (lexical.Document, Selection, bool, error) {
	id, ok := lexical.ExtractProviderID(c.URL)
	if !ok {
		return doc, sel, false, invalid(c.Name(), "url", fmt.Sprintf("%q is not a recognised video URL", c.URL))
	}
	if sel.IsZero() {
		return doc, sel, false, nil
	}
	work, err := prepare(c.Name(), doc, sel)
	if err != nil {
		return doc, sel, false, err
	}

	_, end := sel.ordered()
	at := end.Path[0] + 1
	work.Root.Children = insertAt(work.Root.Children, at, lexical.NewVideo(id))
	return work, Caret(Point{Path: []int{at}}), true, nil
}

// InsertListItem adds an item after the current one when the selection is
// in a list. Any other block becomes a single-item list.
type InsertListItem struct {
	Ordered bool
}

func (InsertListItem) Name() string { return CommandInsertListItem }

func (c InsertListItem) Apply(doc lexical.Document, sel Selection) (lexical.Document, Selection, bool, error) {
	if sel.IsZero() {
		return doc, sel, false, nil
	}
	work, err := prepare(c.Name(), doc, sel)
	if err != nil {
		return doc, sel, false, err
	}

	_, end := sel.ordered()
	b := end.Path[0]
	block := work.Root.Children[b]

	switch {
	case block.Kind == lexical.KindList:
		at := end.Offset
		if len(end.Path) >= 2 {
			at = end.Path[1] + 1
		}
		list := &work.Root.Children[b]
		list.Children = insertAt(list.Children, at, lexical.NewListItem())
		return work, Caret(Point{Path: []int{b, at}}), true, nil

	case block.Kind.Block():
		list := lexical.NewList(c.Ordered, lexical.NewListItem(inlineContent(block)...))
		list.Direction = block.Direction
		list.Align = block.Align
		list.Indent = block.Indent
		work.Root.Children[b] = list

		next := sel
		if !hasBlockChildren(block) {
			next = Range(intoFirstItem(sel.Anchor, b), intoFirstItem(sel.Focus, b))
		}
		return work, clampSelection(&work.Root, next), true, nil
	}
	return doc, sel, false, invalid(c.Name(), "selection", fmt.Sprintf("a %s cannot become a list", block.Kind))
}

// intoFirstItem moves a point in block b under the list item that now wraps
// the block's content.
func intoFirstItem(p Point, b int) Point {
	if len(p.Path) == 0 || p.Path[0] != b {
		return p
	}
	path := append([]int{b, 0}, p.Path[1:]...)
	return Point{Path: path, Offset: p.Offset}
}
