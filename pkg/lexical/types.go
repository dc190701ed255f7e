package lexical

// Kind discriminates the node variants of a document tree.
type Kind string

const (
	KindRoot      Kind = "root"
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindList      Kind = "list"
	KindListItem  Kind = "listitem"
	KindQuote     Kind = "quote"
	KindCode      Kind = "code"
	KindLink      Kind = "link"
	KindImage     Kind = "image"
	KindVideo     Kind = "embed-video"
	KindText      Kind = "text"
	KindLineBreak Kind = "linebreak"
)

// CurrentVersion is written on every node that does not carry its own version.
const CurrentVersion = 1

// Known reports whether k belongs to the closed set of node kinds.
func (k Kind) Known() bool {
	_, ok := codecs[k]
	return ok
}

// Leaf reports whether nodes of kind k never carry children.
func (k Kind) Leaf() bool {
	switch k {
	case KindText, KindLineBreak, KindImage, KindVideo:
		return true
	}
	return false
}

// Block reports whether k is a block-level container that may carry a direction.
func (k Kind) Block() bool {
	switch k {
	case KindParagraph, KindHeading, KindList, KindListItem, KindQuote, KindCode:
		return true
	}
	return false
}

type Direction string

const (
	DirectionNone Direction = ""
	DirectionLTR  Direction = "ltr"
	DirectionRTL  Direction = "rtl"
)

func (d Direction) Valid() bool {
	return d == DirectionNone || d == DirectionLTR || d == DirectionRTL
}

// Align is the element format of a block ("left", "center", ...).
type Align string

const (
	AlignNone    Align = ""
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
	AlignStart   Align = "start"
	AlignEnd     Align = "end"
)

func (a Align) Valid() bool {
	switch a {
	case AlignNone, AlignLeft, AlignCenter, AlignRight, AlignJustify, AlignStart, AlignEnd:
		return true
	}
	return false
}

// Node represents any node in the document tree.
// Fields that do not apply to Kind stay at their zero value.
type Node struct {
	Kind     Kind
	Version  int
	Children []Node

	// Block specific
	Direction Direction
	Align     Align
	Indent    int

	// Heading specific
	Level int

	// List specific
	Ordered bool
	Start   int

	// Code specific
	Language string

	// Link specific
	URL    string
	Rel    string
	Target string
	Title  string

	// Image specific
	Src     string
	AltText string
	Width   int
	Height  int

	// Video specific
	ProviderID string

	// Text specific
	Text   string
	Format FormatFlags
	Style  string

	// Extra holds the attributes of kinds this build does not know about,
	// so that they survive a load/save cycle untouched.
	Extra map[string]any
}

// Document is a root node whose children are block-level nodes.
type Document struct {
	Root Node
}

// NewDocument returns an empty document.
func NewDocument(blocks ...Node) Document {
	return Document{Root: Node{Kind: KindRoot, Version: CurrentVersion, Children: nonEmpty(blocks)}}
}

func NewParagraph(children ...Node) Node {
	return Node{Kind: KindParagraph, Version: CurrentVersion, Children: nonEmpty(children)}
}

func NewHeading(level int, children ...Node) Node {
	return Node{Kind: KindHeading, Version: CurrentVersion, Level: level, Children: nonEmpty(children)}
}

func NewQuote(children ...Node) Node {
	return Node{Kind: KindQuote, Version: CurrentVersion, Children: nonEmpty(children)}
}

func NewCode(language string, children ...Node) Node {
	return Node{Kind: KindCode, Version: CurrentVersion, Language: language, Children: nonEmpty(children)}
}

func NewList(ordered bool, items ...Node) Node {
	return Node{Kind: KindList, Version: CurrentVersion, Ordered: ordered, Children: nonEmpty(items)}
}

func NewListItem(children ...Node) Node {
	return Node{Kind: KindListItem, Version: CurrentVersion, Children: nonEmpty(children)}
}

func NewLink(url string, children ...Node) Node {
	return Node{Kind: KindLink, Version: CurrentVersion, URL: url, Children: nonEmpty(children)}
}

func NewImage(src, altText string) Node {
	return Node{Kind: KindImage, Version: CurrentVersion, Src: src, AltText: altText}
}

func NewVideo(providerID string) Node {
	return Node{Kind: KindVideo, Version: CurrentVersion, ProviderID: providerID}
}

func NewText(text string, format FormatFlags) Node {
	return Node{Kind: KindText, Version: CurrentVersion, Text: text, Format: format}
}

func NewLineBreak() Node {
	return Node{Kind: KindLineBreak, Version: CurrentVersion}
}

// nonEmpty normalises empty child lists to nil so that constructed and
// decoded trees compare equal.
func nonEmpty(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	return nodes
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	c := n
	if n.Children != nil {
		c.Children = make([]Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	if n.Extra != nil {
		c.Extra = cloneValue(n.Extra).(map[string]any)
	}
	return c
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	return Document{Root: d.Root.Clone()}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = cloneValue(val)
		}
		return s
	default:
		return v
	}
}
