package lexical

// OutputType tells element and text presentation nodes apart.
type OutputType int

const (
	ElementOutput OutputType = iota
	TextOutputType
)

// Attr is a single presentation attribute. Attributes keep insertion order.
type Attr struct {
	Key string
	Val string
}

// OutputNode is one node of the rendered presentation tree.
type OutputNode struct {
	Type     OutputType
	Tag      string
	Attrs    []Attr
	Style    StyleMap
	Text     string
	Children []*OutputNode
}

// Element builds an element node, skipping nil children.
func Element(tag string, children ...*OutputNode) *OutputNode {
	o := &OutputNode{Type: ElementOutput, Tag: tag}
	o.Append(children...)
	return o
}

// TextOutput builds a text node.
func TextOutput(text string) *OutputNode {
	return &OutputNode{Type: TextOutputType, Text: text}
}

// Append adds the non-nil children to o.
func (o *OutputNode) Append(children ...*OutputNode) *OutputNode {
	for _, c := range children {
		if c != nil {
			o.Children = append(o.Children, c)
		}
	}
	return o
}

// SetAttr sets key to val, replacing an existing value.
func (o *OutputNode) SetAttr(key, val string) *OutputNode {
	for i := range o.Attrs {
		if o.Attrs[i].Key == key {
			o.Attrs[i].Val = val
			return o
		}
	}
	o.Attrs = append(o.Attrs, Attr{Key: key, Val: val})
	return o
}

// Attr returns the value of key.
func (o *OutputNode) Attr(key string) (string, bool) {
	for _, a := range o.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetStyle sets a single camelCase style property.
func (o *OutputNode) SetStyle(property, value string) *OutputNode {
	if o.Style == nil {
		o.Style = make(StyleMap)
	}
	o.Style[camelCase(property)] = value
	return o
}

// Find returns every descendant element (o included) with the given tag,
// in document order.
func (o *OutputNode) Find(tag string) []*OutputNode {
	var found []*OutputNode
	o.walk(func(n *OutputNode) {
		if n.Type == ElementOutput && n.Tag == tag {
			found = append(found, n)
		}
	})
	return found
}

// TextContent concatenates all text below o.
func (o *OutputNode) TextContent() string {
	var out []byte
	o.walk(func(n *OutputNode) {
		if n.Type == TextOutputType {
			out = append(out, n.Text...)
		}
	})
	return string(out)
}

func (o *OutputNode) walk(fn func(*OutputNode)) {
	if o == nil {
		return
	}
	fn(o)
	for _, c := range o.Children {
		c.walk(fn)
	}
}
