package lexical

import (
	"encoding/json"
	"fmt"
	"math"
)

// Portable is the JSON-ready form of a single node.
type Portable map[string]any

// MalformedNodeError reports a node payload that cannot be decoded.
type MalformedNodeError struct {
	Kind   Kind
	Field  string
	Path   string
	Reason string
}

func (e *MalformedNodeError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "is required"
	}
	return fmt.Sprintf("malformed %q node at %s: field %q %s", e.Kind, e.Path, e.Field, reason)
}

// codec serialises the kind-specific attributes of one node kind.
// Common attributes (kind, version, children, block layout) are handled by
// ToPortable and FromPortable.
type codec struct {
	fields []string
	encode func(n Node, p Portable)
	decode func(p Portable, n *Node, path string) error
}

var codecs = map[Kind]codec{
	KindRoot:      {},
	KindParagraph: {},
	KindQuote:     {},
	KindListItem:  {},
	KindLineBreak: {},
	KindHeading: {
		fields: []string{"level"},
		encode: func(n Node, p Portable) {
			p["level"] = n.Level
		},
		decode: func(p Portable, n *Node, path string) error {
			level, err := requiredInt(p, KindHeading, "level", path)
			if err != nil {
				return err
			}
			if level < 1 || level > 6 {
				return &MalformedNodeError{Kind: KindHeading, Field: "level", Path: path, Reason: "must be between 1 and 6"}
			}
			n.Level = level
			return nil
		},
	},
	KindList: {
		fields: []string{"ordered", "start"},
		encode: func(n Node, p Portable) {
			p["ordered"] = n.Ordered
			if n.Start > 0 {
				p["start"] = n.Start
			}
		},
		decode: func(p Portable, n *Node, path string) error {
			ordered, err := requiredBool(p, KindList, "ordered", path)
			if err != nil {
				return err
			}
			n.Ordered = ordered
			n.Start, err = optionalInt(p, KindList, "start", path)
			return err
		},
	},
	KindCode: {
		fields: []string{"language"},
		encode: func(n Node, p Portable) {
			if n.Language != "" {
				p["language"] = n.Language
			}
		},
		decode: func(p Portable, n *Node, path string) (err error) {
			n.Language, err = optionalString(p, KindCode, "language", path)
			return err
		},
	},
	KindLink: {
		fields: []string{"url", "rel", "target", "title"},
		encode: func(n Node, p Portable) {
			p["url"] = n.URL
			putString(p, "rel", n.Rel)
			putString(p, "target", n.Target)
			putString(p, "title", n.Title)
		},
		decode: func(p Portable, n *Node, path string) (err error) {
			if n.URL, err = requiredString(p, KindLink, "url", path); err != nil {
				return err
			}
			if n.Rel, err = optionalString(p, KindLink, "rel", path); err != nil {
				return err
			}
			if n.Target, err = optionalString(p, KindLink, "target", path); err != nil {
				return err
			}
			n.Title, err = optionalString(p, KindLink, "title", path)
			return err
		},
	},
	KindImage: {
		fields: []string{"src", "altText", "width", "height"},
		encode: func(n Node, p Portable) {
			p["src"] = n.Src
			p["altText"] = n.AltText
			if n.Width > 0 {
				p["width"] = n.Width
			}
			if n.Height > 0 {
				p["height"] = n.Height
			}
		},
		decode: func(p Portable, n *Node, path string) (err error) {
			if n.Src, err = requiredString(p, KindImage, "src", path); err != nil {
				return err
			}
			if n.AltText, err = optionalString(p, KindImage, "altText", path); err != nil {
				return err
			}
			if n.Width, err = optionalInt(p, KindImage, "width", path); err != nil {
				return err
			}
			n.Height, err = optionalInt(p, KindImage, "height", path)
			return err
		},
	},
	KindVideo: {
		fields: []string{"providerId"},
		encode: func(n Node, p Portable) {
			p["providerId"] = n.ProviderID
		},
		decode: func(p Portable, n *Node, path string) (err error) {
			n.ProviderID, err = requiredString(p, KindVideo, "providerId", path)
			return err
		},
	},
	KindText: {
		fields: []string{"text", "format", "style"},
		encode: func(n Node, p Portable) {
			p["text"] = n.Text
			if n.Format != 0 {
				p["format"] = int(n.Format)
			}
			putString(p, "style", n.Style)
		},
		decode: func(p Portable, n *Node, path string) error {
			text, err := requiredStringAllowEmpty(p, KindText, "text", path)
			if err != nil {
				return err
			}
			format, err := optionalInt(p, KindText, "format", path)
			if err != nil {
				return err
			}
			if format < 0 {
				return &MalformedNodeError{Kind: KindText, Field: "format", Path: path, Reason: "must not be negative"}
			}
			style, err := optionalString(p, KindText, "style", path)
			if err != nil {
				return err
			}
			n.Text, n.Format, n.Style = text, FormatFlags(format), style
			return nil
		},
	},
}

// common fields that every codec shares
var commonFields = map[string]bool{"kind": true, "version": true, "children": true}

// ToPortable converts a node and its subtree into portable form.
func ToPortable(n Node) Portable {
	p := make(Portable, 8)
	for k, v := range n.Extra {
		p[k] = cloneValue(v)
	}

	p["kind"] = string(n.Kind)
	version := n.Version
	if version == 0 {
		version = CurrentVersion
	}
	p["version"] = version

	if n.Kind.Block() {
		putString(p, "direction", string(n.Direction))
		putString(p, "align", string(n.Align))
		if n.Indent > 0 {
			p["indent"] = n.Indent
		}
	}

	if c, ok := codecs[n.Kind]; ok && c.encode != nil {
		c.encode(n, p)
	}

	if !n.Kind.Leaf() && (n.Kind.Known() || n.Children != nil) {
		children := make([]any, 0, len(n.Children))
		for _, child := range n.Children {
			children = append(children, ToPortable(child))
		}
		p["children"] = children
	}
	return p
}

// FromPortable decodes a portable node and its subtree.
func FromPortable(p Portable) (Node, error) {
	return fromPortable(p, "root")
}

func fromPortable(p Portable, path string) (Node, error) {
	var n Node

	kindRaw, ok := p["kind"]
	if !ok {
		return n, &MalformedNodeError{Field: "kind", Path: path}
	}
	kind, ok := kindRaw.(string)
	if !ok || kind == "" {
		return n, &MalformedNodeError{Field: "kind", Path: path, Reason: "must be a non-empty string"}
	}
	n.Kind = Kind(kind)

	version, err := optionalInt(p, n.Kind, "version", path)
	if err != nil {
		return n, err
	}
	if version <= 0 {
		version = CurrentVersion
	}
	n.Version = version

	c, known := codecs[n.Kind]
	if known && c.decode != nil {
		if err := c.decode(p, &n, path); err != nil {
			return n, err
		}
	}

	if n.Kind.Block() {
		dir, err := optionalString(p, n.Kind, "direction", path)
		if err != nil {
			return n, err
		}
		if d := Direction(dir); d.Valid() {
			n.Direction = d
		}
		align, err := optionalString(p, n.Kind, "align", path)
		if err != nil {
			return n, err
		}
		if a := Align(align); a.Valid() {
			n.Align = a
		}
		if n.Indent, err = optionalInt(p, n.Kind, "indent", path); err != nil {
			return n, err
		}
	}

	if !n.Kind.Leaf() {
		children, err := decodeChildren(p, n.Kind, path)
		if err != nil {
			return n, err
		}
		n.Children = children
	}

	n.Extra = extraFields(p, n, c)
	return n, nil
}

func decodeChildren(p Portable, kind Kind, path string) ([]Node, error) {
	raw, ok := p["children"]
	if !ok || raw == nil {
		if kind.Known() {
			return nil, &MalformedNodeError{Kind: kind, Field: "children", Path: path}
		}
		return nil, nil
	}

	var items []any
	switch t := raw.(type) {
	case []any:
		items = t
	case []Portable:
		items = make([]any, len(t))
		for i := range t {
			items[i] = t[i]
		}
	default:
		return nil, &MalformedNodeError{Kind: kind, Field: "children", Path: path, Reason: "must be an array"}
	}

	if len(items) == 0 {
		if kind.Known() {
			return nil, nil
		}
		// unknown kinds keep an explicit empty list so it is written back
		return []Node{}, nil
	}
	children := make([]Node, 0, len(items))
	for i, item := range items {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		cp, ok := asPortable(item)
		if !ok {
			return nil, &MalformedNodeError{Kind: kind, Field: "children", Path: childPath, Reason: "must contain objects"}
		}
		child, err := fromPortable(cp, childPath)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// extraFields collects attributes the codec does not own. Block layout
// values outside the known sets stay here so they are written back as is.
func extraFields(p Portable, n Node, c codec) map[string]any {
	kind := n.Kind
	owned := make(map[string]bool, len(c.fields))
	for _, f := range c.fields {
		owned[f] = true
	}
	if kind.Block() {
		owned["indent"] = true
		owned["direction"] = n.Direction != DirectionNone || p["direction"] == ""
		owned["align"] = n.Align != AlignNone || p["align"] == ""
	}

	var extra map[string]any
	for k, v := range p {
		if commonFields[k] || owned[k] {
			continue
		}
		if kind.Leaf() && k == "children" {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = cloneValue(v)
	}
	return extra
}

func asPortable(v any) (Portable, bool) {
	switch t := v.(type) {
	case Portable:
		return t, true
	case map[string]any:
		return Portable(t), true
	}
	return nil, false
}

func putString(p Portable, key, val string) {
	if val != "" {
		p[key] = val
	}
}

func requiredString(p Portable, kind Kind, field, path string) (string, error) {
	s, err := requiredStringAllowEmpty(p, kind, field, path)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", &MalformedNodeError{Kind: kind, Field: field, Path: path, Reason: "must not be empty"}
	}
	return s, nil
}

func requiredStringAllowEmpty(p Portable, kind Kind, field, path string) (string, error) {
	raw, ok := p[field]
	if !ok || raw == nil {
		return "", &MalformedNodeError{Kind: kind, Field: field, Path: path}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &MalformedNodeError{Kind: kind, Field: field, Path: path, Reason: "must be a string"}
	}
	return s, nil
}

func optionalString(p Portable, kind Kind, field, path string) (string, error) {
	raw, ok := p[field]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &MalformedNodeError{Kind: kind, Field: field, Path: path, Reason: "must be a string"}
	}
	return s, nil
}

func requiredBool(p Portable, kind Kind, field, path string) (bool, error) {
	raw, ok := p[field]
	if !ok || raw == nil {
		return false, &MalformedNodeError{Kind: kind, Field: field, Path: path}
	}
	b, ok := raw.(bool)
	if !ok {
		return false, &MalformedNodeError{Kind: kind, Field: field, Path: path, Reason: "must be a boolean"}
	}
	return b, nil
}

func requiredInt(p Portable, kind Kind, field, path string) (int, error) {
	raw, ok := p[field]
	if !ok || raw == nil {
		return 0, &MalformedNodeError{Kind: kind, Field: field, Path: path}
	}
	return toInt(raw, kind, field, path)
}

func optionalInt(p Portable, kind Kind, field, path string) (int, error) {
	raw, ok := p[field]
	if !ok || raw == nil {
		return 0, nil
	}
	return toInt(raw, kind, field, path)
}

func toInt(raw any, kind Kind, field, path string) (int, error) {
	bad := &MalformedNodeError{Kind: kind, Field: field, Path: path, Reason: "must be an integer"}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, bad
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, bad
		}
		return int(i), nil
	}
	return 0, bad
}
