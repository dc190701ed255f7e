package lexical

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToHTMLNode converts a presentation tree into an x/net/html tree.
func ToHTMLNode(o *OutputNode) *html.Node {
	return toHTMLNode(o, false)
}

func toHTMLNode(o *OutputNode, forMarkdown bool) *html.Node {
	if o == nil {
		return nil
	}
	if o.Type == TextOutputType {
		return &html.Node{Type: html.TextNode, Data: o.Text}
	}

	if forMarkdown {
		if id, ok := o.Attr("data-provider-id"); ok {
			return videoLinkNode(id)
		}
	}

	n := &html.Node{
		Type:     html.ElementNode,
		Data:     o.Tag,
		DataAtom: atom.Lookup([]byte(o.Tag)),
	}
	for _, a := range o.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if css := o.Style.String(); css != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: css})
	}
	for _, c := range o.Children {
		if child := toHTMLNode(c, forMarkdown); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

// videoLinkNode stands in for an embedded player where iframes have no
// meaning, e.g. Markdown.
func videoLinkNode(providerID string) *html.Node {
	watch := VideoWatchURL(providerID)
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr:     []html.Attribute{{Key: "href", Val: watch}},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: watch})
	p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	p.AppendChild(a)
	return p
}

// RenderHTML serializes a presentation tree as HTML.
func RenderHTML(o *OutputNode) (string, error) {
	if o == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, ToHTMLNode(o)); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return buf.String(), nil
}

// RenderMarkdown converts a presentation tree to Markdown.
func RenderMarkdown(o *OutputNode) (string, error) {
	if o == nil {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertNode(toHTMLNode(o, true))
	if err != nil {
		return "", fmt.Errorf("failed to convert html to markdown: %w", err)
	}
	return strings.TrimSpace(string(md)), nil
}
