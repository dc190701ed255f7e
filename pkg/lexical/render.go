package lexical

import (
	"fmt"
	"strconv"
	"strings"
)

// AssetResolver turns stored asset references into URLs.
type AssetResolver interface {
	Resolve(ref string) string
}

type identityResolver struct{}

func (identityResolver) Resolve(ref string) string { return ref }

// VideoRecognizer extracts a provider id from a URL.
type VideoRecognizer func(raw string) (string, bool)

// renderRule renders one node kind. A nil result renders nothing.
type renderRule func(r *Renderer, n Node) *OutputNode

// renderRules maps each known kind to its rendering rule.
// Kinds missing from the table use renderUnknown.
var renderRules map[Kind]renderRule

func init() {
	renderRules = map[Kind]renderRule{
		KindRoot:      renderRoot,
		KindParagraph: blockRule("p"),
		KindQuote:     blockRule("blockquote"),
		KindListItem:  blockRule("li"),
		KindHeading:   renderHeading,
		KindList:      renderList,
		KindCode:      renderCode,
		KindLink:      renderLink,
		KindImage:     renderImage,
		KindVideo:     renderVideo,
		KindText:      renderText,
		KindLineBreak: renderLineBreak,
	}
}

// Renderer turns documents into presentation trees. It holds no mutable
// state and may be shared between goroutines.
type Renderer struct {
	assets    AssetResolver
	direction Direction
	recognize VideoRecognizer
}

type RendererOption func(*Renderer)

// WithAssetResolver resolves image sources through resolver.
func WithAssetResolver(resolver AssetResolver) RendererOption {
	return func(r *Renderer) {
		if resolver != nil {
			r.assets = resolver
		}
	}
}

// WithDirection sets the dir attribute of the document container.
func WithDirection(d Direction) RendererOption {
	return func(r *Renderer) {
		if d.Valid() {
			r.direction = d
		}
	}
}

// WithVideoRecognizer replaces VideoIDFromURL for link promotion.
func WithVideoRecognizer(recognize VideoRecognizer) RendererOption {
	return func(r *Renderer) {
		if recognize != nil {
			r.recognize = recognize
		}
	}
}

func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		assets:    identityResolver{},
		recognize: VideoIDFromURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts a document into its presentation tree.
func (r *Renderer) Render(d Document) *OutputNode {
	root := d.Root
	if root.Kind == "" {
		root.Kind = KindRoot
	}
	out := r.RenderNode(root)
	if out == nil {
		out = documentContainer(r.direction)
	}
	return out
}

// RenderNode renders a single subtree.
func (r *Renderer) RenderNode(n Node) *OutputNode {
	rule, ok := renderRules[n.Kind]
	if !ok {
		return renderUnknown(r, n)
	}
	return rule(r, n)
}

// RenderContent parses and renders serialized content. Content that cannot
// be parsed is rendered as plain text and the parse error is returned
// alongside the fallback output.
func (r *Renderer) RenderContent(content string) (out *OutputNode, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = Fallback(content)
			err = fmt.Errorf("render panic: %v", p)
		}
	}()

	doc, err := ParseDocument(content)
	if err != nil {
		return Fallback(content), err
	}
	return r.Render(doc), nil
}

// Fallback renders raw content as plain paragraphs, one per non-blank line.
func Fallback(content string) *OutputNode {
	out := Element("div").
		SetAttr("class", "document document--fallback")
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out.Append(Element("p", TextOutput(line)))
	}
	return out
}

func (r *Renderer) renderChildren(n Node) []*OutputNode {
	out := make([]*OutputNode, 0, len(n.Children))
	for _, child := range n.Children {
		if rendered := r.RenderNode(child); rendered != nil {
			out = append(out, rendered)
		}
	}
	return out
}

func documentContainer(d Direction) *OutputNode {
	out := Element("div").SetAttr("class", "document")
	if d != DirectionNone {
		out.SetAttr("dir", string(d))
	}
	return out
}

func renderRoot(r *Renderer, n Node) *OutputNode {
	return documentContainer(r.direction).Append(r.renderChildren(n)...)
}

// blockRule wraps rendered children in a container carrying the block layout.
func blockRule(tag string) renderRule {
	return func(r *Renderer, n Node) *OutputNode {
		return withLayout(Element(tag, r.renderChildren(n)...), n)
	}
}

// withLayout copies direction, alignment and indent onto the container only.
func withLayout(out *OutputNode, n Node) *OutputNode {
	if n.Direction != DirectionNone {
		out.SetAttr("dir", string(n.Direction))
	}
	if n.Align != AlignNone {
		out.SetStyle("text-align", string(n.Align))
	}
	if n.Indent > 0 {
		out.SetStyle("padding-inline-start", strconv.Itoa(n.Indent*40)+"px")
	}
	return out
}

func renderHeading(r *Renderer, n Node) *OutputNode {
	level := n.Level
	if level < 1 {
		level = 1
	} else if level > 6 {
		level = 6
	}
	out := Element("h"+strconv.Itoa(level), r.renderChildren(n)...).
		SetAttr("class", "heading heading-"+strconv.Itoa(level))
	return withLayout(out, n)
}

func renderList(r *Renderer, n Node) *OutputNode {
	tag := "ul"
	if n.Ordered {
		tag = "ol"
	}
	out := Element(tag, r.renderChildren(n)...)
	if n.Ordered && n.Start > 1 {
		out.SetAttr("start", strconv.Itoa(n.Start))
	}
	return withLayout(out, n)
}

func renderCode(r *Renderer, n Node) *OutputNode {
	code := Element("code", r.renderChildren(n)...)
	if n.Language != "" {
		code.SetAttr("data-language", n.Language)
	}
	out := Element("pre", code).SetAttr("class", "code-block")
	return withLayout(out, n)
}

// renderLink promotes recognised video URLs to an embedded player. The
// stored node stays a link.
func renderLink(r *Renderer, n Node) *OutputNode {
	if id, ok := r.recognize(n.URL); ok {
		title := strings.TrimSpace(nodeText(n))
		return videoPlayer(id, title)
	}

	out := Element("a", r.renderChildren(n)...).
		SetAttr("href", SanitizeURL(n.URL))
	if n.Title != "" {
		out.SetAttr("title", n.Title)
	}
	if n.Target != "" {
		out.SetAttr("target", n.Target)
	}
	rel := n.Rel
	if rel == "" && n.Target == "_blank" {
		rel = "noopener noreferrer"
	}
	if rel != "" {
		out.SetAttr("rel", rel)
	}
	return out
}

func renderVideo(r *Renderer, n Node) *OutputNode {
	return videoPlayer(n.ProviderID, "")
}

func videoPlayer(providerID, title string) *OutputNode {
	if title == "" {
		title = "YouTube video player"
	}
	iframe := Element("iframe").
		SetAttr("src", VideoEmbedURL(providerID)).
		SetAttr("title", title).
		SetAttr("frameborder", "0").
		SetAttr("allow", "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture").
		SetAttr("allowfullscreen", "").
		SetAttr("loading", "lazy")
	return Element("div", iframe).
		SetAttr("class", "video-embed").
		SetAttr("data-provider", VideoProvider).
		SetAttr("data-provider-id", providerID)
}

func renderImage(r *Renderer, n Node) *OutputNode {
	img := Element("img").
		SetAttr("src", r.assets.Resolve(n.Src)).
		SetAttr("alt", n.AltText).
		SetAttr("loading", "lazy")
	if n.Width > 0 {
		img.SetAttr("width", strconv.Itoa(n.Width))
	}
	if n.Height > 0 {
		img.SetAttr("height", strconv.Itoa(n.Height))
	}

	out := Element("figure", img).SetAttr("class", "image")
	if n.AltText != "" {
		out.Append(Element("figcaption", TextOutput(n.AltText)))
	}
	return out
}

// renderText applies the format wrappers first, then the inline style.
func renderText(r *Renderer, n Node) *OutputNode {
	out := ApplyFormat(n.Text, n.Format)
	if style := ParseInlineStyle(n.Style); len(style) > 0 {
		span := Element("span", out)
		span.Style = style
		out = span
	}
	return out
}

func renderLineBreak(r *Renderer, n Node) *OutputNode {
	return Element("br")
}

// renderUnknown keeps the content of kinds this build does not know.
func renderUnknown(r *Renderer, n Node) *OutputNode {
	if len(n.Children) == 0 {
		return nil
	}
	return Element("div", r.renderChildren(n)...).
		SetAttr("class", "passthrough").
		SetAttr("data-kind", string(n.Kind))
}
