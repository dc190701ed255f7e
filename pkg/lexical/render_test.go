package lexical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixResolver string

func (p prefixResolver) Resolve(ref string) string { return string(p) + ref }

func attr(t *testing.T, o *OutputNode, key string) string {
	t.Helper()
	v, ok := o.Attr(key)
	require.True(t, ok, "missing attribute %q on <%s>", key, o.Tag)
	return v
}

func TestRenderUnknownKindPassesChildrenThrough(t *testing.T) {
	content := `{"root":{"kind":"root","children":[` +
		`{"kind":"future-widget","children":[{"kind":"paragraph","children":[{"kind":"text","text":"kept"}]}]},` +
		`{"kind":"future-leaf","payload":"x"}]}}`

	out, err := NewRenderer().RenderContent(content)
	require.NoError(t, err)

	require.Len(t, out.Children, 1)
	passthrough := out.Children[0]
	assert.Equal(t, "div", passthrough.Tag)
	assert.Equal(t, "passthrough", attr(t, passthrough, "class"))
	assert.Equal(t, "future-widget", attr(t, passthrough, "data-kind"))
	assert.Equal(t, "kept", passthrough.TextContent())
}

func TestRenderLinkPromotionIsRenderOnly(t *testing.T) {
	doc := NewDocument(NewParagraph(
		NewLink("https://youtu.be/dQw4w9WgXcQ", NewText("Watch", 0)),
	))

	saved, err := doc.Serialize()
	require.NoError(t, err)
	reloaded, err := ParseDocument(saved)
	require.NoError(t, err)

	assert.Equal(t, KindLink, reloaded.Root.Children[0].Children[0].Kind)
	assert.Contains(t, saved, `"kind":"link"`)
	assert.NotContains(t, saved, `"embed-video"`)

	out := NewRenderer().Render(reloaded)
	assert.Empty(t, out.Find("a"))
	iframes := out.Find("iframe")
	require.Len(t, iframes, 1)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", attr(t, iframes[0], "src"))
	assert.Equal(t, "Watch", attr(t, iframes[0], "title"))
}

func TestRenderLink(t *testing.T) {
	link := NewLink("https://example.com", NewText("site", 0))
	link.Target = "_blank"

	out := NewRenderer().RenderNode(link)
	assert.Equal(t, "a", out.Tag)
	assert.Equal(t, "https://example.com", attr(t, out, "href"))
	assert.Equal(t, "noopener noreferrer", attr(t, out, "rel"))

	unsafe := NewRenderer().RenderNode(NewLink("javascript:alert(1)", NewText("x", 0)))
	assert.Equal(t, "about:blank", attr(t, unsafe, "href"))
}

func TestRenderLinkOnlyPromotesAbsoluteVideoURLs(t *testing.T) {
	for _, href := range []string{"pricing-faq", "dQw4w9WgXcQ", "youtu.be/dQw4w9WgXcQ", "/watch?v=dQw4w9WgXcQ"} {
		t.Run(href, func(t *testing.T) {
			out := NewRenderer().RenderNode(NewLink(href, NewText("faq", 0)))
			assert.Equal(t, "a", out.Tag)
			assert.Equal(t, href, attr(t, out, "href"))
			assert.Empty(t, out.Find("iframe"))
		})
	}
}

func TestRenderDirectionOnContainerOnly(t *testing.T) {
	p := NewParagraph(NewText("سلام", FormatBold))
	p.Direction = DirectionRTL
	p.Align = AlignRight

	out := NewRenderer(WithDirection(DirectionRTL)).Render(NewDocument(p))
	assert.Equal(t, "rtl", attr(t, out, "dir"))

	para := out.Children[0]
	assert.Equal(t, "p", para.Tag)
	assert.Equal(t, "rtl", attr(t, para, "dir"))
	assert.Equal(t, "right", para.Style["textAlign"])

	strong := para.Children[0]
	_, hasDir := strong.Attr("dir")
	assert.False(t, hasDir)
}

func TestRenderBlocks(t *testing.T) {
	list := NewList(true, NewListItem(NewText("a", 0)))
	list.Start = 4
	doc := NewDocument(
		NewHeading(9, NewText("Big", 0)),
		list,
		NewQuote(NewParagraph(NewText("q", 0))),
		NewCode("go", NewText("x := 1", 0)),
		NewParagraph(NewText("a", 0), NewLineBreak(), NewText("b", 0)),
	)

	out := NewRenderer().Render(doc)
	require.Len(t, out.Children, 5)

	assert.Equal(t, "h6", out.Children[0].Tag)
	assert.Equal(t, "ol", out.Children[1].Tag)
	assert.Equal(t, "4", attr(t, out.Children[1], "start"))
	assert.Equal(t, "li", out.Children[1].Children[0].Tag)
	assert.Equal(t, "blockquote", out.Children[2].Tag)

	code := out.Children[3].Find("code")
	require.Len(t, code, 1)
	assert.Equal(t, "go", attr(t, code[0], "data-language"))

	assert.Len(t, out.Children[4].Find("br"), 1)
}

func TestRenderImage(t *testing.T) {
	img := NewImage("uploads/cat.png", "A cat")
	img.Width = 320

	out := NewRenderer(WithAssetResolver(prefixResolver("https://cdn.test/"))).RenderNode(img)
	assert.Equal(t, "figure", out.Tag)

	tag := out.Find("img")[0]
	assert.Equal(t, "https://cdn.test/uploads/cat.png", attr(t, tag, "src"))
	assert.Equal(t, "A cat", attr(t, tag, "alt"))
	assert.Equal(t, "320", attr(t, tag, "width"))

	captions := out.Find("figcaption")
	require.Len(t, captions, 1)
	assert.Equal(t, "A cat", captions[0].TextContent())

	bare := NewRenderer().RenderNode(NewImage("a.png", ""))
	assert.Empty(t, bare.Find("figcaption"))
}

func TestRenderTextStyle(t *testing.T) {
	text := NewText("hot", FormatItalic)
	text.Style = "color: red"

	out := NewRenderer().RenderNode(text)
	assert.Equal(t, "span", out.Tag)
	assert.Equal(t, "red", out.Style["color"])
	assert.Equal(t, "em", out.Children[0].Tag)
}

func TestRenderContentFallback(t *testing.T) {
	content := "first line\n\nsecond line {not json"
	out, err := NewRenderer().RenderContent(content)
	require.Error(t, err)

	var malformed *MalformedDocumentError
	assert.ErrorAs(t, err, &malformed)

	assert.Equal(t, "document document--fallback", attr(t, out, "class"))
	paragraphs := out.Find("p")
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "second line {not json", paragraphs[1].TextContent())
}

func TestRenderContentMissingRequiredAttribute(t *testing.T) {
	content := `{"root":{"kind":"root","children":[{"kind":"heading","children":[]}]}}`
	out, err := NewRenderer().RenderContent(content)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "level"))
	assert.NotNil(t, out)
}

func TestRenderEmptyDocument(t *testing.T) {
	out := NewRenderer().Render(Document{})
	assert.Equal(t, "div", out.Tag)
	assert.Empty(t, out.Children)
}

func TestTextContentAndFonts(t *testing.T) {
	styled := NewText("Hi", 0)
	styled.Style = `font-family: "Vazirmatn", Inter`
	other := NewText("there", 0)
	other.Style = "font-family: Inter"

	doc := NewDocument(
		NewParagraph(styled, NewText(" ", 0), other),
		NewList(false, NewListItem(NewText("one", 0)), NewListItem(NewText("two", 0))),
	)

	assert.Equal(t, "Hi there\n\none\ntwo", TextContent(doc))
	assert.Equal(t, []string{"Inter", "Vazirmatn"}, ReferencedFonts(doc))
}
