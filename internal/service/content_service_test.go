package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"site-content-be/internal/dto"
	"site-content-be/internal/entity"
	"site-content-be/internal/pkg/logger"
	"site-content-be/pkg/assets"
	"site-content-be/pkg/events"
	"site-content-be/pkg/fonts"
	"site-content-be/pkg/lexical"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRules []fonts.Rule

func (s staticRules) Rules(ctx context.Context) ([]fonts.Rule, error) { return s, nil }

type contentFixture struct {
	svc       IContentService
	db        *memoryDB
	cache     *fakeCache
	events    *recordingEvents
	publisher *recordingPublisher
}

func newContentFixture(t *testing.T, rules RuleSource) *contentFixture {
	t.Helper()
	f := &contentFixture{
		db:        newMemoryDB(),
		cache:     newFakeCache(),
		events:    &recordingEvents{},
		publisher: &recordingPublisher{},
	}
	f.svc = NewContentService(
		f.db,
		f.cache,
		rules,
		assets.NewBaseURLResolver("https://cdn.example.com"),
		f.publisher,
		f.events,
		testContentConfig(),
		logger.NewNopLogger(),
	)
	return f
}

func (f *contentFixture) put(slug, locale, title, body string) {
	id, now := uuid.New(), time.Now()
	f.db.contents[id] = &entity.Content{Id: id, Slug: slug, Locale: locale, Title: title, Body: body, CreatedAt: now, UpdatedAt: &now}
}

func styledBody(t *testing.T) string {
	t.Helper()
	bold := lexical.NewText("Hello", lexical.FormatBold)
	bold.Style = "font-family: Vazir, 'Inter'"
	doc := lexical.NewDocument(
		lexical.NewHeading(1, lexical.NewText("Welcome", 0)),
		lexical.NewParagraph(bold, lexical.NewText(" world", 0)),
		lexical.NewParagraph(lexical.NewImage("img/cat.png", "cat")),
	)
	body, err := doc.Serialize()
	require.NoError(t, err)
	return body
}

func TestContentSave(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture(t, nil)

	res, err := f.svc.Save(ctx, &dto.SaveContentRequest{Slug: "about", Document: json.RawMessage(styledBody(t))})
	require.NoError(t, err)
	assert.Equal(t, "en", res.Locale)
	assert.Equal(t, "Welcome", res.Title)

	assert.Equal(t, []string{"en:about"}, f.cache.invalidated)
	assert.Equal(t, []string{events.ContentSaved}, f.events.types())
	require.Len(t, f.publisher.payloads, 1)
	var msg dto.PublishDocumentSavedMessage
	require.NoError(t, json.Unmarshal(f.publisher.payloads[0], &msg))
	assert.Equal(t, dto.PublishDocumentSavedMessage{Slug: "about", Locale: "en"}, msg)

	again, err := f.svc.Save(ctx, &dto.SaveContentRequest{Slug: "about", Locale: "en", Title: "About us", Document: json.RawMessage(styledBody(t))})
	require.NoError(t, err)
	assert.Equal(t, res.Id, again.Id)
	assert.Equal(t, "About us", again.Title)

	list, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContentSaveRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture(t, nil)

	_, err := f.svc.Save(ctx, &dto.SaveContentRequest{Slug: "about", Document: json.RawMessage(`{"root":{"type":"paragraph"}}`)})
	var malformed *lexical.MalformedDocumentError
	assert.True(t, errors.As(err, &malformed))

	_, err = f.svc.Save(ctx, &dto.SaveContentRequest{Slug: "about", Locale: "de", Document: json.RawMessage(styledBody(t))})
	assert.ErrorIs(t, err, ErrUnsupportedLocale)

	_, err = f.svc.Save(ctx, &dto.SaveContentRequest{Slug: "  ", Document: json.RawMessage(styledBody(t))})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	assert.Empty(t, f.db.contents)
	assert.Empty(t, f.events.types())
}

func TestContentSaveSurvivesEventFailures(t *testing.T) {
	f := newContentFixture(t, nil)
	f.events.err = errors.New("nats down")
	f.cache.err = errors.New("redis down")

	_, err := f.svc.Save(context.Background(), &dto.SaveContentRequest{Slug: "about", Document: json.RawMessage(styledBody(t))})
	assert.NoError(t, err)
	assert.Len(t, f.db.contents, 1)
}

func TestContentRender(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture(t, staticRules{{Family: "vazir", Weight: 400, Style: "normal"}})
	f.put("about", "en", "Welcome", styledBody(t))

	page, err := f.svc.Render(ctx, "about", "")
	require.NoError(t, err)
	assert.False(t, page.Fallback)
	assert.Empty(t, page.Direction)
	assert.Contains(t, page.HTML, "<strong")
	assert.Contains(t, page.HTML, "https://cdn.example.com/img/cat.png")
	assert.Equal(t, []string{"Inter", "Vazir"}, page.Fonts)
	assert.Equal(t, []string{"Inter"}, page.MissingFonts)
	assert.True(t, f.cache.has("about", "en", FormatHTML))

	// Served from cache once the stored body is gone.
	f.db.contents = map[uuid.UUID]*entity.Content{}
	cached, err := f.svc.Render(ctx, "about", "en")
	require.NoError(t, err)
	assert.Equal(t, page.HTML, cached.HTML)
}

func TestContentRenderRTL(t *testing.T) {
	f := newContentFixture(t, nil)
	f.put("about", "fa", "", styledBody(t))

	page, err := f.svc.Render(context.Background(), "about", "fa")
	require.NoError(t, err)
	assert.Equal(t, "rtl", page.Direction)
	assert.Contains(t, page.HTML, `dir="rtl"`)
}

func TestContentRenderFallsBackOnMalformedDocument(t *testing.T) {
	f := newContentFixture(t, nil)
	f.put("legacy", "en", "Legacy", "first line\nsecond line")

	page, err := f.svc.Render(context.Background(), "legacy", "en")
	require.NoError(t, err)
	assert.True(t, page.Fallback)
	assert.Contains(t, page.HTML, "first line")
	assert.Contains(t, page.HTML, "second line")
	assert.False(t, f.cache.has("legacy", "en", FormatHTML))
}

func TestContentRenderIgnoresFontFailures(t *testing.T) {
	f := newContentFixture(t, failingRules{})
	f.put("about", "en", "Welcome", styledBody(t))

	page, err := f.svc.Render(context.Background(), "about", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"Inter", "Vazir"}, page.MissingFonts)
}

func TestContentRenderErrors(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture(t, nil)

	_, err := f.svc.Render(ctx, "missing", "en")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	f.db.findErr = errors.New("db down")
	_, err = f.svc.Render(ctx, "about", "en")
	assert.ErrorContains(t, err, "db down")
}

func TestContentMarkdown(t *testing.T) {
	f := newContentFixture(t, nil)
	f.put("about", "en", "Welcome", styledBody(t))

	md, err := f.svc.Markdown(context.Background(), "about", "en")
	require.NoError(t, err)
	assert.Contains(t, md, "# Welcome")
	assert.Contains(t, md, "**Hello**")
	assert.True(t, f.cache.has("about", "en", FormatMarkdown))
}

func TestContentRaw(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture(t, nil)
	f.put("about", "en", "Welcome", styledBody(t))
	f.put("legacy", "en", "Legacy", "plain text")

	raw, err := f.svc.Raw(ctx, "about", "en")
	require.NoError(t, err)
	assert.JSONEq(t, styledBody(t), string(raw.Document))

	legacy, err := f.svc.Raw(ctx, "legacy", "en")
	require.NoError(t, err)
	assert.Equal(t, `"plain text"`, string(legacy.Document))
}

func TestContentListAndWarm(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture(t, nil)
	f.put("b", "en", "B", styledBody(t))
	f.put("a", "en", "A", styledBody(t))
	f.put("a", "fa", "A", styledBody(t))

	list, err := f.svc.List(ctx, "EN")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Slug)

	require.NoError(t, f.svc.Warm(ctx, dto.ContentKey{Slug: "a", Locale: "fa"}))
	assert.True(t, f.cache.has("a", "fa", FormatHTML))
	assert.True(t, f.cache.has("a", "fa", FormatMarkdown))

	assert.NoError(t, f.svc.Warm(ctx, dto.ContentKey{Slug: "gone", Locale: "en"}))
}

func TestDeriveTitle(t *testing.T) {
	heading := lexical.NewDocument(
		lexical.NewParagraph(lexical.NewText("intro", 0)),
		lexical.NewHeading(2, lexical.NewText(" Title ", 0)),
	)
	assert.Equal(t, "Title", deriveTitle(heading))

	plain := lexical.NewDocument(
		lexical.NewParagraph(),
		lexical.NewParagraph(lexical.NewText("  first  ", 0)),
	)
	assert.Equal(t, "first", deriveTitle(plain))

	assert.Equal(t, "", deriveTitle(lexical.NewDocument()))
}

func TestMissingFonts(t *testing.T) {
	rules := []fonts.Rule{{Family: "Vazir"}}
	assert.Equal(t, []string{"Inter"}, missingFonts([]string{"vazir", "Inter"}, rules))
	assert.Nil(t, missingFonts([]string{"Vazir"}, rules))
	assert.Nil(t, missingFonts(nil, nil))
}
