package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"site-content-be/internal/config"
	"site-content-be/internal/dto"
	"site-content-be/internal/entity"
	"site-content-be/internal/pkg/logger"
	"site-content-be/internal/repository/specification"
	"site-content-be/internal/repository/unitofwork"
	"site-content-be/pkg/events"
	"site-content-be/pkg/fonts"
	"site-content-be/pkg/lexical"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"

	maxTitleLength = 255
)

// DocumentStore loads and saves serialized documents.
type DocumentStore interface {
	LoadDocument(ctx context.Context, key dto.ContentKey) (string, error)
	SaveDocument(ctx context.Context, key dto.ContentKey, content string) error
}

// RenderCache stores rendered output per document and format.
type RenderCache interface {
	Get(ctx context.Context, slug, locale, format string) (string, bool, error)
	Set(ctx context.Context, slug, locale, format, value string) error
	Invalidate(ctx context.Context, slug, locale string) error
}

// EventPublisher sends cross-instance events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// RuleSource exposes the injected font rules.
type RuleSource interface {
	Rules(ctx context.Context) ([]fonts.Rule, error)
}

type IContentService interface {
	DocumentStore
	ResolveKey(slug, locale string) (dto.ContentKey, error)
	Render(ctx context.Context, slug, locale string) (*dto.RenderContentResponse, error)
	Markdown(ctx context.Context, slug, locale string) (string, error)
	Raw(ctx context.Context, slug, locale string) (*dto.RawContentResponse, error)
	Save(ctx context.Context, req *dto.SaveContentRequest) (*dto.SaveContentResponse, error)
	List(ctx context.Context, locale string) ([]dto.ContentSummary, error)
	Warm(ctx context.Context, key dto.ContentKey) error
}

type contentService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      RenderCache
	rules      RuleSource
	assets     lexical.AssetResolver
	publisher  IPublisherService
	events     EventPublisher
	cfg        config.ContentConfig
	logger     logger.ILogger
	tracer     trace.Tracer
}

// NewContentService wires the content service. cache, publisher and
// eventPublisher may be nil.
func NewContentService(
	uowFactory unitofwork.RepositoryFactory,
	cache RenderCache,
	rules RuleSource,
	assets lexical.AssetResolver,
	publisher IPublisherService,
	eventPublisher EventPublisher,
	cfg config.ContentConfig,
	log logger.ILogger,
) IContentService {
	return &contentService{
		uowFactory: uowFactory,
		cache:      cache,
		rules:      rules,
		assets:     assets,
		publisher:  publisher,
		events:     eventPublisher,
		cfg:        cfg,
		logger:     log,
		tracer:     otel.Tracer("site-content-be/content"),
	}
}

func (s *contentService) ResolveKey(slug, locale string) (dto.ContentKey, error) {
	return resolveKey(s.cfg, slug, locale)
}

// resolveKey trims the slug and maps an empty locale to the default one.
func resolveKey(cfg config.ContentConfig, slug, locale string) (dto.ContentKey, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return dto.ContentKey{}, ErrInvalidSlug
	}
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = cfg.DefaultLocale
	}
	if !cfg.IsSupported(locale) {
		return dto.ContentKey{}, ErrUnsupportedLocale
	}
	return dto.ContentKey{Slug: slug, Locale: locale}, nil
}

func (s *contentService) loadContent(ctx context.Context, key dto.ContentKey) (*entity.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DocumentFetchTimeout)
	defer cancel()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	content, err := uow.ContentRepository().FindOne(ctx, specification.BySlugLocale{Slug: key.Slug, Locale: key.Locale})
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s/%s: %w", key.Locale, key.Slug, err)
	}
	if content == nil {
		return nil, ErrDocumentNotFound
	}
	return content, nil
}

func (s *contentService) LoadDocument(ctx context.Context, key dto.ContentKey) (string, error) {
	content, err := s.loadContent(ctx, key)
	if err != nil {
		return "", err
	}
	return content.Body, nil
}

func (s *contentService) SaveDocument(ctx context.Context, key dto.ContentKey, content string) error {
	_, err := s.save(ctx, key, "", content)
	return err
}

func (s *contentService) Save(ctx context.Context, req *dto.SaveContentRequest) (*dto.SaveContentResponse, error) {
	key, err := s.ResolveKey(req.Slug, req.Locale)
	if err != nil {
		return nil, err
	}

	content, err := s.save(ctx, key, req.Title, string(req.Document))
	if err != nil {
		return nil, err
	}

	return &dto.SaveContentResponse{
		Id:        content.Id,
		Slug:      content.Slug,
		Locale:    content.Locale,
		Title:     content.Title,
		UpdatedAt: content.UpdatedAt,
	}, nil
}

// save validates the document, stores its canonical form and announces the
// change. A title of "" keeps the stored title or derives one from the
// document.
func (s *contentService) save(ctx context.Context, key dto.ContentKey, title, body string) (*entity.Content, error) {
	doc, err := lexical.ParseDocument(body)
	if err != nil {
		return nil, err
	}
	canonical, err := doc.Serialize()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.ContentRepository()
	content, err := repo.FindOne(ctx, specification.BySlugLocale{Slug: key.Slug, Locale: key.Locale})
	if err != nil {
		return nil, err
	}

	if content == nil {
		if title == "" {
			title = deriveTitle(doc)
		}
		content = &entity.Content{
			Id:        uuid.New(),
			Slug:      key.Slug,
			Locale:    key.Locale,
			Title:     title,
			Body:      canonical,
			CreatedAt: time.Now(),
		}
		if err := repo.Create(ctx, content); err != nil {
			return nil, err
		}
	} else {
		if title != "" {
			content.Title = title
		} else if content.Title == "" {
			content.Title = deriveTitle(doc)
		}
		content.Body = canonical
		if err := repo.Update(ctx, content); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterSave(ctx, key)
	return content, nil
}

// afterSave drops stale renders and announces the save. The document is
// already stored, so failures here are logged only.
func (s *contentService) afterSave(ctx context.Context, key dto.ContentKey) {
	details := map[string]interface{}{"slug": key.Slug, "locale": key.Locale}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, key.Slug, key.Locale); err != nil {
			s.logger.Warn("ContentService", "Failed to invalidate render cache", withError(details, err))
		}
	}

	if s.publisher != nil {
		msg, _ := json.Marshal(dto.PublishDocumentSavedMessage{Slug: key.Slug, Locale: key.Locale})
		if err := s.publisher.Publish(ctx, msg); err != nil {
			s.logger.Warn("ContentService", "Failed to publish document saved message", withError(details, err))
		}
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewContentSaved(key.Slug, key.Locale, time.Now())); err != nil {
			s.logger.Warn("ContentService", "Failed to publish CONTENT_SAVED event", withError(details, err))
		}
	}
}

// Render loads and renders a document while the injected font rules are read
// concurrently. Font problems never fail the request.
func (s *contentService) Render(ctx context.Context, slug, locale string) (*dto.RenderContentResponse, error) {
	key, err := s.ResolveKey(slug, locale)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "content.Render", trace.WithAttributes(
		attribute.String("content.slug", key.Slug),
		attribute.String("content.locale", key.Locale),
	))
	defer span.End()

	var page *dto.RenderContentResponse
	var rules []fonts.Rule

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.renderPage(gctx, key)
		page = p
		return err
	})
	g.Go(func() error {
		if s.rules == nil {
			return nil
		}
		r, err := s.rules.Rules(gctx)
		if err != nil {
			s.logger.Warn("ContentService", "Font rules unavailable, using fallback fonts", map[string]interface{}{"error": err.Error()})
			return nil
		}
		rules = r
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	page.MissingFonts = missingFonts(page.Fonts, rules)
	span.SetAttributes(attribute.Bool("content.fallback", page.Fallback))
	return page, nil
}

func (s *contentService) renderPage(ctx context.Context, key dto.ContentKey) (*dto.RenderContentResponse, error) {
	if cached, ok := s.cached(ctx, key, FormatHTML); ok {
		var page dto.RenderContentResponse
		if err := json.Unmarshal([]byte(cached), &page); err == nil {
			return &page, nil
		}
	}

	content, err := s.loadContent(ctx, key)
	if err != nil {
		return nil, err
	}

	renderer := NewRenderer(s.cfg, s.assets, key.Locale)
	page := &dto.RenderContentResponse{
		Slug:   key.Slug,
		Locale: key.Locale,
		Title:  content.Title,
		Fonts:  []string{},
	}
	if s.cfg.IsRTL(key.Locale) {
		page.Direction = string(lexical.DirectionRTL)
	}

	var out *lexical.OutputNode
	doc, err := lexical.ParseDocument(content.Body)
	if err != nil {
		s.logger.Warn("ContentService", "Stored document is malformed, rendering plain text", map[string]interface{}{
			"slug": key.Slug, "locale": key.Locale, "error": err.Error(),
		})
		out = lexical.Fallback(content.Body)
		page.Fallback = true
	} else {
		out = renderer.Render(doc)
		if fams := lexical.ReferencedFonts(doc); len(fams) > 0 {
			page.Fonts = fams
		}
	}

	page.HTML, err = lexical.RenderHTML(out)
	if err != nil {
		return nil, fmt.Errorf("failed to export html: %w", err)
	}

	if !page.Fallback {
		if raw, err := json.Marshal(page); err == nil {
			s.store(ctx, key, FormatHTML, string(raw))
		}
	}
	return page, nil
}

func (s *contentService) Markdown(ctx context.Context, slug, locale string) (string, error) {
	key, err := s.ResolveKey(slug, locale)
	if err != nil {
		return "", err
	}
	return s.markdown(ctx, key)
}

func (s *contentService) markdown(ctx context.Context, key dto.ContentKey) (string, error) {
	if cached, ok := s.cached(ctx, key, FormatMarkdown); ok {
		return cached, nil
	}

	body, err := s.LoadDocument(ctx, key)
	if err != nil {
		return "", err
	}

	var out *lexical.OutputNode
	fallback := false
	if doc, err := lexical.ParseDocument(body); err != nil {
		out = lexical.Fallback(body)
		fallback = true
	} else {
		out = NewRenderer(s.cfg, s.assets, key.Locale).Render(doc)
	}

	md, err := lexical.RenderMarkdown(out)
	if err != nil {
		return "", fmt.Errorf("failed to export markdown: %w", err)
	}
	if !fallback {
		s.store(ctx, key, FormatMarkdown, md)
	}
	return md, nil
}

func (s *contentService) Raw(ctx context.Context, slug, locale string) (*dto.RawContentResponse, error) {
	key, err := s.ResolveKey(slug, locale)
	if err != nil {
		return nil, err
	}
	content, err := s.loadContent(ctx, key)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(content.Body)
	if !json.Valid(raw) {
		quoted, _ := json.Marshal(content.Body)
		raw = quoted
	}

	return &dto.RawContentResponse{
		Id:        content.Id,
		Slug:      content.Slug,
		Locale:    content.Locale,
		Title:     content.Title,
		Document:  raw,
		CreatedAt: content.CreatedAt,
		UpdatedAt: content.UpdatedAt,
	}, nil
}

func (s *contentService) List(ctx context.Context, locale string) ([]dto.ContentSummary, error) {
	specs := []specification.Specification{}
	if locale != "" {
		specs = append(specs, specification.ByLocale{Locale: strings.ToLower(locale)})
	}
	specs = append(specs, specification.OrderBy{Field: "slug"})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	contents, err := uow.ContentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ContentSummary, 0, len(contents))
	for _, c := range contents {
		res = append(res, dto.ContentSummary{
			Id:        c.Id,
			Slug:      c.Slug,
			Locale:    c.Locale,
			Title:     c.Title,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return res, nil
}

// Warm renders a document in every cached format. A document deleted in the
// meantime is not an error.
func (s *contentService) Warm(ctx context.Context, key dto.ContentKey) error {
	if _, err := s.renderPage(ctx, key); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil
		}
		return err
	}
	_, err := s.markdown(ctx, key)
	return err
}

func (s *contentService) cached(ctx context.Context, key dto.ContentKey, format string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	val, hit, err := s.cache.Get(ctx, key.Slug, key.Locale, format)
	if err != nil {
		s.logger.Warn("ContentService", "Render cache read failed", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	return val, hit
}

func (s *contentService) store(ctx context.Context, key dto.ContentKey, format, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key.Slug, key.Locale, format, value); err != nil {
		s.logger.Warn("ContentService", "Render cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// deriveTitle uses the first heading, or the first line of text.
func deriveTitle(doc lexical.Document) string {
	var title string
	lexical.Walk(doc.Root, func(n lexical.Node, _ []int) bool {
		if title != "" {
			return false
		}
		if n.Kind == lexical.KindHeading {
			title = strings.TrimSpace(lexical.TextContent(lexical.NewDocument(n)))
			return false
		}
		return true
	})
	if title == "" {
		for _, line := range strings.Split(lexical.TextContent(doc), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				title = line
				break
			}
		}
	}
	if r := []rune(title); len(r) > maxTitleLength {
		title = string(r[:maxTitleLength])
	}
	return title
}

func missingFonts(referenced []string, rules []fonts.Rule) []string {
	injected := make(map[string]bool, len(rules))
	for _, r := range rules {
		injected[strings.ToLower(r.Family)] = true
	}
	var missing []string
	for _, family := range referenced {
		if !injected[strings.ToLower(family)] {
			missing = append(missing, family)
		}
	}
	return missing
}

func withError(details map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
